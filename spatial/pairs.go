package spatial

// Pair is an unordered candidate pair of entity ids that share at least
// one spatial cell — the broad-phase output fed to the pair dispatcher.
type Pair struct {
	A, B EntityId
}

// CandidatePairs enumerates every unordered pair of entities that are
// co-members of some node at level: the simplest broad-phase candidate
// set a cell-based spatial index can produce. Each pair is reported once,
// with A < B.
func (ix *Index) CandidatePairs(level uint8) []Pair {
	ix.mu.RLock()
	lb, ok := ix.levels[level]
	ix.mu.RUnlock()
	if !ok {
		return nil
	}

	ix.mu.RLock()
	codes := append([]uint64(nil), lb.codes...)
	ix.mu.RUnlock()

	seen := make(map[Pair]struct{})
	var out []Pair
	for _, code := range codes {
		ix.mu.RLock()
		n, ok := lb.nodes[code]
		ix.mu.RUnlock()
		if !ok {
			continue
		}
		ids := n.snapshot()
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a, b := ids[i], ids[j]
				if a > b {
					a, b = b, a
				}
				p := Pair{A: a, B: b}
				if _, dup := seen[p]; dup {
					continue
				}
				seen[p] = struct{}{}
				out = append(out, p)
			}
		}
	}
	return out
}

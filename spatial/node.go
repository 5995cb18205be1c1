package spatial

import "sync"

// EntityId identifies an entity registered with the index. The index
// itself never inspects an id beyond using it as a map key; entity
// content lives with the caller.
type EntityId uint64

// node is a set of entity ids living at one Morton key. Add/remove are
// atomic so a node that has just been emptied can be retired without a
// racing insert reviving it invisibly: once retired, a node rejects
// further adds and reads as empty.
type node struct {
	mu      sync.Mutex
	ids     map[EntityId]struct{}
	retired bool
}

func newNode() *node {
	return &node{ids: make(map[EntityId]struct{})}
}

// add inserts id into the node. ok is false if the node was already
// retired (the caller must allocate a fresh node and retry).
func (n *node) add(id EntityId) (ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.retired {
		return false
	}
	n.ids[id] = struct{}{}
	return true
}

// remove deletes id from the node. retiredNow reports whether this call
// emptied the node and retired it (the caller should drop the node map
// entry).
func (n *node) remove(id EntityId) (retiredNow bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.ids, id)
	if len(n.ids) == 0 && !n.retired {
		n.retired = true
		return true
	}
	return false
}

// isRetired reports the node's current retirement state. A retired node
// reads as empty to every caller.
func (n *node) isRetired() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.retired
}

// snapshot copies out the node's current member ids, or nil if retired.
// The copy means the caller iterates a consistent set even if concurrent
// adds/removes continue after this call returns.
func (n *node) snapshot() []EntityId {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.retired {
		return nil
	}
	out := make([]EntityId, 0, len(n.ids))
	for id := range n.ids {
		out = append(out, id)
	}
	return out
}

func (n *node) size() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.retired {
		return 0
	}
	return len(n.ids)
}

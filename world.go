package lattice

import (
	"sync"

	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/logx"
	"github.com/lattice3d/lattice/narrow"
	"github.com/lattice3d/lattice/shape"
	"github.com/lattice3d/lattice/spatial"
	"github.com/lattice3d/lattice/vecmath"
)

// FilterFunc is a predicate on a candidate pair and its shapes that
// rejects the pair before any narrow-phase work runs. A nil FilterFunc
// accepts every pair.
type FilterFunc func(id1, id2 spatial.EntityId, shape1, shape2 shape.Shape) bool

// ContactFunc is invoked with each accepted contact; downstream
// resolution (impulses, friction) is left to the caller.
type ContactFunc func(id1, id2 spatial.EntityId, contact narrow.Contact)

// World composes the SFC index (spatial.Index), the pair dispatcher
// (narrow.Detect), and the listener/filter hooks into a single
// broad-phase-then-narrow-phase sweep.
type World struct {
	mu sync.Mutex

	cfg       *Config
	narrowCfg narrow.Config
	log       logx.Logger

	idx    *spatial.Index
	level  uint8
	shapes map[spatial.EntityId]shape.Shape
	nextID spatial.EntityId

	filter    FilterFunc
	onContact ContactFunc
}

// NewWorld builds a World over a fresh spatial index. cfg may be nil (use
// DefaultConfig()); log may be nil (use a no-op logger). level is the
// single refinement level at which entities are inserted and queried:
// the index supports per-query levels, but a World needs one level picked
// up front to make broad-phase candidate-pair enumeration well-defined
// across all registered shapes.
func NewWorld(cfg *Config, level uint8, log logx.Logger) *World {
	cfg = withDefaults(cfg)
	if log == nil {
		log = logx.NewNopLogger()
	}
	sc := spatial.DefaultConfig()
	sc.MaxCoord = float32(cfg.MaxCoord)
	return &World{
		cfg: cfg,
		narrowCfg: narrow.Config{
			Epsilons:         shape.Epsilons{Parallel: cfg.EpsParallel, FaceSelectAABB: cfg.EpsFaceSelectAABB, FaceSelectOBB: cfg.EpsFaceSelectOBB},
			MeshContactDepth: 0.1,
		},
		log:    log,
		idx:    spatial.NewIndex(sc, log),
		level:  level,
		shapes: make(map[spatial.EntityId]shape.Shape),
	}
}

// SetFilter installs the candidate-pair filter hook. Pass
// nil to accept every pair.
func (w *World) SetFilter(f FilterFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.filter = f
}

// SetContactCallback installs the per-contact callback.
func (w *World) SetContactCallback(f ContactFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onContact = f
}

// Add registers s as a bounded entity,
// keyed by its current world AABB, and returns its new id.
func (w *World) Add(s shape.Shape) spatial.EntityId {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.shapes[id] = s
	w.mu.Unlock()

	w.idx.InsertBounded(id, s.AABB(), w.level)
	return id
}

// Remove drops id from the world. ok is false if id was never added.
func (w *World) Remove(id spatial.EntityId) bool {
	w.mu.Lock()
	_, ok := w.shapes[id]
	delete(w.shapes, id)
	w.mu.Unlock()
	if !ok {
		return false
	}
	return w.idx.Remove(id)
}

// Translate moves id's shape by delta and keeps the spatial index in
// sync via the four-phase move protocol, re-keying it by
// the shape's new world AABB.
func (w *World) Translate(id spatial.EntityId, delta vecmath.Vec3) bool {
	w.mu.Lock()
	s, ok := w.shapes[id]
	w.mu.Unlock()
	if !ok {
		return false
	}
	s.Translate(delta)
	return w.idx.MoveBoundedTo(id, s.AABB())
}

// Shape returns the shape registered under id, if any.
func (w *World) Shape(id spatial.EntityId) (shape.Shape, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.shapes[id]
	return s, ok
}

// QueryRange returns the ids of shapes whose bounds intersect q.
func (w *World) QueryRange(q geom.AABB) []spatial.EntityId {
	return w.idx.QueryRange(q, w.level)
}

// Step runs one broad-phase sweep: fetch candidate pairs from the index,
// reject pairs the filter hook declines, run each surviving pair through
// the narrow-phase dispatcher, and invoke the contact callback for every
// pair that actually collides. It returns the number of contacts
// reported.
func (w *World) Step() int {
	w.mu.Lock()
	filter := w.filter
	onContact := w.onContact
	shapesSnapshot := make(map[spatial.EntityId]shape.Shape, len(w.shapes))
	for id, s := range w.shapes {
		shapesSnapshot[id] = s
	}
	w.mu.Unlock()

	pairs := w.idx.CandidatePairs(w.level)
	reported := 0
	for _, p := range pairs {
		s1, ok1 := shapesSnapshot[p.A]
		s2, ok2 := shapesSnapshot[p.B]
		if !ok1 || !ok2 {
			continue
		}
		if filter != nil && !filter(p.A, p.B, s1, s2) {
			continue
		}
		c := narrow.Detect(s1, s2, w.narrowCfg)
		if !c.Collides {
			continue
		}
		if onContact != nil {
			onContact(p.A, p.B, c)
		}
		reported++
	}
	return reported
}

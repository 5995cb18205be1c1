package spatial

import (
	"github.com/lattice3d/lattice/geom"
	"github.com/lattice3d/lattice/vecmath"
)

// InsertPoint inserts a point entity at the requested refinement level.
// ok is false if id is already registered (callers must Remove first, or
// use MoveTo).
func (ix *Index) InsertPoint(id EntityId, pos vecmath.Vec3, level uint8) bool {
	ix.mu.Lock()
	if _, exists := ix.entities[id]; exists {
		ix.mu.Unlock()
		return false
	}
	rec := &entityRecord{id: id, hasPos: true, pos: pos, level: level, state: stateStable}
	ix.entities[id] = rec
	ix.mu.Unlock()

	keys := ix.keysForPoint(pos, level)
	for _, k := range keys {
		ix.addToCell(k, id)
	}
	ix.mu.Lock()
	rec.keys = keys
	ix.mu.Unlock()
	return true
}

// InsertBounded inserts a bounded (spanning) entity: it is added to every
// cell its bounds overlaps at level.
func (ix *Index) InsertBounded(id EntityId, bounds geom.AABB, level uint8) bool {
	ix.mu.Lock()
	if _, exists := ix.entities[id]; exists {
		ix.mu.Unlock()
		return false
	}
	rec := &entityRecord{id: id, hasBounds: true, bounds: bounds, level: level, state: stateStable}
	ix.entities[id] = rec
	ix.mu.Unlock()

	keys := ix.keysForBounds(bounds, level)
	for _, k := range keys {
		ix.addToCell(k, id)
	}
	ix.mu.Lock()
	rec.keys = keys
	ix.mu.Unlock()
	return true
}

// Remove drops id from every cell it occupies and forgets its record.
// ok is false if id was never registered.
func (ix *Index) Remove(id EntityId) bool {
	ix.mu.Lock()
	rec, ok := ix.entities[id]
	if !ok {
		ix.mu.Unlock()
		return false
	}
	delete(ix.entities, id)
	keys := rec.keys
	ix.mu.Unlock()

	for _, k := range keys {
		ix.removeFromCell(k, id)
	}
	return true
}

// MoveTo runs the four-phase move protocol for a point entity:
//
//	STABLE -> PREPARE (compute new keys) -> INSERT (add to new keys
//	first) -> UPDATE (atomic record swap) -> REMOVE (drop old-only
//	keys) -> STABLE
//
// Between INSERT and REMOVE, the entity is a member of the union of its
// old and new key sets, so a concurrent reader observes it under either
// its old or its new position, never neither. ok is false if id isn't
// registered.
func (ix *Index) MoveTo(id EntityId, newPos vecmath.Vec3) bool {
	return ix.move(id, func(level uint8) []MortonKey {
		return ix.keysForPoint(newPos, level)
	}, func(rec *entityRecord) {
		rec.hasPos = true
		rec.pos = newPos
	})
}

// MoveBoundedTo runs the same four-phase protocol for a bounded entity,
// recomputing the cell-spanning key set from newBounds instead of a
// single point.
func (ix *Index) MoveBoundedTo(id EntityId, newBounds geom.AABB) bool {
	return ix.move(id, func(level uint8) []MortonKey {
		return ix.keysForBounds(newBounds, level)
	}, func(rec *entityRecord) {
		rec.hasBounds = true
		rec.bounds = newBounds
	})
}

// move implements the four-phase PREPARE/INSERT/UPDATE/REMOVE protocol
// shared by MoveTo and MoveBoundedTo. computeNewKeys derives the target
// key set from the entity's registered level; applyNewContent stores the
// entity's new position/bounds onto its record during the UPDATE phase.
func (ix *Index) move(id EntityId, computeNewKeys func(level uint8) []MortonKey, applyNewContent func(*entityRecord)) bool {
	ix.mu.Lock()
	rec, ok := ix.entities[id]
	if !ok {
		ix.mu.Unlock()
		return false
	}
	oldKeys := rec.keys
	level := rec.level
	rec.state = statePrepare
	ix.mu.Unlock()

	ix.log.Debugf("spatial: move id=%d PREPARE", id)
	newKeys := computeNewKeys(level)

	ix.mu.Lock()
	rec.state = stateInsert
	ix.mu.Unlock()
	ix.log.Debugf("spatial: move id=%d INSERT", id)

	// addToCell always succeeds (it retries through node retirement races
	// rather than failing), so this phase has no partial-failure case to
	// roll back in this synchronous implementation; the ordering itself
	// is still what gives PREPARE/INSERT/REMOVE its discoverability
	// guarantee.
	for _, k := range newKeys {
		if containsKey(oldKeys, k) {
			continue
		}
		ix.addToCell(k, id)
	}

	ix.mu.Lock()
	rec.state = stateUpdate
	applyNewContent(rec)
	rec.keys = newKeys
	ix.mu.Unlock()
	ix.log.Debugf("spatial: move id=%d UPDATE", id)

	ix.mu.Lock()
	rec.state = stateRemove
	ix.mu.Unlock()
	ix.log.Debugf("spatial: move id=%d REMOVE", id)

	for _, k := range oldKeys {
		if containsKey(newKeys, k) {
			continue
		}
		ix.removeFromCell(k, id)
	}

	ix.mu.Lock()
	rec.state = stateStable
	ix.mu.Unlock()
	ix.log.Debugf("spatial: move id=%d STABLE", id)
	return true
}

func containsKey(keys []MortonKey, k MortonKey) bool {
	for _, existing := range keys {
		if existing == k {
			return true
		}
	}
	return false
}

// Len reports the number of entities currently registered.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entities)
}

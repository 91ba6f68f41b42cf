package uniform

import "sync/atomic"

// Slot owns the mutable buffer behind one (material, uniform) pair. Vector and colour
// writes go through the existing component buffer rather than replacing it, so the
// address returned by Components stays stable across in-place updates.
type Slot struct {
	value  Value
	writes atomic.Uint64
}

// Table is a material's uniform table, keyed by uniform name.
type Table map[string]*Slot

// NewSlot creates a slot holding a copy of v.
func NewSlot(v Value) *Slot {
	return &Slot{value: v.Clone()}
}

// Set writes v into the slot. When both the current and the incoming value are
// vectors or colours of the same kind the components are overwritten in place,
// otherwise the held value is replaced.
func (s *Slot) Set(v Value) {
	if s.value.kind == v.kind && v.kind.Vector() {
		s.value.comps[0] = v.comps[0]
		s.value.comps[1] = v.comps[1]
		s.value.comps[2] = v.comps[2]
	} else {
		s.value = v.Clone()
	}
	s.writes.Add(1)
}

// SetScalar writes f directly, skipping conversion. Used by the per-frame time path.
func (s *Slot) SetScalar(f float32) {
	if s.value.kind != KindScalar {
		s.value = Value{kind: KindScalar}
	}
	s.value.comps[0] = f
	s.writes.Add(1)
}

// Value returns a copy of the held value.
func (s *Slot) Value() Value {
	return s.value.Clone()
}

func (s *Slot) Kind() Kind {
	return s.value.kind
}

// Components exposes the slot's component buffer. The pointer is stable for the
// life of the slot while its kind does not change.
func (s *Slot) Components() *[3]float32 {
	return &s.value.comps
}

// Writes returns the number of writes applied to the slot.
func (s *Slot) Writes() uint64 {
	return s.writes.Load()
}

// Clone returns a deep copy of the table with fresh slots and zeroed write counters.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for name, slot := range t {
		if slot == nil {
			continue
		}
		out[name] = NewSlot(slot.value)
	}
	return out
}

// Snapshot returns the current values of every slot in the table.
func (t Table) Snapshot() map[string]Value {
	out := make(map[string]Value, len(t))
	for name, slot := range t {
		if slot != nil {
			out[name] = slot.Value()
		}
	}
	return out
}

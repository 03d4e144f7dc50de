package settings

import (
	"fmt"
	"slices"
)

// Values is one value per registry entry, in registry order.
type Values []uint32

// Clone returns an independent copy.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	return slices.Clone(v)
}

// Source provides the local room settings defaults.
type Source interface {
	RoomSettings() Values
}

// Synchronizer owns the room settings vector. Every stored value is below its
// entry's value count; updates are all-or-nothing.
type Synchronizer struct {
	registry *Registry
	values   Values
}

// NewSynchronizer creates a synchronizer holding all-zero values.
func NewSynchronizer(registry *Registry) *Synchronizer {
	return &Synchronizer{
		registry: registry,
		values:   make(Values, registry.Len()),
	}
}

// Registry returns the registry values are validated against.
func (s *Synchronizer) Registry() *Registry { return s.registry }

// ApplyBulk validates every value before writing any of them.
func (s *Synchronizer) ApplyBulk(values []uint32) error {
	_, err := s.ApplyBulkDiff(values)
	return err
}

// ApplyBulkDiff is ApplyBulk that also reports whether any stored value changed.
func (s *Synchronizer) ApplyBulkDiff(values []uint32) (bool, error) {
	if err := s.registry.Validate(values); err != nil {
		return false, err
	}

	changed := !slices.Equal(s.values, values)
	copy(s.values, values)
	return changed, nil
}

// SnapshotLocalDefaults replaces the vector with the local defaults from src.
func (s *Synchronizer) SnapshotLocalDefaults(src Source) error {
	if err := s.ApplyBulk(src.RoomSettings()); err != nil {
		return fmt.Errorf("local room settings: %w", err)
	}
	return nil
}

// Values returns a copy of the stored vector.
func (s *Synchronizer) Values() Values { return s.values.Clone() }

// Get returns the value of the i-th setting.
func (s *Synchronizer) Get(i int) uint32 { return s.values[i] }

// Lookup returns the value of the named setting.
func (s *Synchronizer) Lookup(name string) (uint32, bool) {
	i, ok := s.registry.Index(name)
	if !ok {
		return 0, false
	}
	return s.values[i], true
}

// TeamSize returns the RoomTeamSize setting, FFA when the registry lacks it.
func (s *Synchronizer) TeamSize() uint32 {
	v, ok := s.Lookup(RoomTeamSize)
	if !ok {
		return TeamSizeFFA
	}
	return v
}

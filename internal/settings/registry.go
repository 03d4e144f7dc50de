// Package settings holds the room settings registry and the synchronizer that
// owns the shared room configuration.
package settings

import (
	"errors"
	"fmt"
	"strconv"
)

// Entry describes one room setting: its name and how many values it accepts.
type Entry struct {
	Name       string
	ValueCount uint32
	Labels     []string
}

// Label returns the display label for value v.
func (e Entry) Label(v uint32) string {
	if int(v) < len(e.Labels) {
		return e.Labels[v]
	}
	return strconv.FormatUint(uint64(v), 10)
}

// Room setting names
const (
	RoomTeamSize        = "RoomTeamSize"
	RoomTeamSelection   = "RoomTeamSelection"
	RoomRaceCount       = "RoomRaceCount"
	RoomCourseSelection = "RoomCourseSelection"
	RoomClass           = "RoomClass"
	RoomVehicles        = "RoomVehicles"
)

// TeamSize values
const (
	TeamSizeFFA uint32 = iota
	TeamSize2v2
	TeamSize3v3
	TeamSize4v4
	TeamSize6v6
)

var (
	// ErrLength is returned when a values vector does not match the registry.
	ErrLength = errors.New("settings: wrong number of values")
	// ErrOutOfRange is returned when a value is not below its entry's value count.
	ErrOutOfRange = errors.New("settings: value out of range")
	// ErrUnknownSetting is returned for a name the registry does not contain.
	ErrUnknownSetting = errors.New("settings: unknown setting")
)

// Registry is the ordered list of recognized room settings.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// NewRegistry builds a registry from entries in wire order.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{
		entries: append([]Entry(nil), entries...),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range r.entries {
		r.index[e.Name] = i
	}
	return r
}

var defaultEntries = []Entry{
	{Name: RoomTeamSize, ValueCount: 5, Labels: []string{"FFA", "2v2", "3v3", "4v4", "6v6"}},
	{Name: RoomTeamSelection, ValueCount: 2, Labels: []string{"Random", "Manual"}},
	{Name: RoomRaceCount, ValueCount: 8, Labels: []string{"4", "8", "12", "16", "20", "24", "28", "32"}},
	{Name: RoomCourseSelection, ValueCount: 3, Labels: []string{"Random", "In order", "Vote"}},
	{Name: RoomClass, ValueCount: 5, Labels: []string{"50cc", "100cc", "150cc", "200cc", "Mirror"}},
	{Name: RoomVehicles, ValueCount: 3, Labels: []string{"All", "Karts", "Bikes"}},
}

// DefaultRegistry returns the room settings known to this client.
func DefaultRegistry() *Registry {
	return NewRegistry(defaultEntries...)
}

// Len returns the number of settings.
func (r *Registry) Len() int { return len(r.entries) }

// Entry returns the i-th entry.
func (r *Registry) Entry(i int) Entry { return r.entries[i] }

// Entries returns a copy of all entries.
func (r *Registry) Entries() []Entry { return append([]Entry(nil), r.entries...) }

// Index returns the position of the named setting.
func (r *Registry) Index(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Validate checks that values has one in-range entry per setting.
func (r *Registry) Validate(values []uint32) error {
	if len(values) != len(r.entries) {
		return fmt.Errorf("%w: got %d, want %d", ErrLength, len(values), len(r.entries))
	}
	for i, v := range values {
		if v >= r.entries[i].ValueCount {
			return fmt.Errorf("%w: %s=%d (max %d)", ErrOutOfRange, r.entries[i].Name, v, r.entries[i].ValueCount-1)
		}
	}
	return nil
}

// Parse resolves a label or a numeric string into a value for the named setting.
func (r *Registry) Parse(name, raw string) (int, uint32, error) {
	i, ok := r.Index(name)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
	e := r.entries[i]
	for v, label := range e.Labels {
		if label == raw {
			return i, uint32(v), nil
		}
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s=%q", ErrOutOfRange, name, raw)
	}
	v := uint32(n)
	if v >= e.ValueCount {
		return 0, 0, fmt.Errorf("%w: %s=%d (max %d)", ErrOutOfRange, name, v, e.ValueCount-1)
	}
	return i, v, nil
}

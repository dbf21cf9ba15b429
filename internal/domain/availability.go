package domain

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// TimeBlock is a contiguous range within one weekday.
type TimeBlock struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Validate checks both bounds are canonical HH:MM and Start < End.
func (b TimeBlock) Validate() error {
	if err := b.Start.Validate(); err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidInput, err)
	}
	if err := b.End.Validate(); err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidInput, err)
	}
	if !b.Start.IsBefore(b.End) {
		return fmt.Errorf("%w: %s-%s", ErrInvalidRange, b.Start, b.End)
	}
	return nil
}

// Overlaps reports whether the blocks share at least one minute. Touching blocks do not overlap.
func (b TimeBlock) Overlaps(other TimeBlock) bool {
	return b.Start.IsBefore(other.End) && other.Start.IsBefore(b.End)
}

// WeeklyAvailability maps weekdays to blocks in source insertion order.
// A weekday without availability is absent from the map.
type WeeklyAvailability map[Weekday][]TimeBlock

// BlocksFor returns the blocks of a weekday.
func (w WeeklyAvailability) BlocksFor(day Weekday) []TimeBlock {
	if w == nil {
		return nil
	}
	return w[day]
}

// IsEmpty reports whether no weekday has blocks.
func (w WeeklyAvailability) IsEmpty() bool {
	for _, blocks := range w {
		if len(blocks) > 0 {
			return false
		}
	}
	return true
}

// Validate checks every block; availability writes go through it.
func (w WeeklyAvailability) Validate() error {
	for day, blocks := range w {
		if !day.IsValid() {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, day)
		}
		for _, b := range blocks {
			if err := b.Validate(); err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
		}
	}
	return nil
}

// Flatten turns the map back into wire rows, canonical weekday order first and
// insertion order within a weekday.
func (w WeeklyAvailability) Flatten() []AvailabilityRecord {
	records := make([]AvailabilityRecord, 0)
	for _, day := range Weekdays {
		for _, b := range w[day] {
			records = append(records, AvailabilityRecord{
				Weekday: string(day),
				Start:   b.Start.String(),
				End:     b.End.String(),
			})
		}
	}
	return records
}

// AvailabilityRecord is the raw wire row: one contiguous block of one weekday.
type AvailabilityRecord struct {
	Weekday string `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// MergeBlocks sorts blocks by start and collapses overlapping or identical ones.
// Adjacent blocks (end == next start) stay separate.
func MergeBlocks(blocks []TimeBlock) []TimeBlock {
	if len(blocks) == 0 {
		return nil
	}

	sorted := make([]TimeBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.IsBefore(sorted[j].Start)
	})

	merged := []TimeBlock{sorted[0]}
	for _, b := range sorted[1:] {
		last := &merged[len(merged)-1]
		if b.Start.IsBefore(last.End) {
			if b.End.IsAfter(last.End) {
				last.End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

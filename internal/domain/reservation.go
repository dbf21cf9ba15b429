package domain

import "github.com/m04kA/SMC-TurnosService/pkg/types"

// ReservedFor returns the slots held by appointments with the given professional.
// Only pending and confirmed appointments with a concrete schedule count.
// This is the single reservation filter used by slot generation and booking.
func ReservedFor(appointments []*Appointment, professionalID int64) []ReservedSlot {
	reserved := make([]ReservedSlot, 0)
	for _, a := range appointments {
		if a == nil || a.ProfessionalID != professionalID || !a.IsActive() || a.Schedule == nil {
			continue
		}
		reserved = append(reserved, ReservedSlot{
			AppointmentID: a.ID,
			Date:          a.Schedule.Date,
			Start:         a.Schedule.Start,
			End:           a.Schedule.End,
		})
	}
	return reserved
}

// IsReserved reports whether (date, start) is held by any reserved slot.
func IsReserved(reserved []ReservedSlot, date types.Date, start types.TimeString) bool {
	for _, r := range reserved {
		if r.Date == date && r.Start == start {
			return true
		}
	}
	return false
}

type slotKey struct {
	date  types.Date
	start types.TimeString
}

// ReservedIndex is a set view over reserved slots for repeated lookups.
type ReservedIndex map[slotKey]struct{}

// IndexReserved builds a ReservedIndex.
func IndexReserved(reserved []ReservedSlot) ReservedIndex {
	idx := make(ReservedIndex, len(reserved))
	for _, r := range reserved {
		idx[slotKey{date: r.Date, start: r.Start}] = struct{}{}
	}
	return idx
}

// Contains reports whether (date, start) is reserved.
func (idx ReservedIndex) Contains(date types.Date, start types.TimeString) bool {
	_, ok := idx[slotKey{date: date, start: start}]
	return ok
}

package domain

import "time"

// Weekday is a canonical lowercase ASCII weekday key.
type Weekday string

const (
	Lunes     Weekday = "lunes"
	Martes    Weekday = "martes"
	Miercoles Weekday = "miercoles"
	Jueves    Weekday = "jueves"
	Viernes   Weekday = "viernes"
	Sabado    Weekday = "sabado"
	Domingo   Weekday = "domingo"
)

// Weekdays lists the canonical keys Monday first.
var Weekdays = []Weekday{Lunes, Martes, Miercoles, Jueves, Viernes, Sabado, Domingo}

// WeekdayOf maps a time.Weekday to its canonical key.
func WeekdayOf(d time.Weekday) Weekday {
	switch d {
	case time.Monday:
		return Lunes
	case time.Tuesday:
		return Martes
	case time.Wednesday:
		return Miercoles
	case time.Thursday:
		return Jueves
	case time.Friday:
		return Viernes
	case time.Saturday:
		return Sabado
	default:
		return Domingo
	}
}

// IsValid reports whether w is one of the canonical keys.
func (w Weekday) IsValid() bool {
	return w.index() >= 0
}

func (w Weekday) index() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

func (w Weekday) String() string {
	return string(w)
}

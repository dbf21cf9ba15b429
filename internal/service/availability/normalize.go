package availability

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// weekdayAliases сопоставляет нормализованные написания с каноническими ключами
var weekdayAliases = map[string]domain.Weekday{
	"lunes": domain.Lunes, "lun": domain.Lunes, "monday": domain.Lunes, "mon": domain.Lunes,
	"martes": domain.Martes, "mar": domain.Martes, "tuesday": domain.Martes, "tue": domain.Martes,
	"miercoles": domain.Miercoles, "mie": domain.Miercoles, "wednesday": domain.Miercoles, "wed": domain.Miercoles,
	"jueves": domain.Jueves, "jue": domain.Jueves, "thursday": domain.Jueves, "thu": domain.Jueves,
	"viernes": domain.Viernes, "vie": domain.Viernes, "friday": domain.Viernes, "fri": domain.Viernes,
	"sabado": domain.Sabado, "sab": domain.Sabado, "saturday": domain.Sabado, "sat": domain.Sabado,
	"domingo": domain.Domingo, "dom": domain.Domingo, "sunday": domain.Domingo, "sun": domain.Domingo,
}

// Rejected строка, отброшенная нормализатором, с причиной
type Rejected struct {
	Index  int
	Record domain.AvailabilityRecord
	Reason string
}

func (r Rejected) String() string {
	return fmt.Sprintf("row %d (%q %q-%q): %s", r.Index, r.Record.Weekday, r.Record.Start, r.Record.End, r.Reason)
}

// ParseWeekday приводит написание дня недели к каноническому ключу:
// нижний регистр, без диакритики ("Miércoles" -> miercoles)
func ParseWeekday(token string) (domain.Weekday, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(token))
	if cleaned == "" {
		return "", false
	}

	// Цепочка не потокобезопасна, поэтому создаётся на каждый вызов
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, cleaned)
	if err != nil {
		return "", false
	}

	day, ok := weekdayAliases[strings.TrimSuffix(stripped, ".")]
	return day, ok
}

// Normalize собирает недельную доступность из плоских строк.
// Никогда не падает: строки без дня или времени, с неизвестным днём,
// с нераспознанным временем или с start >= end пропускаются и возвращаются в rejected.
// Порядок блоков внутри дня совпадает с порядком строк источника.
func Normalize(records []domain.AvailabilityRecord) (domain.WeeklyAvailability, []Rejected) {
	weekly := make(domain.WeeklyAvailability)
	var rejected []Rejected

	for i, rec := range records {
		reject := func(reason string) {
			rejected = append(rejected, Rejected{Index: i, Record: rec, Reason: reason})
		}

		if strings.TrimSpace(rec.Weekday) == "" || strings.TrimSpace(rec.Start) == "" || strings.TrimSpace(rec.End) == "" {
			reject("missing field")
			continue
		}

		day, ok := ParseWeekday(rec.Weekday)
		if !ok {
			reject("unknown weekday")
			continue
		}

		start, err := types.NewTimeStringFromString(strings.TrimSpace(rec.Start))
		if err != nil {
			reject("invalid start")
			continue
		}
		end, err := types.NewTimeStringFromString(strings.TrimSpace(rec.End))
		if err != nil {
			reject("invalid end")
			continue
		}
		if !start.IsBefore(end) {
			reject("start is not before end")
			continue
		}

		weekly[day] = append(weekly[day], domain.TimeBlock{Start: start, End: end})
	}

	return weekly, rejected
}

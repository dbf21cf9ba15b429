package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/pkg/types"
)

// GenerateWeek строит 7 дней слотов начиная с date(now) + 7*weekOffset.
// Окно не выравнивается по понедельнику: первый день - это сегодняшняя дата со сдвигом.
//
// Правила для каждой даты:
//   - дата раньше сегодняшней помечается Past и не содержит слотов;
//   - для сегодняшней даты исключаются блоки с началом <= текущего времени (HH:MM);
//   - исключаются блоки, чьё (дата, начало) есть в reserved;
//   - пересекающиеся блоки дня предварительно сливаются, один блок - один слот.
//
// Чистая функция: now передаётся явно в часовом поясе расписания.
func GenerateWeek(
	avail domain.WeeklyAvailability,
	now time.Time,
	weekOffset int,
	reserved []domain.ReservedSlot,
) []domain.DaySlots {
	today := types.DateOf(now)
	nowTime := types.NewTimeString(now)
	first := today.AddDays(domain.DaysPerWeek * weekOffset)
	taken := domain.IndexReserved(reserved)

	days := make([]domain.DaySlots, 0, domain.DaysPerWeek)
	for i := 0; i < domain.DaysPerWeek; i++ {
		date := first.AddDays(i)
		weekday := domain.WeekdayOf(date.Weekday())

		day := domain.DaySlots{
			Date:    date,
			Weekday: weekday,
			Slots:   []domain.BookableSlot{},
		}

		// Прошедшая дата - без слотов
		if date.Before(today) {
			day.Past = true
			days = append(days, day)
			continue
		}

		isToday := date == today
		for _, block := range domain.MergeBlocks(avail.BlocksFor(weekday)) {
			// Сегодня: граница включительно, слот на текущую минуту уже недоступен
			if isToday && !block.Start.IsAfter(nowTime) {
				continue
			}
			if taken.Contains(date, block.Start) {
				continue
			}
			day.Slots = append(day.Slots, domain.BookableSlot{
				Date:  date,
				Start: block.Start,
				End:   block.End,
			})
		}

		days = append(days, day)
	}

	return days
}

// reservedInWindow оставляет резервирования, попадающие в [from, to]
func reservedInWindow(reserved []domain.ReservedSlot, from, to types.Date) []domain.ReservedSlot {
	result := make([]domain.ReservedSlot, 0)
	for _, r := range reserved {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		result = append(result, r)
	}
	return result
}

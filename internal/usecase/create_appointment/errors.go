package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TurnosService/internal/domain"
	"github.com/m04kA/SMC-TurnosService/internal/usecase/get_available_slots"
)

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)

// SlotConflictError слот занят. Week - актуальная неделя слотов, nil если её не удалось построить
type SlotConflictError struct {
	Source string // local или store
	Week   *get_available_slots.Response
	Err    error
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("create_appointment: %s conflict: %v", e.Source, e.Err)
}

func (e *SlotConflictError) Unwrap() error {
	return e.Err
}

func newSlotConflict(source string, cause error) *SlotConflictError {
	if !errors.Is(cause, domain.ErrSlotUnavailable) {
		cause = fmt.Errorf("%w: %w", domain.ErrSlotUnavailable, cause)
	}
	return &SlotConflictError{Source: source, Err: cause}
}

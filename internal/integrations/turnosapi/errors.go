package turnosapi

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("turnosapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от бэкенда
	ErrInvalidResponse = errors.New("turnosapi client: invalid response")
)

// codeInvalidTransition код ошибки бэкенда для 409, не связанного с занятостью слота
const codeInvalidTransition = "invalid_transition"

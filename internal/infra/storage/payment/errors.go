package payment

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда оплата турна не найдена
	ErrPaymentNotFound = errors.New("payment.repository: payment not found")

	// ErrNotPending возвращается, когда оплата уже не в статусе pendiente
	ErrNotPending = errors.New("payment.repository: payment is not pending")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)

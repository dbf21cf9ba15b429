package turnosapi

// Metrics метрики обращений к бэкенду
type Metrics interface {
	ObserveBackend(operation, result string, seconds float64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

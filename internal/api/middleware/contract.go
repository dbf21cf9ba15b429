package middleware

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HTTPMetrics метрики HTTP запросов (*metrics.Metrics)
type HTTPMetrics interface {
	ObserveHTTP(method, route, status string, seconds float64)
}

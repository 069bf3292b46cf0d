package errors

import (
	"sync"
	"time"
)

// ErrorMetricsCollector собирает метрики ошибок API для мониторинга
type ErrorMetricsCollector struct {
	mu sync.RWMutex

	totalErrors      int64
	errorsByType     map[string]int64 // По типу ошибки (ValidationError, InternalError и т.д.)
	errorsByCode     map[int]int64    // По HTTP статус коду
	errorsByEndpoint map[string]int64 // По эндпоинту

	lastErrors    []ErrorRecord // Последние N ошибок
	maxLastErrors int

	startTime time.Time
}

// ErrorRecord запись об ошибке
type ErrorRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	Code        int       `json:"code"`
	Message     string    `json:"message"`
	Endpoint    string    `json:"endpoint"`
	RequestID   string    `json:"request_id"`
	UserMessage string    `json:"user_message"`
}

// NewErrorMetricsCollector создает новый сборщик метрик ошибок
func NewErrorMetricsCollector() *ErrorMetricsCollector {
	return &ErrorMetricsCollector{
		errorsByType:     make(map[string]int64),
		errorsByCode:     make(map[int]int64),
		errorsByEndpoint: make(map[string]int64),
		lastErrors:       make([]ErrorRecord, 0),
		maxLastErrors:    100,
		startTime:        time.Now(),
	}
}

// RecordError записывает ошибку в метрики
func (emc *ErrorMetricsCollector) RecordError(err *AppError, endpoint, requestID string) {
	emc.mu.Lock()
	defer emc.mu.Unlock()

	emc.totalErrors++

	errorType := errorTypeForCode(err.Code)
	emc.errorsByType[errorType]++
	emc.errorsByCode[err.Code]++

	if endpoint != "" {
		emc.errorsByEndpoint[endpoint]++
	}

	record := ErrorRecord{
		Timestamp:   time.Now(),
		Type:        errorType,
		Code:        err.Code,
		Message:     err.Error(),
		Endpoint:    endpoint,
		RequestID:   requestID,
		UserMessage: err.UserMessage(),
	}
	emc.lastErrors = append([]ErrorRecord{record}, emc.lastErrors...)
	if len(emc.lastErrors) > emc.maxLastErrors {
		emc.lastErrors = emc.lastErrors[:emc.maxLastErrors]
	}
}

// GetStats возвращает сводку метрик ошибок
func (emc *ErrorMetricsCollector) GetStats() map[string]interface{} {
	emc.mu.RLock()
	defer emc.mu.RUnlock()

	byType := make(map[string]int64, len(emc.errorsByType))
	for k, v := range emc.errorsByType {
		byType[k] = v
	}
	byCode := make(map[int]int64, len(emc.errorsByCode))
	for k, v := range emc.errorsByCode {
		byCode[k] = v
	}
	byEndpoint := make(map[string]int64, len(emc.errorsByEndpoint))
	for k, v := range emc.errorsByEndpoint {
		byEndpoint[k] = v
	}
	lastErrors := make([]ErrorRecord, len(emc.lastErrors))
	copy(lastErrors, emc.lastErrors)

	return map[string]interface{}{
		"total_errors":       emc.totalErrors,
		"errors_by_type":     byType,
		"errors_by_code":     byCode,
		"errors_by_endpoint": byEndpoint,
		"last_errors":        lastErrors,
		"uptime_seconds":     time.Since(emc.startTime).Seconds(),
	}
}

// errorTypeForCode определяет тип ошибки по коду
func errorTypeForCode(code int) string {
	switch code {
	case 400:
		return "ValidationError"
	case 404:
		return "NotFoundError"
	case 409:
		return "ConflictError"
	case 500:
		return "InternalError"
	case 502:
		return "BadGatewayError"
	case 503:
		return "ServiceUnavailableError"
	default:
		return "UnknownError"
	}
}

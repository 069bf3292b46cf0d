package models

import (
	"quoteserver/comparison"
	"quoteserver/database"
)

// CreateQuotationRequest запрос на сохранение коммерческого предложения
type CreateQuotationRequest struct {
	SourceFile string               `json:"source_file,omitempty"`
	Quotation  comparison.Quotation `json:"quotation"`
}

// QuotationListResponse список сохраненных коммерческих предложений
type QuotationListResponse struct {
	Total      int                         `json:"total"`
	Quotations []*database.StoredQuotation `json:"quotations"`
}

// ExtractionResponse результат извлечения данных из документа
type ExtractionResponse struct {
	SourceFile string                    `json:"source_file"`
	Quotation  comparison.Quotation      `json:"quotation"`
	Stored     *database.StoredQuotation `json:"stored,omitempty"`
}

// CompareRequest запрос на сравнение сохраненных предложений.
// Пустой список означает сравнение всех сохраненных предложений
type CompareRequest struct {
	QuotationIDs []string `json:"quotation_ids"`
}

// ExtractTextRequest запрос на извлечение данных из сырого текста
type ExtractTextRequest struct {
	Text       string `json:"text" binding:"required"`
	SourceName string `json:"source_name,omitempty"`
}

// ComparisonListResponse список выполненных сравнений
type ComparisonListResponse struct {
	Total       int                       `json:"total"`
	Comparisons []*database.ComparisonRun `json:"comparisons"`
}

// HealthResponse статус сервиса
type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// ErrorResponse структура ошибки
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

package comparison

import (
	"context"
	"time"
)

// Поддерживаемые валюты котировок (ISO коды)
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyJPY = "JPY"
)

// SupportedCurrencies список валют, которые извлекаются из котировок
var SupportedCurrencies = []string{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY}

// Quotation извлеченная котировка одного поставщика.
// Опциональные поля моделируются указателями, а не сентинелами:
// nil означает "не извлечено из документа".
type Quotation struct {
	SupplierName     string             `json:"supplier_name"`
	AnnualPrices     map[int]float64    `json:"annual_prices"`     // год -> цена за единицу
	AnnualQuantities map[int]int        `json:"annual_quantities"` // год -> количество
	ToolingCost      *float64           `json:"tooling_cost,omitempty"`
	ToolingCostType  string             `json:"tooling_cost_type,omitempty"` // "one-time" | "renewal" | "recurring" | ""
	DeliveryTerms    string             `json:"delivery_terms,omitempty"`
	PaymentTerms     string             `json:"payment_terms,omitempty"`
	LeadTime         string             `json:"lead_time,omitempty"`
	Currency         string             `json:"currency"`
	QuotationDate    *time.Time         `json:"quotation_date,omitempty"`
	MOQ              *int               `json:"moq,omitempty"`
}

// YearBreakdown разбивка стоимости по одному году
type YearBreakdown struct {
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

// CriteriaScores оценки по пяти критериям плюс штраф за неполные данные
type CriteriaScores struct {
	TCOScore           float64 `json:"tco_score"`
	DeliveryScore      float64 `json:"delivery_score"`
	PaymentScore       float64 `json:"payment_score"`
	ToolingScore       float64 `json:"tooling_score"`
	MOQScore           float64 `json:"moq_score"`
	MissingDataPenalty float64 `json:"missing_data_penalty"`
}

// ComparisonItem строка сравнительной таблицы по одному поставщику.
// Стоимостные поля вычисляются один раз при построении и дальше не меняются;
// оценки и ранги присоединяются скорером/ранкером через новые значения,
// а не мутацией общих структур.
//
// JSON-имена полей сохраняют формат обмена (total_cost_eur и т.д.) —
// это де-факто схема сериализации результата сравнения.
type ComparisonItem struct {
	Supplier         string `json:"supplier"`
	OriginalCurrency string `json:"original_currency"`

	TotalCostEUR        float64 `json:"total_cost_eur"`
	TotalCostOriginal   float64 `json:"total_cost_original"`
	ToolingCostEUR      float64 `json:"tooling_cost_eur"`
	ToolingCostOriginal float64 `json:"tooling_cost_original"`
	ToolingCostType     string  `json:"tooling_cost_type,omitempty"`
	UnitCostAvgEUR      float64 `json:"unit_cost_avg_eur"`
	UnitCostAvgOriginal float64 `json:"unit_cost_avg_original"`

	DeliveryTerms string   `json:"delivery_terms"`
	Incoterms     string   `json:"incoterms"`
	LeadTime      string   `json:"lead_time"`
	LeadTimeWeeks *float64 `json:"lead_time_weeks"`
	PaymentTerms  string   `json:"payment_terms"`
	PaymentDays   *int     `json:"payment_days"`
	MOQ           *int     `json:"moq"`
	QuotationDate string   `json:"quotation_date"`

	PriceBreakdownEUR      map[int]YearBreakdown `json:"price_breakdown_eur"`
	PriceBreakdownOriginal map[int]YearBreakdown `json:"price_breakdown_original"`
	YearsCovered           []int                 `json:"years_covered"`

	Scores       *CriteriaScores `json:"scores,omitempty"`
	TotalScore   float64         `json:"total_score"`
	CostRanking  int             `json:"cost_ranking,omitempty"`
	FinalRanking int             `json:"final_ranking,omitempty"`
	Ranking      int             `json:"ranking,omitempty"`
}

// Recommendation рекомендация по итогам сравнения
type Recommendation struct {
	RecommendedSupplier string   `json:"recommended_supplier"`
	TotalScore          float64  `json:"total_score"`
	Reasoning           string   `json:"reasoning"`
	KeyAdvantages       []string `json:"key_advantages"`
	Considerations      []string `json:"considerations"`
	MissingDataImpact   string   `json:"missing_data_impact,omitempty"`
}

// Summary сводка по когорте поставщиков
type Summary struct {
	TotalSuppliers int     `json:"total_suppliers"`
	LowestCost     float64 `json:"lowest_cost"`
	HighestCost    float64 `json:"highest_cost"`
	CostRange      float64 `json:"cost_range"`
	BestSupplier   string  `json:"best_supplier"`
	BestScore      float64 `json:"best_score"`
}

// Result итоговый результат одного запуска сравнения.
// Пустая когорта дает пустой Result (все поля нулевые) — это валидное
// терминальное состояние, а не ошибка.
type Result struct {
	ComparisonTable []ComparisonItem `json:"comparison_table,omitempty"`
	Summary         *Summary         `json:"summary,omitempty"`
	Recommendation  *Recommendation  `json:"recommendation,omitempty"`
	GeneratedAt     string           `json:"generated_at,omitempty"`
}

// RecommendationGenerator внешний коллаборатор, формирующий текстовую
// рекомендацию по уже посчитанной и отранжированной когорте.
// Ядро зависит только от этого интерфейса, что позволяет тестировать
// сравнение с детерминированной заглушкой без сетевых вызовов.
type RecommendationGenerator interface {
	Generate(ctx context.Context, items []ComparisonItem) (*Recommendation, error)
}

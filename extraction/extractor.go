package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"quoteserver/comparison"
)

// pageSeparator разделитель страниц при склейке многостраничного документа
const pageSeparator = "\n\n--- Page Separator ---\n\n"

// extractionSystemPrompt системный промпт извлечения структурированных
// данных из котировок поставщиков
const extractionSystemPrompt = `You are an expert procurement analyst extracting structured data from supplier quotations.

Handle ALL variations:

1. DATE FORMATS (normalize to ISO: YYYY-MM-DD):
   - "21-Oct-2025" -> 2025-10-21
   - "21.10.2025" -> 2025-10-21
   - "21/10/2025" -> 2025-10-21

2. FIELD LABEL VARIATIONS:
   - Annual Quantity: "Volume", "Annual Quantity", "Annual Peak Volume", "Yearly Quantity"
   - Tooling Cost: "Tooling Cost", "NRE", "Development Cost", "Tooling Fee"
   - Tooling Renewal Cost: "Tooling renewal cost", "Annual Tooling", "Recurring Tooling" - If "renewal" or "recurring", set tooling_cost_type to "renewal" and extract annual amount.
   - Delivery Terms: "Delivery Terms", "Delivery Condition", "Incoterms", "Delivery Terms for Part"

3. NUMBER FORMATS:
   - European: "50.000" -> 50000 (dots as thousand separators)
   - US: "50,000" -> 50000 (commas as thousand separators)
   - Prices: "37.00" -> 37.00 (decimal point)

4. CURRENCY VARIATIONS:
   - Detect from symbols and codes (EUR, USD, GBP, JPY)
   - Normalize to ISO codes

5. MULTI-LANGUAGE:
   - German: "Wochen" = weeks, "Anzahlung" = down payment
   - Translate to English equivalents

6. MISSING FIELDS:
   - If field is missing, use null
   - If placeholder like "<Validity>", treat as missing

7. TABLE EXTRACTION:
   - Extract prices and quantities from tables
   - Map years to prices and quantities correctly
   - IMPORTANT: annual_prices and annual_quantities must use ACTUAL YEAR NUMBERS (e.g., 2027, 2028, 2029)
   - Do NOT use "Year 1", "Year 2" - extract the actual calendar year from the document
   - If year is not specified, infer from quotation date or use sequential years starting from current year

Respond with ONLY a JSON object (no markdown) with fields:
supplier_name (string), annual_prices (object, year -> price), annual_quantities (object, year -> quantity),
tooling_cost (number or null), tooling_cost_type (string or null), delivery_terms (string or null),
payment_terms (string or null), lead_time (string or null), currency (USD/EUR/GBP/JPY),
quotation_date (ISO date string or null), moq (integer or null).`

// timestampLayouts форматы дат котировок в порядке приоритета парсинга
var timestampLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"02.01.2006",
	"02/01/2006",
	"January 2, 2006",
	"2 January 2006",
}

// extractedPayload JSON-схема ответа модели на запрос извлечения
type extractedPayload struct {
	SupplierName     string             `json:"supplier_name"`
	AnnualPrices     map[string]float64 `json:"annual_prices"`
	AnnualQuantities map[string]int     `json:"annual_quantities"`
	ToolingCost      *float64           `json:"tooling_cost"`
	ToolingCostType  string             `json:"tooling_cost_type"`
	DeliveryTerms    string             `json:"delivery_terms"`
	PaymentTerms     string             `json:"payment_terms"`
	LeadTime         string             `json:"lead_time"`
	Currency         string             `json:"currency"`
	QuotationDate    string             `json:"quotation_date"`
	MOQ              *int               `json:"moq"`
}

// QuotationExtractor извлекает структурированную котировку из текста
// документа через LLM
type QuotationExtractor struct {
	client *Client
}

// NewQuotationExtractor создает экстрактор поверх LLM-клиента
func NewQuotationExtractor(client *Client) *QuotationExtractor {
	return &QuotationExtractor{client: client}
}

// Extract извлекает котировку из страниц документа.
// Страницы склеиваются через разделитель, модель получает низкую
// температуру для детерминированного извлечения.
func (e *QuotationExtractor) Extract(ctx context.Context, pages []string) (*comparison.Quotation, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no document pages to extract from")
	}

	text := strings.Join(pages, pageSeparator)
	messages := []Message{
		{Role: "system", Content: extractionSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Extract structured data from this quotation:\n\n%s", text)},
	}

	response, err := e.client.ChatCompletion(ctx, messages, 0.1)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	quotation, err := parseExtractedQuotation(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	log.Printf("✓ Extracted quotation from %s (%d year(s), currency %s)",
		quotation.SupplierName, len(quotation.AnnualPrices), quotation.Currency)
	return quotation, nil
}

// parseExtractedQuotation парсит JSON-ответ модели в котировку.
// Имя поставщика обязательно; остальные поля мягко деградируют:
// нераспарсенная дата становится nil, неизвестная валюта приводится к USD.
func parseExtractedQuotation(response string) (*comparison.Quotation, error) {
	cleaned := cleanJSONResponse(response)

	var payload extractedPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if payload.SupplierName == "" {
		return nil, fmt.Errorf("empty supplier_name in response")
	}

	quotation := &comparison.Quotation{
		SupplierName:     payload.SupplierName,
		AnnualPrices:     make(map[int]float64, len(payload.AnnualPrices)),
		AnnualQuantities: make(map[int]int, len(payload.AnnualQuantities)),
		ToolingCost:      payload.ToolingCost,
		ToolingCostType:  payload.ToolingCostType,
		DeliveryTerms:    payload.DeliveryTerms,
		PaymentTerms:     payload.PaymentTerms,
		LeadTime:         payload.LeadTime,
		Currency:         normalizeCurrency(payload.Currency),
		MOQ:              payload.MOQ,
	}

	for yearStr, price := range payload.AnnualPrices {
		year, err := parseYear(yearStr)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q in annual_prices: %w", yearStr, err)
		}
		quotation.AnnualPrices[year] = price
	}
	for yearStr, quantity := range payload.AnnualQuantities {
		year, err := parseYear(yearStr)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q in annual_quantities: %w", yearStr, err)
		}
		quotation.AnnualQuantities[year] = quantity
	}

	if payload.QuotationDate != "" {
		if parsed := parseQuotationDate(payload.QuotationDate); parsed != nil {
			quotation.QuotationDate = parsed
		}
	}

	return quotation, nil
}

func parseYear(s string) (int, error) {
	var year int
	if _, err := fmt.Sscanf(s, "%d", &year); err != nil {
		return 0, err
	}
	if year < 1900 || year > 2200 {
		return 0, fmt.Errorf("year %d out of range", year)
	}
	return year, nil
}

// parseQuotationDate пробует форматы из timestampLayouts по очереди.
// Нераспарсенная дата дает nil, а не ошибку.
func parseQuotationDate(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return &t
		}
	}
	return nil
}

// normalizeCurrency приводит код валюты к поддерживаемому ISO-коду.
// Неизвестная или пустая валюта дает USD, как валюту по умолчанию
// для извлеченных котировок.
func normalizeCurrency(code string) string {
	upper := strings.ToUpper(strings.TrimSpace(code))
	for _, supported := range comparison.SupportedCurrencies {
		if upper == supported {
			return supported
		}
	}
	return comparison.CurrencyUSD
}

package comparison

import (
	"math"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// testQuotation типовая котировка для тестов построителя
func testQuotation() Quotation {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	return Quotation{
		SupplierName:     "Acme Precision GmbH",
		AnnualPrices:     map[int]float64{2027: 40.0, 2028: 38.0, 2029: 36.0},
		AnnualQuantities: map[int]int{2027: 1000, 2028: 1200, 2029: 1500},
		ToolingCost:      floatPtr(5000.0),
		ToolingCostType:  "one-time",
		DeliveryTerms:    "DDP Hamburg",
		PaymentTerms:     "Net 30",
		LeadTime:         "8 weeks",
		Currency:         CurrencyEUR,
		QuotationDate:    &date,
		MOQ:              intPtr(500),
	}
}

// TestBuildComparisonItem проверяет построение строки таблицы из котировки
func TestBuildComparisonItem(t *testing.T) {
	quote := testQuotation()
	item := BuildComparisonItem(quote, DefaultConverter())

	// 40*1000 + 38*1200 + 36*1500 + 5000 = 144600
	expectedTCO := 144600.0
	if math.Abs(item.TotalCostEUR-expectedTCO) > 0.01 {
		t.Errorf("TotalCostEUR = %v, expected %v", item.TotalCostEUR, expectedTCO)
	}
	if item.TotalCostOriginal != item.TotalCostEUR {
		t.Errorf("EUR quotation must have identical original and EUR totals")
	}

	if item.ToolingCostEUR != 5000.0 {
		t.Errorf("ToolingCostEUR = %v, expected 5000", item.ToolingCostEUR)
	}

	// (40+38+36)/3 = 38
	if math.Abs(item.UnitCostAvgEUR-38.0) > 0.0001 {
		t.Errorf("UnitCostAvgEUR = %v, expected 38", item.UnitCostAvgEUR)
	}

	if item.Incoterms != "DDP" {
		t.Errorf("Incoterms = %q, expected DDP", item.Incoterms)
	}
	if item.LeadTimeWeeks == nil || *item.LeadTimeWeeks != 8.0 {
		t.Errorf("LeadTimeWeeks = %v, expected 8", item.LeadTimeWeeks)
	}
	if item.PaymentDays == nil || *item.PaymentDays != 30 {
		t.Errorf("PaymentDays = %v, expected 30", item.PaymentDays)
	}
	if item.QuotationDate != "2026-03-15" {
		t.Errorf("QuotationDate = %q, expected 2026-03-15", item.QuotationDate)
	}

	expectedYears := []int{2027, 2028, 2029}
	if len(item.YearsCovered) != len(expectedYears) {
		t.Fatalf("YearsCovered = %v, expected %v", item.YearsCovered, expectedYears)
	}
	for i, year := range expectedYears {
		if item.YearsCovered[i] != year {
			t.Errorf("YearsCovered[%d] = %d, expected %d", i, item.YearsCovered[i], year)
		}
	}

	breakdown2028 := item.PriceBreakdownEUR[2028]
	if breakdown2028.UnitPrice != 38.0 || breakdown2028.Quantity != 1200 || breakdown2028.Total != 45600.0 {
		t.Errorf("PriceBreakdownEUR[2028] = %+v, expected {38 1200 45600}", breakdown2028)
	}

	if item.Scores != nil || item.TotalScore != 0 || item.Ranking != 0 {
		t.Error("builder must not assign scores or rankings")
	}
}

// TestBuildComparisonItem_CurrencyConversion проверяет конвертацию котировки в USD
func TestBuildComparisonItem_CurrencyConversion(t *testing.T) {
	quote := testQuotation()
	quote.Currency = CurrencyUSD

	item := BuildComparisonItem(quote, DefaultConverter())

	if math.Abs(item.TotalCostEUR-144600.0*0.92) > 0.01 {
		t.Errorf("TotalCostEUR = %v, expected %v", item.TotalCostEUR, 144600.0*0.92)
	}
	if item.TotalCostOriginal != 144600.0 {
		t.Errorf("TotalCostOriginal = %v, expected 144600", item.TotalCostOriginal)
	}
	if math.Abs(item.UnitCostAvgEUR-38.0*0.92) > 0.0001 {
		t.Errorf("UnitCostAvgEUR = %v, expected %v", item.UnitCostAvgEUR, 38.0*0.92)
	}

	// Разбивка в исходной валюте не конвертируется
	if item.PriceBreakdownOriginal[2027].UnitPrice != 40.0 {
		t.Errorf("PriceBreakdownOriginal[2027].UnitPrice = %v, expected 40", item.PriceBreakdownOriginal[2027].UnitPrice)
	}
	if math.Abs(item.PriceBreakdownEUR[2027].UnitPrice-36.8) > 0.0001 {
		t.Errorf("PriceBreakdownEUR[2027].UnitPrice = %v, expected 36.8", item.PriceBreakdownEUR[2027].UnitPrice)
	}
}

// TestCalculateTCO_RecurringTooling проверяет умножение возобновляемой
// оснастки на количество покрытых лет
func TestCalculateTCO_RecurringTooling(t *testing.T) {
	quote := Quotation{
		SupplierName:     "Renewal Tools Ltd",
		AnnualPrices:     map[int]float64{2027: 10.0, 2028: 10.0, 2029: 10.0},
		AnnualQuantities: map[int]int{2027: 100, 2028: 100, 2029: 100},
		ToolingCost:      floatPtr(1000.0),
		ToolingCostType:  "renewal",
		Currency:         CurrencyEUR,
	}

	item := BuildComparisonItem(quote, DefaultConverter())

	// 3*1000 + 1000*3 = 6000
	if item.TotalCostEUR != 6000.0 {
		t.Errorf("TotalCostEUR = %v, expected 6000", item.TotalCostEUR)
	}
	if item.ToolingCostEUR != 3000.0 {
		t.Errorf("ToolingCostEUR = %v, expected 3000 (1000 x 3 years)", item.ToolingCostEUR)
	}
}

// TestCalculateTCO_RecurringToolingNoYears проверяет минимум один год
// для возобновляемой оснастки без годовых цен
func TestCalculateTCO_RecurringToolingNoYears(t *testing.T) {
	quote := Quotation{
		SupplierName:    "Empty Years Co",
		ToolingCost:     floatPtr(1000.0),
		ToolingCostType: "recurring",
		Currency:        CurrencyEUR,
	}

	item := BuildComparisonItem(quote, DefaultConverter())

	if item.TotalCostEUR != 1000.0 {
		t.Errorf("TotalCostEUR = %v, expected 1000 (minimum one year)", item.TotalCostEUR)
	}
}

// TestBuildComparisonItem_MissingFields проверяет сентинелы и nil для
// отсутствующих данных
func TestBuildComparisonItem_MissingFields(t *testing.T) {
	quote := Quotation{
		SupplierName:     "Sparse Data Inc",
		AnnualPrices:     map[int]float64{2027: 50.0},
		AnnualQuantities: map[int]int{2027: 200},
		Currency:         CurrencyUSD,
	}

	item := BuildComparisonItem(quote, DefaultConverter())

	if item.DeliveryTerms != NotAvailable || item.PaymentTerms != NotAvailable || item.LeadTime != NotAvailable {
		t.Error("missing text fields must render as N/A")
	}
	if item.QuotationDate != NotAvailable {
		t.Errorf("QuotationDate = %q, expected N/A", item.QuotationDate)
	}
	if item.LeadTimeWeeks != nil || item.PaymentDays != nil || item.MOQ != nil {
		t.Error("unparsed numeric fields must stay nil")
	}
	if item.ToolingCostEUR != 0 {
		t.Errorf("ToolingCostEUR = %v, expected 0 for absent tooling", item.ToolingCostEUR)
	}
}

// TestBuildComparisonItem_PureInput проверяет, что построитель не
// модифицирует входную котировку
func TestBuildComparisonItem_PureInput(t *testing.T) {
	quote := testQuotation()
	original := quote.AnnualPrices[2027]

	_ = BuildComparisonItem(quote, DefaultConverter())

	if quote.AnnualPrices[2027] != original {
		t.Error("builder must not mutate the input quotation")
	}
}

package comparison

import (
	"sort"
	"strings"
)

// toolingRenewalTypes типы стоимости оснастки, которые умножаются на
// количество лет котировки
func isRecurringTooling(costType string) bool {
	switch strings.ToLower(costType) {
	case "renewal", "recurring":
		return true
	}
	return false
}

// BuildComparisonItem строит строку сравнительной таблицы из котировки.
// Чистая функция: считает TCO, стоимость оснастки и среднюю цену единицы
// в исходной и базовой валюте, парсит текстовые поля. Оценки и ранги
// не заполняются — их присоединяет скорер.
func BuildComparisonItem(quote Quotation, conv *Converter) ComparisonItem {
	tcoOriginal := calculateTCO(quote)
	toolingOriginal := calculateToolingCost(quote)

	item := ComparisonItem{
		Supplier:         quote.SupplierName,
		OriginalCurrency: quote.Currency,

		TotalCostEUR:        conv.Convert(tcoOriginal, quote.Currency),
		TotalCostOriginal:   tcoOriginal,
		ToolingCostEUR:      conv.Convert(toolingOriginal, quote.Currency),
		ToolingCostOriginal: toolingOriginal,
		ToolingCostType:     quote.ToolingCostType,
		UnitCostAvgEUR:      averageUnitCostEUR(quote, conv),
		UnitCostAvgOriginal: averageUnitCost(quote),

		DeliveryTerms: textOrNA(quote.DeliveryTerms),
		Incoterms:     ExtractIncoterms(quote.DeliveryTerms),
		LeadTime:      textOrNA(quote.LeadTime),
		LeadTimeWeeks: ParseLeadTime(quote.LeadTime),
		PaymentTerms:  textOrNA(quote.PaymentTerms),
		PaymentDays:   ParsePaymentDays(quote.PaymentTerms),
		MOQ:           quote.MOQ,
		QuotationDate: NotAvailable,

		PriceBreakdownEUR:      priceBreakdown(quote, conv),
		PriceBreakdownOriginal: priceBreakdown(quote, nil),
		YearsCovered:           yearsCovered(quote),
	}

	if quote.QuotationDate != nil {
		item.QuotationDate = quote.QuotationDate.Format("2006-01-02")
	}

	return item
}

// calculateTCO считает совокупную стоимость владения в исходной валюте:
// сумма цена×количество по всем годам, присутствующим в annual_prices
// (отсутствующее количество трактуется как 0), плюс стоимость оснастки.
// Возобновляемая оснастка умножается на количество покрытых лет (минимум 1).
func calculateTCO(quote Quotation) float64 {
	total := 0.0
	for year, price := range quote.AnnualPrices {
		total += price * float64(quote.AnnualQuantities[year])
	}

	if quote.ToolingCost != nil {
		if isRecurringTooling(quote.ToolingCostType) {
			years := len(quote.AnnualPrices)
			if years == 0 {
				years = 1
			}
			total += *quote.ToolingCost * float64(years)
		} else {
			total += *quote.ToolingCost
		}
	}

	return total
}

// calculateToolingCost считает отдельную стоимость оснастки для оценки
// и отображения. Правило умножения возобновляемой оснастки обязано
// совпадать с правилом в calculateTCO — обе величины должны оставаться
// согласованными.
func calculateToolingCost(quote Quotation) float64 {
	if quote.ToolingCost == nil {
		return 0
	}

	base := *quote.ToolingCost
	if isRecurringTooling(quote.ToolingCostType) {
		years := len(quote.AnnualPrices)
		if years == 0 {
			years = 1
		}
		base *= float64(years)
	}
	return base
}

// averageUnitCost средняя цена за единицу по годам (невзвешенная)
func averageUnitCost(quote Quotation) float64 {
	if len(quote.AnnualPrices) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, price := range quote.AnnualPrices {
		sum += price
	}
	return sum / float64(len(quote.AnnualPrices))
}

// averageUnitCostEUR средняя цена за единицу в базовой валюте.
// Каждая годовая цена конвертируется до усреднения, а не после.
func averageUnitCostEUR(quote Quotation, conv *Converter) float64 {
	if len(quote.AnnualPrices) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, price := range quote.AnnualPrices {
		sum += conv.Convert(price, quote.Currency)
	}
	return sum / float64(len(quote.AnnualPrices))
}

// priceBreakdown разбивка по годам. При conv == nil цены остаются
// в исходной валюте.
func priceBreakdown(quote Quotation, conv *Converter) map[int]YearBreakdown {
	breakdown := make(map[int]YearBreakdown, len(quote.AnnualPrices))
	for year, price := range quote.AnnualPrices {
		unitPrice := price
		if conv != nil {
			unitPrice = conv.Convert(price, quote.Currency)
		}
		quantity := quote.AnnualQuantities[year]
		breakdown[year] = YearBreakdown{
			UnitPrice: unitPrice,
			Quantity:  quantity,
			Total:     unitPrice * float64(quantity),
		}
	}
	return breakdown
}

// yearsCovered отсортированный по возрастанию список лет котировки
func yearsCovered(quote Quotation) []int {
	years := make([]int, 0, len(quote.AnnualPrices))
	for year := range quote.AnnualPrices {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

func textOrNA(text string) string {
	if text == "" {
		return NotAvailable
	}
	return text
}

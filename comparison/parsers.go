package comparison

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// NotAvailable сентинел для отсутствующих текстовых полей в таблице сравнения
const NotAvailable = "N/A"

// Incoterms одиннадцать стандартных трехбуквенных условий поставки
// в фиксированном порядке приоритета поиска
var Incoterms = []string{"EXW", "FCA", "FAS", "FOB", "CFR", "CIF", "CPT", "CIP", "DAP", "DPU", "DDP"}

var (
	numberPattern      = regexp.MustCompile(`\d+\.?\d*`)
	paymentDaysPattern = regexp.MustCompile(`(\d+)\s*(?:days?|tag)`)
	paymentNetPattern  = regexp.MustCompile(`net\s*(\d+)`)
)

// ParseLeadTime извлекает срок поставки в неделях из свободного текста.
// Первый числовой токен интерпретируется по ключевым словам единиц
// (включая немецкие синонимы): дни делятся на 7, месяцы умножаются на 4.33,
// годы на 52; без распознанной единицы число считается неделями.
// Возвращает nil, если текст пуст, равен "N/A" или не содержит числа —
// парсинг никогда не завершается ошибкой.
func ParseLeadTime(leadTime string) *float64 {
	if leadTime == "" || leadTime == NotAvailable {
		return nil
	}

	lower := strings.ToLower(leadTime)
	match := numberPattern.FindString(lower)
	if match == "" {
		return nil
	}

	weeks, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}

	switch {
	case strings.Contains(lower, "day") || strings.Contains(lower, "tag"):
		weeks /= 7
	case strings.Contains(lower, "month") || strings.Contains(lower, "monat"):
		weeks *= 4.33
	case strings.Contains(lower, "year") || strings.Contains(lower, "jahr"):
		weeks *= 52
	}

	rounded := round2(weeks)
	return &rounded
}

// ParsePaymentDays извлекает количество дней отсрочки платежа.
// Сначала ищется шаблон "<число> day(s)/tag", затем "net <число>"
// (без учета регистра). Возвращает nil, если ни один шаблон не совпал.
func ParsePaymentDays(paymentTerms string) *int {
	if paymentTerms == "" || paymentTerms == NotAvailable {
		return nil
	}

	lower := strings.ToLower(paymentTerms)
	match := paymentDaysPattern.FindStringSubmatch(lower)
	if match == nil {
		match = paymentNetPattern.FindStringSubmatch(lower)
	}
	if match == nil {
		return nil
	}

	days, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	return &days
}

// ExtractIncoterms находит первое условие поставки из списка Incoterms
// в тексте (поиск по верхнему регистру). Возвращает "N/A", если ни один
// код не найден.
func ExtractIncoterms(deliveryTerms string) string {
	if deliveryTerms == "" || deliveryTerms == NotAvailable {
		return NotAvailable
	}

	upper := strings.ToUpper(deliveryTerms)
	for _, term := range Incoterms {
		if strings.Contains(upper, term) {
			return term
		}
	}
	return NotAvailable
}

// round2 округляет до двух знаков после запятой
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package comparison

// ReferenceCurrency базовая валюта, к которой приводятся все суммы
const ReferenceCurrency = CurrencyEUR

// DefaultExchangeRates фиксированная таблица курсов к базовой валюте (EUR).
// Курсы статические: живое получение курсов сознательно вне области системы.
var DefaultExchangeRates = map[string]float64{
	CurrencyUSD: 0.92,
	CurrencyEUR: 1.0,
	CurrencyGBP: 1.17,
	CurrencyJPY: 0.0062,
}

// Converter конвертер валют по фиксированной таблице курсов.
// Таблица только читается, конвертер безопасен для конкурентного использования.
type Converter struct {
	reference string
	rates     map[string]float64
}

// NewConverter создает конвертер с заданной базовой валютой и таблицей курсов
func NewConverter(reference string, rates map[string]float64) *Converter {
	return &Converter{reference: reference, rates: rates}
}

// DefaultConverter конвертер с базовой валютой EUR и таблицей по умолчанию
func DefaultConverter() *Converter {
	return NewConverter(ReferenceCurrency, DefaultExchangeRates)
}

// Convert переводит сумму из указанной валюты в базовую.
// Для базовой валюты конвертация не выполняется независимо от содержимого
// таблицы. Неизвестный код валюты трактуется как базовая валюта (курс 1.0) —
// это намеренный мягкий дефолт, а не ошибка.
func (c *Converter) Convert(amount float64, fromCurrency string) float64 {
	if fromCurrency == c.reference {
		return amount
	}
	rate, ok := c.rates[fromCurrency]
	if !ok {
		rate = 1.0
	}
	return amount * rate
}

// Reference возвращает код базовой валюты
func (c *Converter) Reference() string {
	return c.reference
}

package comparison

import (
	"math"
	"testing"
)

// TestConvert проверяет конвертацию по таблице курсов по умолчанию
func TestConvert(t *testing.T) {
	conv := DefaultConverter()

	tests := []struct {
		name     string
		amount   float64
		currency string
		expected float64
	}{
		{"usd", 100.0, CurrencyUSD, 92.0},
		{"gbp", 100.0, CurrencyGBP, 117.0},
		{"jpy", 10000.0, CurrencyJPY, 62.0},
		{"eur is identity", 100.0, CurrencyEUR, 100.0},
		{"zero amount", 0.0, CurrencyUSD, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := conv.Convert(tt.amount, tt.currency)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("Convert(%v, %s) = %v, expected %v", tt.amount, tt.currency, result, tt.expected)
			}
		})
	}
}

// TestConvert_UnknownCurrency проверяет мягкий дефолт для неизвестной валюты
func TestConvert_UnknownCurrency(t *testing.T) {
	conv := DefaultConverter()

	if result := conv.Convert(100.0, "CHF"); result != 100.0 {
		t.Errorf("Convert(100, CHF) = %v, expected 100 (rate 1.0 for unknown currency)", result)
	}
}

// TestConvert_ReferenceIgnoresTable проверяет, что базовая валюта не
// конвертируется даже при искаженной таблице курсов
func TestConvert_ReferenceIgnoresTable(t *testing.T) {
	conv := NewConverter(CurrencyEUR, map[string]float64{CurrencyEUR: 0.5})

	if result := conv.Convert(100.0, CurrencyEUR); result != 100.0 {
		t.Errorf("Convert(100, EUR) = %v, expected 100 (reference currency is identity)", result)
	}
}

// TestConvert_CustomReference проверяет конвертер с нестандартной базой
func TestConvert_CustomReference(t *testing.T) {
	conv := NewConverter(CurrencyUSD, map[string]float64{CurrencyEUR: 1.09})

	if result := conv.Convert(100.0, CurrencyUSD); result != 100.0 {
		t.Errorf("Convert(100, USD) = %v, expected 100", result)
	}
	if result := conv.Convert(100.0, CurrencyEUR); math.Abs(result-109.0) > 0.0001 {
		t.Errorf("Convert(100, EUR) = %v, expected 109", result)
	}
	if conv.Reference() != CurrencyUSD {
		t.Errorf("Reference() = %s, expected USD", conv.Reference())
	}
}

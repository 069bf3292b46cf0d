package comparison

import (
	"math"
	"testing"
)

// TestParseLeadTime проверяет перевод сроков поставки в недели
func TestParseLeadTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"weeks explicit", "8 weeks", 8.0},
		{"single week", "1 week", 1.0},
		{"days", "14 days", 2.0},
		{"single day", "7 days", 1.0},
		{"months", "2 months", 8.66},
		{"single month", "1 month", 4.33},
		{"years", "1 year", 52.0},
		{"german days", "10 Tage", 1.43},
		{"german months", "3 Monate", 12.99},
		{"no unit defaults to weeks", "6", 6.0},
		{"decimal value", "1.5 months", 6.5},
		{"number embedded in text", "approx. 4 weeks after PO", 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseLeadTime(tt.input)
			if result == nil {
				t.Fatalf("ParseLeadTime(%q) returned nil, expected %v", tt.input, tt.expected)
			}
			if math.Abs(*result-tt.expected) > 0.001 {
				t.Errorf("ParseLeadTime(%q) = %v, expected %v", tt.input, *result, tt.expected)
			}
		})
	}
}

// TestParseLeadTime_Unparseable проверяет, что непригодный текст дает nil
func TestParseLeadTime_Unparseable(t *testing.T) {
	inputs := []string{"", "N/A", "to be confirmed", "ASAP"}

	for _, input := range inputs {
		if result := ParseLeadTime(input); result != nil {
			t.Errorf("ParseLeadTime(%q) = %v, expected nil", input, *result)
		}
	}
}

// TestParsePaymentDays проверяет извлечение дней отсрочки платежа
func TestParsePaymentDays(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"net form", "Net 30", 30},
		{"net lowercase", "net 60", 60},
		{"days form", "45 days", 45},
		{"days singular", "1 day", 1},
		{"german tag", "30 Tage netto", 30},
		{"days wins over net", "Net 30, payable in 45 days", 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParsePaymentDays(tt.input)
			if result == nil {
				t.Fatalf("ParsePaymentDays(%q) returned nil, expected %d", tt.input, tt.expected)
			}
			if *result != tt.expected {
				t.Errorf("ParsePaymentDays(%q) = %d, expected %d", tt.input, *result, tt.expected)
			}
		})
	}
}

// TestParsePaymentDays_Unparseable проверяет тексты без распознаваемого шаблона
func TestParsePaymentDays_Unparseable(t *testing.T) {
	inputs := []string{"", "N/A", "due on receipt", "cash in advance", "50% upfront"}

	for _, input := range inputs {
		if result := ParsePaymentDays(input); result != nil {
			t.Errorf("ParsePaymentDays(%q) = %d, expected nil", input, *result)
		}
	}
}

// TestExtractIncoterms проверяет поиск кодов Incoterms в условиях поставки
func TestExtractIncoterms(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"FOB Shanghai", "FOB"},
		{"DDP Hamburg, Germany", "DDP"},
		{"exw factory", "EXW"},
		{"CIF Rotterdam port", "CIF"},
		{"delivered to your warehouse", "N/A"},
		{"", "N/A"},
		{"N/A", "N/A"},
	}

	for _, tt := range tests {
		if result := ExtractIncoterms(tt.input); result != tt.expected {
			t.Errorf("ExtractIncoterms(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{
		"+5511987654321",
		"11987654321",
		"+1 (555) 123-4567",
		"555-123-4567",
	}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Errorf("ValidatePhone(%q) = false, want true", phone)
		}
	}

	invalid := []string{
		"",
		"abc",
		"0123456",
		"+",
	}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Errorf("ValidatePhone(%q) = true, want false", phone)
		}
	}
}

func TestNormalizeWhatsApp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(11) 98765-4321", "11987654321"},
		{"+55 11 98765 4321", "+5511987654321"},
		{"11987654321", "11987654321"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeWhatsApp(tt.in); got != tt.want {
			t.Errorf("NormalizeWhatsApp(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

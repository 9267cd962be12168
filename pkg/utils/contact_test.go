package utils

import (
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "plain address", input: "student@cem.edu.in", expected: true},
		{name: "plus tag", input: "a+sih@gmail.com", expected: true},
		{name: "missing at", input: "student.cem.edu", expected: false},
		{name: "missing tld", input: "student@cem", expected: false},
		{name: "double at", input: "a@b@c.com", expected: false},
		{name: "whitespace", input: "stu dent@cem.edu", expected: false},
		{name: "empty", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.input); got != tt.expected {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "indian mobile with country code", input: "+91 98765 43210", expected: true},
		{name: "ten digits", input: "9876543210", expected: true},
		{name: "with parentheses and hyphen", input: "(0484) 255-1234", expected: true},
		{name: "nine digits", input: "987654321", expected: false},
		{name: "letters", input: "98765abcde", expected: false},
		{name: "plus in the middle", input: "98765+43210", expected: false},
		{name: "empty", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPhoneNumber(tt.input); got != tt.expected {
				t.Errorf("IsValidPhoneNumber(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"alice@example.com": "a***@example.com",
		"noatsign":          "***",
		"@example.com":      "***",
	}
	for input, expected := range tests {
		if got := MaskEmail(input); got != expected {
			t.Errorf("MaskEmail(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestNormalizeTeamCode(t *testing.T) {
	tests := map[string]string{
		"ab12cd":     "AB12CD",
		"  Ab12Cd  ": "AB12CD",
		"AB12CD":     "AB12CD",
		"":           "",
	}
	for input, expected := range tests {
		if got := NormalizeTeamCode(input); got != expected {
			t.Errorf("NormalizeTeamCode(%q) = %q, want %q", input, got, expected)
		}
	}
}

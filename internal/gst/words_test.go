package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "INR Zero Only"},
		{"1", "INR One Only"},
		{"19", "INR Nineteen Only"},
		{"20", "INR Twenty Only"},
		{"45", "INR Forty Five Only"},
		{"100", "INR One Hundred Only"},
		{"118", "INR One Hundred Eighteen Only"},
		{"999", "INR Nine Hundred Ninety Nine Only"},
		{"1000", "INR One Thousand Only"},
		{"2360", "INR Two Thousand Three Hundred Sixty Only"},
		{"100000", "INR One Lakh Only"},
		{"2550000", "INR Twenty Five Lakh Fifty Thousand Only"},
		{"10000000", "INR One Crore Only"},
		{"123456789", "INR Twelve Crore Thirty Four Lakh Fifty Six Thousand Seven Hundred Eighty Nine Only"},
	}

	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			assert.Equal(t, tc.want, AmountInWords(dec(tc.amount)))
		})
	}
}

func TestAmountInWords_Paise(t *testing.T) {
	assert.Equal(t, "INR One Hundred And Fifty Paise Only", AmountInWords(dec("100.50")))
	assert.Equal(t, "INR Zero And Five Paise Only", AmountInWords(dec("0.05")))
	assert.Equal(t, "INR Two Thousand Three Hundred Sixty And One Paise Only", AmountInWords(dec("2360.01")))
}

func TestAmountInWords_QuantizesFirst(t *testing.T) {
	// 99.999 rounds to 100.00 before conversion.
	assert.Equal(t, "INR One Hundred Only", AmountInWords(dec("99.999")))
}

func TestAmountInWords_OutOfRange(t *testing.T) {
	assert.Equal(t, WordsError, AmountInWords(dec("-1")))
	assert.Equal(t, WordsError, AmountInWords(dec("-0.01")))
	assert.Equal(t, WordsError, AmountInWords(dec("10000000000000000")))
}

package gst

import (
	"strings"

	"github.com/shopspring/decimal"
)

// WordsError is stored in place of the currency phrase when conversion
// fails; it must never block totals computation or document generation.
const WordsError = "Error generating words"

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

func wordsBelowHundred(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	w := tensWords[n/10]
	if n%10 != 0 {
		w += " " + onesWords[n%10]
	}
	return w
}

func wordsBelowThousand(n int64) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, onesWords[n/100]+" Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, wordsBelowHundred(n))
	}
	return strings.Join(parts, " ")
}

// numberWords renders n in the Indian numbering system (crore, lakh,
// thousand). n must be non-negative.
func numberWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	var parts []string
	if n >= 1e7 {
		parts = append(parts, numberWords(n/1e7)+" Crore")
		n %= 1e7
	}
	if n >= 1e5 {
		parts = append(parts, wordsBelowHundred(n/1e5)+" Lakh")
		n %= 1e5
	}
	if n >= 1000 {
		parts = append(parts, wordsBelowHundred(n/1000)+" Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, wordsBelowThousand(n))
	}
	return strings.Join(parts, " ")
}

// AmountInWords renders a rupee amount as the printable currency phrase,
// e.g. "INR Two Thousand Three Hundred Sixty Only". Amounts out of range
// (negative, or beyond 99 crore crore) yield WordsError instead.
func AmountInWords(amount decimal.Decimal) string {
	q := Quantize(amount)
	if q.IsNegative() {
		return WordsError
	}

	rupees := q.IntPart()
	paise := q.Sub(decimal.NewFromInt(rupees)).Mul(hundred).IntPart()
	if rupees >= 1e16 {
		return WordsError
	}

	phrase := "INR " + numberWords(rupees)
	if paise > 0 {
		phrase += " And " + wordsBelowHundred(paise) + " Paise"
	}
	return phrase + " Only"
}

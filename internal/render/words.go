package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	wordOnes = []string{"", "jeden", "dwa", "trzy", "cztery", "pięć", "sześć", "siedem", "osiem", "dziewięć"}
	wordTeens = []string{"dziesięć", "jedenaście", "dwanaście", "trzynaście", "czternaście",
		"piętnaście", "szesnaście", "siedemnaście", "osiemnaście", "dziewiętnaście"}
	wordTens = []string{"", "", "dwadzieścia", "trzydzieści", "czterdzieści",
		"pięćdziesiąt", "sześćdziesiąt", "siedemdziesiąt", "osiemdziesiąt", "dziewięćdziesiąt"}
	wordHundreds = []string{"", "sto", "dwieście", "trzysta", "czterysta",
		"pięćset", "sześćset", "siedemset", "osiemset", "dziewięćset"}
)

// AmountInWords renders a monetary amount as Polish words, the way the
// "Słownie:" line of a faktura spells the gross total.
func AmountInWords(amount decimal.Decimal) string {
	zloty := amount.IntPart()
	grosze := amount.Sub(decimal.NewFromInt(zloty)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	if zloty == 0 && grosze == 0 {
		return "zero złotych zero groszy"
	}

	var zlotyWords string
	switch {
	case zloty == 0:
		zlotyWords = "zero"
	case zloty < 1000:
		zlotyWords = groupWords(int(zloty))
	case zloty < 1000000:
		thousands := int(zloty / 1000)
		remainder := int(zloty % 1000)

		var parts []string
		if thousands == 1 {
			parts = append(parts, "tysiąc")
		} else {
			parts = append(parts, groupWords(thousands)+" "+thousandForm(thousands))
		}
		if remainder > 0 {
			parts = append(parts, groupWords(remainder))
		}
		zlotyWords = strings.Join(parts, " ")
	default:
		// Past a million plain digits are clearer on the printout
		zlotyWords = fmt.Sprintf("%d", zloty)
	}

	result := zlotyWords + " " + zlotyForm(int(zloty))
	if grosze > 0 {
		result += " " + groupWords(int(grosze)) + " " + groszForm(int(grosze))
	}
	return result
}

// groupWords converts a value below 1000 to words
func groupWords(num int) string {
	if num == 0 {
		return ""
	}

	var parts []string
	h := num / 100
	t := (num % 100) / 10
	o := num % 10

	if h > 0 {
		parts = append(parts, wordHundreds[h])
	}
	if t == 1 {
		parts = append(parts, wordTeens[o])
	} else {
		if t > 0 {
			parts = append(parts, wordTens[t])
		}
		if o > 0 {
			parts = append(parts, wordOnes[o])
		}
	}
	return strings.Join(parts, " ")
}

// Polish plural forms depend on the last digit pair
func zlotyForm(num int) string {
	switch {
	case num == 1:
		return "złoty"
	case pluralFew(num):
		return "złote"
	default:
		return "złotych"
	}
}

func groszForm(num int) string {
	switch {
	case num == 1:
		return "grosz"
	case pluralFew(num):
		return "grosze"
	default:
		return "groszy"
	}
}

func thousandForm(num int) string {
	if pluralFew(num) {
		return "tysiące"
	}
	return "tysięcy"
}

func pluralFew(num int) bool {
	d := num % 10
	return (d == 2 || d == 3 || d == 4) && (num%100 < 10 || num%100 >= 20)
}

package cgd

import "strings"

// plainAmount rewrites a European amount ("1.234,56", "-588,74") to the dot-decimal
// form money.Parse expects.
func plainAmount(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")

	return strings.ReplaceAll(s, ",", ".")
}

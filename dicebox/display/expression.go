// Package display renders published rolls for people.
package display

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Expression renders a roll as the addition of its dice, "4 + 5 = 9", with
// numbers formatted for tag. A single die renders as its value alone.
func Expression(tag language.Tag, values []int, sum int) string {
	p := message.NewPrinter(tag)
	if len(values) == 1 {
		return p.Sprintf("%d", values[0])
	}

	terms := lo.Map(values, func(v int, _ int) string { return p.Sprintf("%d", v) })
	return p.Sprintf("%s = %d", strings.Join(terms, " + "), sum)
}

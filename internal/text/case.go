package text

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ConvertCase upper-cases s using Unicode case mapping.
func ConvertCase(s string) string {
	// A Caser keeps state and is not safe for concurrent use.
	return cases.Upper(language.Und).String(s)
}

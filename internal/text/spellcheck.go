package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// corrections maps common misspellings to their fix.
var corrections = map[string]string{
	"acheive":     "achieve",
	"accomodate":  "accommodate",
	"adress":      "address",
	"alot":        "a lot",
	"arguement":   "argument",
	"beleive":     "believe",
	"begining":    "beginning",
	"calender":    "calendar",
	"definately":  "definitely",
	"enviroment":  "environment",
	"existance":   "existence",
	"goverment":   "government",
	"grammer":     "grammar",
	"happend":     "happened",
	"independant": "independent",
	"occured":     "occurred",
	"occurence":   "occurrence",
	"untill":      "until",
	"prefered":    "preferred",
	"recieve":     "receive",
	"recieved":    "received",
	"seperate":    "separate",
	"succesful":   "successful",
	"teh":         "the",
	"tommorow":    "tomorrow",
	"truely":      "truly",
	"wierd":       "weird",
	"wich":        "which",
	"writting":    "writing",
	"thier":       "their",
}

// SpellCheck replaces known misspellings in s, keeping surrounding
// punctuation, spacing and a leading capital.
func SpellCheck(s string) string {
	return wordPattern.ReplaceAllStringFunc(s, func(w string) string {
		fix, ok := corrections[strings.ToLower(w)]
		if !ok {
			return w
		}
		if r, _ := utf8.DecodeRuneInString(w); unicode.IsUpper(r) {
			fr, size := utf8.DecodeRuneInString(fix)
			return string(unicode.ToUpper(fr)) + fix[size:]
		}
		return fix
	})
}

// Package autocorrect cleans up OCR output and fixes known misreadings.
package autocorrect

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// Correction replaces a whole word, matched case-insensitively.
type Correction struct {
	Wrong string
	Right string
}

type rule struct {
	re    *regexp.Regexp
	right string
}

// Table is an ordered, immutable list of corrections.
type Table struct {
	corrections []Correction
	rules       []rule
}

// DefaultCorrections are the common Italian misreadings of handwritten text.
var DefaultCorrections = []Correction{
	{Wrong: "0ui", Right: "qui"},
	{Wrong: "perche", Right: "perché"},
	{Wrong: "pero", Right: "però"},
	{Wrong: "ancnra", Right: "ancora"},
	{Wrong: "buongiorrno", Right: "buongiorno"},
}

var horizontalSpace = regexp.MustCompile(`[ \t]+`)

func NewTable(corrections []Correction) (*Table, error) {
	t := &Table{corrections: append([]Correction(nil), corrections...)}
	for _, c := range corrections {
		if c.Wrong == "" {
			return nil, errors.New("correction with empty word")
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(norm.NFC.String(c.Wrong)) + `\b`)
		if err != nil {
			return nil, errors.Wrapf(err, "correction %q", c.Wrong)
		}
		t.rules = append(t.rules, rule{re: re, right: norm.NFC.String(c.Right)})
	}
	return t, nil
}

// Default returns a table built from DefaultCorrections.
func Default() *Table {
	t, err := NewTable(DefaultCorrections)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Corrections() []Correction {
	return append([]Correction(nil), t.corrections...)
}

// Apply runs every correction in order over s.
func (t *Table) Apply(s string) string {
	for _, r := range t.rules {
		s = r.re.ReplaceAllLiteralString(s, r.right)
	}
	return s
}

// Clean drops carriage returns, squeezes spaces and tabs and trims.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = horizontalSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Capitalize upper-cases the first character and leaves the rest alone.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Process is the full post-processing chain applied to recognized text.
func (t *Table) Process(s string) string {
	s = Clean(s)
	s = norm.NFC.String(s)
	s = t.Apply(s)
	return Capitalize(s)
}

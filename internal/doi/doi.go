// Package doi finds and normalizes Digital Object Identifiers in free text.
package doi

import (
	"regexp"
	"strings"
	"unicode"
)

// Crossref pattern family, see
// https://www.crossref.org/blog/dois-and-matching-regular-expressions/
//
// RE2 has no possessive quantifiers, so `\d++` from the published list is
// written `\d+`; the match set is the same for a trailing digit run.
var crossrefPatterns = []string{
	`10.\d{4,9}/[-._;()/:A-Z0-9]+`,
	`10.1002/[^\s]+`,
	`10.\d{4}/\d+-\d+X?(\d+)\d+<[\d\w]+:[\d\w]*>\d+.\d+.\w+;\dP`,
	`10.1021/\w\w\d+`,
	`10.1207/[\w\d]+\&\d+_\d+`,
}

// customPatterns holds locally observed DOI shapes the Crossref list misses.
var customPatterns = []string{}

var patterns = compile(append(append([]string{}, crossrefPatterns...), customPatterns...))

// sentinels are values that stand for "no DOI" in source data.
var sentinels = []string{"", "unavailable"}

// fixes maps known-malformed DOIs to their corrected form.
var fixes = map[string]string{
	"10.1177/ 0020720920940575": "10.1177/0020720920940575",
}

func compile(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return out
}

// Patterns returns the ordered DOI pattern list.
func Patterns() []*regexp.Regexp {
	return append([]*regexp.Regexp(nil), patterns...)
}

// WithCustom returns the default patterns followed by the given extra
// expressions, compiled case-insensitively.
func WithCustom(exprs ...string) ([]*regexp.Regexp, error) {
	out := Patterns()
	for _, expr := range exprs {
		re, err := regexp.Compile(`(?i)` + expr)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// Extract returns every DOI found in text. Matches from each pattern are
// concatenated in pattern order and cleaned; duplicates are kept.
func Extract(text string) []string {
	return ExtractWith(patterns, text)
}

// ExtractWith is Extract over a caller-supplied pattern set.
func ExtractWith(res []*regexp.Regexp, text string) []string {
	var dois []string
	for _, re := range res {
		for _, match := range re.FindAllString(text, -1) {
			dois = append(dois, Clean(match))
		}
	}
	return dois
}

// Clean normalizes a raw DOI: known-bad strings are replaced with their
// corrected form, then dots, slashes and whitespace are trimmed from both
// ends. The result is not re-validated.
func Clean(raw string) string {
	if fixed, ok := fixes[raw]; ok {
		raw = fixed
	}
	return strings.TrimFunc(raw, isBoundary)
}

func isBoundary(r rune) bool {
	return r == '.' || r == '/' || unicode.IsSpace(r)
}

// IsSentinel reports whether s is a placeholder meaning "no DOI".
func IsSentinel(s string) bool {
	for _, bad := range sentinels {
		if strings.EqualFold(s, bad) {
			return true
		}
	}
	return false
}

// Matches reports whether s contains at least one non-empty DOI match.
func Matches(s string) bool {
	for _, found := range Extract(s) {
		if found != "" {
			return true
		}
	}
	return false
}

package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldText lower-cases text and strips combining marks, keeping punctuation so
// numeric patterns such as "60,000" survive.
func foldText(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		result = text
	}

	return strings.Join(strings.Fields(result), " ")
}

// cleanText folds text and replaces every rune that is not a letter or digit
// with a space.
func cleanText(text string) string {
	result := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, foldText(text))

	return strings.Join(strings.Fields(result), " ")
}

// Normalize lower-cases text, strips accents and punctuation and collapses
// whitespace.
func Normalize(text string) string {
	return cleanText(text)
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

// padded wraps cleaned text in spaces so phrase lookups only hit whole words.
func padded(clean string) string {
	return " " + clean + " "
}

func containsPhrase(paddedText, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(paddedText, " "+phrase+" ")
}

func cleanAll(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if c := cleanText(p); c != "" {
			out = append(out, c)
		}
	}
	return out
}

package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
	"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U",
)

// StripAccents replaces the acute-accented vowels with their plain
// counterpart. Every other character, ñ and ü included, is left alone.
func StripAccents(s string) string {
	return accentReplacer.Replace(s)
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest ("santiago del ESTERO" -> "Santiago Del Estero").
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// NormalizeText is applied to every human-entered field before it is stored:
// whitespace runs collapse to one space, words are title-cased and accents
// stripped.
func NormalizeText(s string) string {
	return StripAccents(TitleCase(strings.Join(strings.Fields(s), " ")))
}

// FoldDiacritics removes every combining mark (grave, circumflex, tilde...).
// Only used to match input against fixed enumerations.
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return StripAccents(s)
	}
	return out
}

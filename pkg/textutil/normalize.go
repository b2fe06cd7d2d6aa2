package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepara un texto para búsquedas insensibles a mayúsculas y
// tildes: recorta espacios, quita marcas diacríticas (á -> a, ñ -> n) y
// pasa a minúsculas. Se aplica tanto al texto indexado como a la consulta.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

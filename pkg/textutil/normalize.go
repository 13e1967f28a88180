package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer descompone (NFD), elimina marcas diacríticas y recompone (NFC).
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normaliza un texto para búsqueda: minúsculas y sin acentos/diacríticos.
// "Tornillo Galvanizado ½" y "tórnillo galvanizado ½" producen la misma clave.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		// Entrada no normalizable: usar al menos el lowercase
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

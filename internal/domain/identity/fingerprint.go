// Package identity implementa la huella de identidad (fingerprint) con la que
// el sistema decide que dos documentos representan a la misma persona real.
// Es lógica de dominio pura: sin base de datos y determinista, para poder
// verificarla con vectores exactos en los tests.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer descompone, elimina marcas diacríticas y recompone.
// "Muñoz" y "Munoz" colapsan al mismo término de comparación.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeEmail baja a minúsculas y recorta espacios. Un email vacío queda vacío.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone conserva solo los dígitos. "+57 (301) 555-0199" → "573015550199".
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fingerprint construye la huella normalizada (email, teléfono).
// Devuelve cadena vacía si no hay ningún componente: una huella vacía nunca
// debe usarse como clave de agrupación.
func Fingerprint(email, phone string) string {
	e := NormalizeEmail(email)
	p := NormalizePhone(phone)
	if e == "" && p == "" {
		return ""
	}
	return e + "|" + p
}

// FoldName normaliza un nombre para comparación secundaria (minúsculas, sin
// tildes, espacios colapsados). Lo usa el reconciliador cuando la resolución
// primaria por referencia falla y debe comparar por identidad.
func FoldName(name string) string {
	folded, _, err := transform.String(foldTransformer, name)
	if err != nil {
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// SameIdentity compara dos huellas no vacías. Huellas vacías jamás se
// consideran iguales entre sí.
func SameIdentity(a, b string) bool {
	return a != "" && b != "" && a == b
}

package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/TalentoHR-api/internal/domain/identity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la huella de identidad: vectores exactos, sin dependencia externa.
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana.munoz@example.com", identity.NormalizeEmail("  Ana.Munoz@Example.COM "))
	assert.Equal(t, "", identity.NormalizeEmail("   "))
}

func TestNormalizePhone_SoloDigitos(t *testing.T) {
	assert.Equal(t, "573015550199", identity.NormalizePhone("+57 (301) 555-0199"))
	assert.Equal(t, "", identity.NormalizePhone("sin números"))
}

func TestFingerprint_VectorExacto(t *testing.T) {
	fp := identity.Fingerprint(" Ana.Munoz@Example.COM ", "+57 (301) 555-0199")
	assert.Equal(t, "ana.munoz@example.com|573015550199", fp)
}

// El mismo par (email, teléfono) escrito con distinta capitalización, espacios
// o formato telefónico debe colapsar a la misma huella.
func TestFingerprint_EquivalenciasColapsan(t *testing.T) {
	a := identity.Fingerprint("ana@example.com", "301 555 0199")
	b := identity.Fingerprint("ANA@EXAMPLE.COM  ", "3015550199")
	assert.Equal(t, a, b, "las variantes de escritura deben producir la misma huella")
}

func TestFingerprint_SoloEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com|", identity.Fingerprint("ana@example.com", ""))
}

func TestFingerprint_SoloTelefono(t *testing.T) {
	assert.Equal(t, "|3015550199", identity.Fingerprint("", "301-555-0199"))
}

// Huella vacía: sin email ni teléfono no hay identidad que comparar.
func TestFingerprint_AmbosVacios(t *testing.T) {
	assert.Equal(t, "", identity.Fingerprint("", ""))
	assert.Equal(t, "", identity.Fingerprint("   ", "---"))
}

func TestFoldName_TildesYEspacios(t *testing.T) {
	assert.Equal(t, "ana maria munoz", identity.FoldName("  Ana   María  MUÑOZ "))
	assert.Equal(t, "jose perez", identity.FoldName("José Pérez"))
}

func TestSameIdentity(t *testing.T) {
	assert.True(t, identity.SameIdentity("a|1", "a|1"))
	assert.False(t, identity.SameIdentity("a|1", "b|2"))
	// Dos huellas vacías NUNCA son la misma persona.
	assert.False(t, identity.SameIdentity("", ""))
}

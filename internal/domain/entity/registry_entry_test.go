package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

func TestValidOrganizationID(t *testing.T) {
	valid := []string{"acme", "acme_corp", "a1b2", "org_2024"}
	for _, id := range valid {
		assert.True(t, entity.ValidOrganizationID(id), "id %q debe ser válido", id)
	}

	invalid := []string{
		"",
		"ab",            // demasiado corto
		"1acme",         // no inicia con letra
		"Acme",          // mayúsculas
		"acme-corp",     // guion no admitido
		"acme corp",     // espacio
		"acme;drop",     // caracteres peligrosos para el nombre de la base
		"ñandu",         // fuera de ASCII
	}
	for _, id := range invalid {
		assert.False(t, entity.ValidOrganizationID(id), "id %q debe ser inválido", id)
	}
}

// El nombre del store es una función pura del prefijo y el organizationId:
// misma entrada, mismo nombre, siempre.
func TestStoreName_Determinista(t *testing.T) {
	assert.Equal(t, "talento_t_acme", entity.StoreName("talento_t_", "acme"))
	assert.Equal(t, entity.StoreName("talento_t_", "acme"), entity.StoreName("talento_t_", "acme"))
	assert.NotEqual(t, entity.StoreName("talento_t_", "acme"), entity.StoreName("talento_t_", "acme_co"))
}

func TestRegistryEntry_HasFeature(t *testing.T) {
	e := &entity.RegistryEntry{EnabledFeatures: []string{"offboarding", "payroll"}}
	assert.True(t, e.HasFeature("offboarding"))
	assert.False(t, e.HasFeature("analytics"))

	vacio := &entity.RegistryEntry{}
	assert.False(t, vacio.HasFeature("offboarding"))
}

package postgres

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

// El rol por defecto del DDL debe ser uno del conjunto que define la entidad:
// un default fuera del catálogo produce empleados con rol inválido al primer
// INSERT que lo omita.
func TestTenantSchema_RolPorDefectoEsCanonico(t *testing.T) {
	assert.Contains(t, tenantSchema, fmt.Sprintf("DEFAULT '%s'", entity.RoleEmployee))
	assert.NotContains(t, tenantSchema, "'staff'")
}

// La unicidad del fingerprint vivo se impone con un índice único parcial:
// solo vivos y solo huellas no vacías.
func TestTenantSchema_IndiceParcialDeFingerprintVivo(t *testing.T) {
	assert.Contains(t, tenantSchema, "uq_employees_live_fingerprint")
	assert.Contains(t, tenantSchema, "WHERE is_active AND fingerprint <> ''")
}

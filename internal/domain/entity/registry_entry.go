package entity

import (
	"regexp"
	"time"
)

// Estados de un tenant en el registro global.
const (
	TenantActive    = "active"
	TenantSuspended = "suspended"
	TenantArchived  = "archived"
)

// Estados de aprovisionamiento del store físico de un tenant.
const (
	ProvisionPending  = "provisioning"
	ProvisionActive   = "active"
	ProvisionDegraded = "degraded"
)

// organizationIDPattern restringe los identificadores de organización a nombres
// que pueden incrustarse tal cual en el nombre de una base de datos PostgreSQL.
// Así storeName = prefijo + organizationId es inyectivo y libre de colisiones.
var organizationIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{2,40}$`)

// ValidOrganizationID indica si el identificador cumple el formato admitido.
func ValidOrganizationID(organizationID string) bool {
	return organizationIDPattern.MatchString(organizationID)
}

// StoreName deriva el nombre del store físico de forma determinista.
// La existencia y el estado del tenant SIEMPRE se consultan en el registro;
// el nombre solo se deriva aquí, nunca se adivina en los call sites.
func StoreName(prefix, organizationID string) string {
	return prefix + organizationID
}

// Subscription metadatos del plan contratado por el tenant.
type Subscription struct {
	Plan   string // free, standard, enterprise
	Status string // active, past_due, cancelled
}

// RegistryEntry entrada del registro global de tenants. Una por organización.
// Nunca se borra físicamente: el estado pasa a archived y los datos quedan.
type RegistryEntry struct {
	OrganizationID       string
	OrganizationName     string
	StoreName            string
	Status               string // ver constantes Tenant*
	StoreProvisionStatus string // ver constantes Provision*
	Subscription         Subscription
	EnabledFeatures      []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasFeature indica si el tenant tiene habilitada una funcionalidad.
func (e *RegistryEntry) HasFeature(name string) bool {
	for _, f := range e.EnabledFeatures {
		if f == name {
			return true
		}
	}
	return false
}

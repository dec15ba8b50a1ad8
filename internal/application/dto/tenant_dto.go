package dto

import (
	"time"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

// RegisterTenantRequest entrada para dar de alta una organización.
type RegisterTenantRequest struct {
	OrganizationID   string   `json:"organization_id" validate:"required,min=3,max=41"`
	OrganizationName string   `json:"organization_name" validate:"required,min=1,max=200"`
	Plan             string   `json:"plan" validate:"omitempty,oneof=free standard enterprise"`
	EnabledFeatures  []string `json:"enabled_features"`
}

// TenantResponse salida de una entrada del registro.
type TenantResponse struct {
	OrganizationID       string    `json:"organization_id"`
	OrganizationName     string    `json:"organization_name"`
	StoreName            string    `json:"store_name"`
	Status               string    `json:"status"`
	StoreProvisionStatus string    `json:"store_provision_status"`
	Plan                 string    `json:"plan"`
	PlanStatus           string    `json:"plan_status"`
	EnabledFeatures      []string  `json:"enabled_features"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ToTenantResponse mapea la entidad al DTO de salida.
func ToTenantResponse(e *entity.RegistryEntry) TenantResponse {
	return TenantResponse{
		OrganizationID:       e.OrganizationID,
		OrganizationName:     e.OrganizationName,
		StoreName:            e.StoreName,
		Status:               e.Status,
		StoreProvisionStatus: e.StoreProvisionStatus,
		Plan:                 e.Subscription.Plan,
		PlanStatus:           e.Subscription.Status,
		EnabledFeatures:      e.EnabledFeatures,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

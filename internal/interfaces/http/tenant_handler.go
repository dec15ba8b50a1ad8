package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TalentoHR-api/internal/application/dto"
	"github.com/jhoicas/TalentoHR-api/internal/application/tenancy"
)

// TenantHandler maneja las peticiones HTTP del registro de tenants.
type TenantHandler struct {
	uc *tenancy.RegistryUseCase
}

// NewTenantHandler construye el handler inyectando el caso de uso.
func NewTenantHandler(uc *tenancy.RegistryUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar organización
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterTenantRequest  true  "Datos de la organización"
// @Success      201   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *TenantHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OrganizationID == "" || in.OrganizationName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "organization_id y organization_name son requeridos"})
	}
	entry, err := h.uc.Register(c.Context(), tenancy.RegisterInput{
		OrganizationID:   in.OrganizationID,
		OrganizationName: in.OrganizationName,
		Plan:             in.Plan,
		EnabledFeatures:  in.EnabledFeatures,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTenantResponse(entry))
}

// Resolve godoc
// @Summary      Resolver organización a su entrada del registro
// @Tags         tenants
// @Produce      json
// @Param        orgId  path  string  true  "ID de la organización"
// @Success      200    {object}  dto.TenantResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Failure      403    {object}  dto.ErrorResponse
// @Router       /api/tenants/{orgId}/resolve [get]
func (h *TenantHandler) Resolve(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if orgID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "orgId es requerido"})
	}
	entry, err := h.uc.Resolve(c.Context(), orgID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToTenantResponse(entry))
}

// Archive godoc
// @Summary      Archivar organización (los datos del store quedan intactos)
// @Tags         tenants
// @Produce      json
// @Param        orgId  path  string  true  "ID de la organización"
// @Success      204    "archivada"
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/tenants/{orgId}/archive [post]
func (h *TenantHandler) Archive(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if orgID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "orgId es requerido"})
	}
	if err := h.uc.Archive(c.Context(), orgID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

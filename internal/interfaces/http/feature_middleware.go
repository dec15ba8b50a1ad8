package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TalentoHR-api/internal/application/dto"
)

// featureChecker contrato mínimo que necesita el middleware para verificar
// funcionalidades. Lo implementa *tenancy.RegistryUseCase; la interfaz evita el
// import circular.
type featureChecker interface {
	HasFeature(ctx context.Context, organizationID, feature string) (bool, error)
}

// RequireFeature devuelve un middleware Fiber que verifica si el tenant del
// token tiene habilitada la funcionalidad. Debe usarse DESPUÉS de
// AuthMiddleware (necesita LocalOrganizationID).
//
// Comportamiento:
//   - 403 Forbidden → funcionalidad no habilitada para el tenant.
//   - 503 Service Unavailable → fallo de infraestructura al consultar el registro.
//   - Sin organization_id en el contexto → 401.
func RequireFeature(feature string, checker featureChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		organizationID := GetOrganizationID(c)
		if organizationID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "organization_id no encontrado en el token",
			})
		}

		enabled, err := checker.HasFeature(c.Context(), organizationID, feature)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "FEATURE_CHECK_FAILED",
				Message: "no se pudo verificar la funcionalidad, intente más tarde",
			})
		}

		if !enabled {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FEATURE_DISABLED",
				Message: "la funcionalidad '" + feature + "' no está habilitada para esta organización",
			})
		}

		return c.Next()
	}
}

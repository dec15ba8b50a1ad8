package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TalentoHR-api/internal/application/dto"
	"github.com/jhoicas/TalentoHR-api/internal/domain"
)

// respondError traduce los errores de dominio a respuestas HTTP. Los handlers
// solo tratan a mano los casos que necesitan un mensaje propio.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrTenantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrTenantSuspended):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TENANT_SUSPENDED", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateOrganization):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_ORGANIZATION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrConnectionTimeout):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_TIMEOUT", Message: err.Error()})
	case errors.Is(err, domain.ErrConnectionAuthFailure):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_AUTH_FAILURE", Message: err.Error()})
	case errors.Is(err, domain.ErrSnapshotMissing), errors.Is(err, domain.ErrDanglingReference):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INCONSISTENT_STATE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

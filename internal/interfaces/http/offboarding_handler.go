package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TalentoHR-api/internal/application/dto"
	"github.com/jhoicas/TalentoHR-api/internal/application/lifecycle"
)

// OffboardingHandler maneja las peticiones HTTP del offboarding.
type OffboardingHandler struct {
	uc        *lifecycle.OffboardingUseCase
	directory *lifecycle.DirectoryUseCase
}

// NewOffboardingHandler construye el handler inyectando los casos de uso.
func NewOffboardingHandler(uc *lifecycle.OffboardingUseCase, directory *lifecycle.DirectoryUseCase) *OffboardingHandler {
	return &OffboardingHandler{uc: uc, directory: directory}
}

// Initiate godoc
// @Summary      Abrir el offboarding de un empleado vivo
// @Tags         offboardings
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitiateOffboardingRequest  true  "Datos del offboarding"
// @Success      201   {object}  dto.OffboardingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/offboardings [post]
func (h *OffboardingHandler) Initiate(c *fiber.Ctx) error {
	var in dto.InitiateOffboardingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.EmployeeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "employee_id es requerido"})
	}
	ob, err := h.uc.Initiate(c.Context(), lifecycle.InitiateInput{
		OrganizationID: GetOrganizationID(c),
		EmployeeID:     in.EmployeeID,
		Reason:         in.Reason,
		LastWorkingDay: in.LastWorkingDay,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOffboardingResponse(ob))
}

// GetByID godoc
// @Summary      Obtener un offboarding
// @Tags         offboardings
// @Produce      json
// @Param        id   path  string  true  "ID del offboarding"
// @Success      200  {object}  dto.OffboardingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/offboardings/{id} [get]
func (h *OffboardingHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	ob, err := h.directory.GetOffboarding(c.Context(), GetOrganizationID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOffboardingResponse(ob))
}

// Advance godoc
// @Summary      Avanzar el offboarding a su etapa siguiente
// @Description  La transición settlement → closed no pasa por aquí: el cierre tiene su propia operación.
// @Tags         offboardings
// @Produce      json
// @Param        id   path  string  true  "ID del offboarding"
// @Success      200  {object}  dto.OffboardingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/offboardings/{id}/advance [post]
func (h *OffboardingHandler) Advance(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	ob, err := h.uc.Advance(c.Context(), GetOrganizationID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOffboardingResponse(ob))
}

// Close godoc
// @Summary      Cerrar el offboarding (snapshot durable y purga del registro vivo)
// @Description  Operación idempotente: re-ejecutarla tras un fallo parcial completa lo pendiente sin duplicar efectos.
// @Tags         offboardings
// @Produce      json
// @Param        id   path  string  true  "ID del offboarding"
// @Success      200  {object}  dto.OffboardingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/offboardings/{id}/close [post]
func (h *OffboardingHandler) Close(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	ob, err := h.uc.Close(c.Context(), GetOrganizationID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOffboardingResponse(ob))
}

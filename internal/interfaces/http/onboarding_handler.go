package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TalentoHR-api/internal/application/dto"
	"github.com/jhoicas/TalentoHR-api/internal/application/lifecycle"
)

// OnboardingHandler maneja las peticiones HTTP del onboarding.
type OnboardingHandler struct {
	uc *lifecycle.OnboardingUseCase
}

// NewOnboardingHandler construye el handler inyectando el caso de uso.
func NewOnboardingHandler(uc *lifecycle.OnboardingUseCase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

// AcceptOffer godoc
// @Summary      Aceptar oferta y abrir onboarding
// @Tags         onboardings
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AcceptOfferRequest  true  "Datos de la oferta aceptada"
// @Success      201   {object}  dto.OnboardingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/onboardings [post]
func (h *OnboardingHandler) AcceptOffer(c *fiber.Ctx) error {
	var in dto.AcceptOfferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CandidateID == "" || in.JobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "candidate_id y job_id son requeridos"})
	}
	ob, err := h.uc.AcceptOffer(c.Context(), lifecycle.AcceptOfferInput{
		OrganizationID: GetOrganizationID(c),
		CandidateID:    in.CandidateID,
		JobID:          in.JobID,
		StartDate:      in.StartDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOnboardingResponse(ob))
}

// Start godoc
// @Summary      Iniciar el onboarding (pending → in-progress)
// @Tags         onboardings
// @Produce      json
// @Param        id   path  string  true  "ID del onboarding"
// @Success      204  "iniciado"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/onboardings/{id}/start [post]
func (h *OnboardingHandler) Start(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Start(c.Context(), GetOrganizationID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Complete godoc
// @Summary      Completar el onboarding creando el empleado canónico
// @Description  Operación idempotente: re-ejecutarla sobre un onboarding ya completado devuelve el empleado enlazado.
// @Tags         onboardings
// @Produce      json
// @Param        id   path  string  true  "ID del onboarding"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/onboardings/{id}/complete [post]
func (h *OnboardingHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	emp, err := h.uc.Complete(c.Context(), GetOrganizationID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToEmployeeResponse(emp))
}

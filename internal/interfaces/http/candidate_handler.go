package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TalentoHR-api/internal/application/dto"
	"github.com/jhoicas/TalentoHR-api/internal/application/lifecycle"
)

// CandidateHandler maneja las peticiones HTTP del pipeline de candidatos.
type CandidateHandler struct {
	submit    *lifecycle.SubmitApplicationUseCase
	directory *lifecycle.DirectoryUseCase
}

// NewCandidateHandler construye el handler inyectando los casos de uso.
func NewCandidateHandler(submit *lifecycle.SubmitApplicationUseCase, directory *lifecycle.DirectoryUseCase) *CandidateHandler {
	return &CandidateHandler{submit: submit, directory: directory}
}

// SubmitApplication godoc
// @Summary      Aplicar a una vacante (deduplica la identidad al alta)
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitApplicationRequest  true  "Datos de la aplicación"
// @Success      201   {object}  dto.CandidateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/candidates/applications [post]
func (h *CandidateHandler) SubmitApplication(c *fiber.Ctx) error {
	var in dto.SubmitApplicationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	master, err := h.submit.Execute(c.Context(), lifecycle.SubmitApplicationInput{
		OrganizationID: GetOrganizationID(c),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		JobID:          in.JobID,
		AppliedDate:    in.AppliedDate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToCandidateResponse(master))
}

// GetByID godoc
// @Summary      Obtener candidato con su historial consolidado
// @Tags         candidates
// @Produce      json
// @Param        id   path  string  true  "ID del candidato"
// @Success      200  {object}  dto.CandidateDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/candidates/{id} [get]
func (h *CandidateHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	detail, err := h.directory.GetCandidate(c.Context(), GetOrganizationID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.CandidateDetailResponse{
		Candidate:      dto.ToCandidateResponse(detail.Candidate),
		Applications:   dto.ToApplicationResponses(detail.Applications),
		DanglingMaster: detail.DanglingMaster,
	})
}

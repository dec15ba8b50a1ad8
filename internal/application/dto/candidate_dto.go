package dto

import (
	"time"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

// SubmitApplicationRequest entrada para aplicar a una vacante.
type SubmitApplicationRequest struct {
	FirstName   string    `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string    `json:"last_name" validate:"required,min=1,max=100"`
	Email       string    `json:"email" validate:"omitempty,email"`
	Phone       string    `json:"phone"`
	JobID       string    `json:"job_id" validate:"required"`
	AppliedDate time.Time `json:"applied_date"`
}

// CandidateResponse salida de un candidato.
type CandidateResponse struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Stage             string    `json:"stage"`
	MasterCandidateID *string   `json:"master_candidate_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ApplicationResponse una entrada del historial de aplicaciones.
type ApplicationResponse struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	AppliedDate time.Time `json:"applied_date"`
	Stage       string    `json:"stage"`
	Status      string    `json:"status"`
	Outcome     string    `json:"outcome,omitempty"`
}

// CandidateDetailResponse candidato con su historial completo. DanglingMaster
// avisa al consumidor que la referencia al master no resuelve y el historial
// mostrado es el propio.
type CandidateDetailResponse struct {
	Candidate      CandidateResponse     `json:"candidate"`
	Applications   []ApplicationResponse `json:"applications"`
	DanglingMaster bool                  `json:"dangling_master,omitempty"`
}

// ToCandidateResponse mapea la entidad al DTO de salida.
func ToCandidateResponse(c *entity.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:                c.ID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Email:             c.Email,
		Phone:             c.Phone,
		Stage:             c.Stage,
		MasterCandidateID: c.MasterCandidateID,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToApplicationResponses mapea el historial al DTO de salida.
func ToApplicationResponses(apps []*entity.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, ApplicationResponse{
			ID:          a.ID,
			JobID:       a.JobID,
			AppliedDate: a.AppliedDate,
			Stage:       a.Stage,
			Status:      a.Status,
			Outcome:     a.Outcome,
		})
	}
	return out
}

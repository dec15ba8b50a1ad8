package dto

import (
	"time"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

// AcceptOfferRequest entrada para abrir un onboarding.
type AcceptOfferRequest struct {
	CandidateID string    `json:"candidate_id" validate:"required"`
	JobID       string    `json:"job_id" validate:"required"`
	StartDate   time.Time `json:"start_date" validate:"required"`
}

// OnboardingResponse salida de un onboarding.
type OnboardingResponse struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"`
	EmployeeID  *string   `json:"employee_id,omitempty"`
	StartDate   time.Time `json:"start_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EmployeeResponse salida de un empleado. El salario viaja como string para no
// perder precisión decimal en el JSON.
type EmployeeResponse struct {
	ID            string    `json:"id"`
	EmployeeCode  string    `json:"employee_code"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Role          string    `json:"role"`
	SalaryMonthly string    `json:"salary_monthly"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EmployeeListResponse lista paginada de empleados.
type EmployeeListResponse struct {
	Items []EmployeeResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// InitiateOffboardingRequest entrada para abrir un offboarding.
type InitiateOffboardingRequest struct {
	EmployeeID     string    `json:"employee_id" validate:"required"`
	Reason         string    `json:"reason"`
	LastWorkingDay time.Time `json:"last_working_day" validate:"required"`
}

// OffboardingResponse salida de un offboarding.
type OffboardingResponse struct {
	ID             string                   `json:"id"`
	EmployeeID     string                   `json:"employee_id"`
	Reason         string                   `json:"reason"`
	Status         string                   `json:"status"`
	Snapshot       *entity.EmployeeSnapshot `json:"employee_snapshot,omitempty"`
	LastWorkingDay time.Time                `json:"last_working_day"`
	ClosedAt       *time.Time               `json:"closed_at,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// ToOnboardingResponse mapea la entidad al DTO de salida.
func ToOnboardingResponse(o *entity.OnboardingRecord) OnboardingResponse {
	return OnboardingResponse{
		ID:          o.ID,
		CandidateID: o.CandidateID,
		JobID:       o.JobID,
		Status:      o.Status,
		EmployeeID:  o.EmployeeID,
		StartDate:   o.StartDate,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToEmployeeResponse mapea la entidad al DTO de salida.
func ToEmployeeResponse(e *entity.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		EmployeeCode:  e.EmployeeCode,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		Phone:         e.Phone,
		Role:          e.Role,
		SalaryMonthly: e.SalaryMonthly.String(),
		IsActive:      e.IsActive,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// ToOffboardingResponse mapea la entidad al DTO de salida.
func ToOffboardingResponse(o *entity.OffboardingRecord) OffboardingResponse {
	return OffboardingResponse{
		ID:             o.ID,
		EmployeeID:     o.EmployeeID,
		Reason:         o.Reason,
		Status:         o.Status,
		Snapshot:       o.Snapshot,
		LastWorkingDay: o.LastWorkingDay,
		ClosedAt:       o.ClosedAt,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para Employee. Una sola colección canónica con variante de rol:
// "es empleado esta persona" nunca depende de en qué tabla cayó el documento.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

// Employee identidad canónica y viva de una persona en la nómina.
// Invariante: a lo sumo UN Employee vivo por fingerprint en todo momento.
type Employee struct {
	ID            string
	EmployeeCode  string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Fingerprint   string
	Role          string // ver constantes Role*
	SalaryMonthly decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EmployeeSnapshot copia inmutable y completa de un Employee, capturada al
// cerrar el offboarding. No sigue mutaciones posteriores ni el borrado del vivo.
type EmployeeSnapshot struct {
	EmployeeID    string    `json:"employee_id"`
	EmployeeCode  string    `json:"employee_code"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Fingerprint   string    `json:"fingerprint"`
	Role          string    `json:"role"`
	SalaryMonthly string    `json:"salary_monthly"`
	HiredAt       time.Time `json:"hired_at"`
	CapturedAt    time.Time `json:"captured_at"`
}

// Snapshot captura los campos del Employee tal como están en este momento.
func (e *Employee) Snapshot(capturedAt time.Time) *EmployeeSnapshot {
	return &EmployeeSnapshot{
		EmployeeID:    e.ID,
		EmployeeCode:  e.EmployeeCode,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		Email:         e.Email,
		Phone:         e.Phone,
		Fingerprint:   e.Fingerprint,
		Role:          e.Role,
		SalaryMonthly: e.SalaryMonthly.String(),
		HiredAt:       e.CreatedAt,
		CapturedAt:    capturedAt,
	}
}

package repository

import (
	"context"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

// OnboardingRepository puerto de persistencia para OnboardingRecord.
type OnboardingRepository interface {
	Create(ctx context.Context, o *entity.OnboardingRecord) error
	GetByID(ctx context.Context, id string) (*entity.OnboardingRecord, error)
	SetStatus(ctx context.Context, id, status string) error
	// LinkEmployee escribe la back-reference employee_id y marca completed.
	// Es el segundo paso, no atómico, de la transición más frágil del sistema.
	LinkEmployee(ctx context.Context, id, employeeID string) error
	// ListCompletedUnlinked registros completed sin employee_id: el residuo
	// que el reconciliador debe reparar.
	ListCompletedUnlinked(ctx context.Context) ([]*entity.OnboardingRecord, error)
	// ListLinked registros con employee_id poblado, para el escaneo de
	// referencias colgantes.
	ListLinked(ctx context.Context) ([]*entity.OnboardingRecord, error)
	// ReassignEmployee reescribe las referencias que apuntaban a un Employee
	// descartado en un merge para que apunten al sobreviviente.
	ReassignEmployee(ctx context.Context, fromEmployeeID, toEmployeeID string) error
}

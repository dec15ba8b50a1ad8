package repository

import (
	"context"

	"github.com/jhoicas/TalentoHR-api/internal/domain/entity"
)

// CandidateRepository puerto de persistencia para Candidate y su historial.
// Todas las operaciones actúan sobre el store del tenant ya resuelto.
type CandidateRepository interface {
	Create(ctx context.Context, c *entity.Candidate) error
	GetByID(ctx context.Context, id string) (*entity.Candidate, error)
	// ListByFingerprint devuelve el linaje completo ordenado por created_at
	// ascendente: el primero es siempre el master.
	ListByFingerprint(ctx context.Context, fingerprint string) ([]*entity.Candidate, error)
	SetMaster(ctx context.Context, id, masterID string) error
	UpdateStage(ctx context.Context, id, stage string) error
	AppendApplication(ctx context.Context, app *entity.Application) error
	// ListApplications historial ordenado por applied_date ascendente.
	ListApplications(ctx context.Context, candidateID string) ([]*entity.Application, error)
	// ReassignApplications mueve el historial de un duplicado al master,
	// conservando jobId y appliedDate de cada entrada.
	ReassignApplications(ctx context.Context, fromCandidateID, toCandidateID string) error
	ListAll(ctx context.Context) ([]*entity.Candidate, error)
}

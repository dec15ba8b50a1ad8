package entity

import "time"

// Etapas de una aplicación dentro del pipeline de selección.
const (
	StageApplied   = "applied"
	StageScreening = "screening"
	StageInterview = "interview"
	StageOffer     = "offer"
	StageHired     = "hired"
	StageRejected  = "rejected"
)

// Candidate representa a una persona que aplicó a una o más vacantes.
// La identidad real se detecta por Fingerprint (email+teléfono normalizados):
// varios documentos Candidate pueden ser la misma persona.
type Candidate struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Fingerprint string
	Stage       string
	// MasterCandidateID referencia débil al Candidate más antiguo con el mismo
	// fingerprint. Solo enlaza el linaje, nunca es dueño del documento.
	MasterCandidateID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsMaster indica si este documento encabeza su linaje de identidad.
func (c *Candidate) IsMaster() bool {
	return c.MasterCandidateID == nil
}

// Application una entrada del historial de aplicaciones de un candidato.
// El historial solo crece: las entradas se agregan, nunca se sobreescriben.
type Application struct {
	ID          string
	CandidateID string
	JobID       string
	AppliedDate time.Time
	Stage       string
	Status      string // open, closed
	Outcome     string // hired, rejected, withdrawn, "" si sigue abierta
}

package entity

import "time"

// Estados de un OnboardingRecord. El estado completed es terminal.
const (
	OnboardingPending    = "pending"
	OnboardingInProgress = "in-progress"
	OnboardingCompleted  = "completed"
)

// OnboardingRecord se crea al aceptar una oferta. Al completarse DEBE quedar
// enlazado a un Employee vivo vía EmployeeID; un completed sin EmployeeID es
// el residuo de un fallo parcial y lo repara el reconciliador.
type OnboardingRecord struct {
	ID          string
	CandidateID string
	JobID       string
	Status      string // ver constantes Onboarding*
	EmployeeID  *string
	// Datos mínimos de la persona, copiados del candidato al aceptar la oferta.
	// Son la fuente del Employee sintetizado cuando el enlace se pierde.
	FirstName string
	LastName  string
	Email     string
	Phone     string
	StartDate time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLinked indica si el registro ya referencia a su Employee.
func (o *OnboardingRecord) IsLinked() bool {
	return o.EmployeeID != nil && *o.EmployeeID != ""
}

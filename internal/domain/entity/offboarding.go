package entity

import "time"

// Etapas de un OffboardingRecord, en orden. closed es terminal.
const (
	OffboardingInitiated  = "initiated"
	OffboardingClearance  = "clearance"
	OffboardingSettlement = "settlement"
	OffboardingClosed     = "closed"
)

// offboardingOrder posición de cada etapa para validar avances.
var offboardingOrder = map[string]int{
	OffboardingInitiated:  0,
	OffboardingClearance:  1,
	OffboardingSettlement: 2,
	OffboardingClosed:     3,
}

// NextOffboardingStage devuelve la etapa siguiente y false si ya no hay avance
// posible (etapa terminal o desconocida).
func NextOffboardingStage(current string) (string, bool) {
	switch current {
	case OffboardingInitiated:
		return OffboardingClearance, true
	case OffboardingClearance:
		return OffboardingSettlement, true
	case OffboardingSettlement:
		return OffboardingClosed, true
	default:
		return "", false
	}
}

// ValidOffboardingStage indica si la etapa existe.
func ValidOffboardingStage(stage string) bool {
	_, ok := offboardingOrder[stage]
	return ok
}

// OffboardingRecord avanza por etapas hasta closed. Al cierre DEBE contener el
// EmployeeSnapshot y el Employee vivo referenciado deja de existir como
// registro consultable.
type OffboardingRecord struct {
	ID             string
	EmployeeID     string
	Reason         string
	Status         string // ver constantes Offboarding*
	Snapshot       *EmployeeSnapshot
	LastWorkingDay time.Time
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsClosed indica si el offboarding ya es terminal.
func (o *OffboardingRecord) IsClosed() bool {
	return o.Status == OffboardingClosed
}

// HasSnapshot indica si el snapshot ya fue persistido (el cierre puede haberse
// interrumpido entre snapshot y purga; la purga se reintenta sin re-capturar).
func (o *OffboardingRecord) HasSnapshot() bool {
	return o.Snapshot != nil
}

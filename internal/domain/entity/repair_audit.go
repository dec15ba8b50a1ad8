package entity

import (
	"encoding/json"
	"time"
)

// Reglas de reparación aplicadas por el reconciliador. El nombre de la regla
// queda grabado en cada entrada de auditoría.
const (
	RuleDuplicateLiveMerge   = "duplicate-live-merge"
	RuleDanglingRelink       = "dangling-relink"
	RuleDanglingManualReview = "dangling-manual-review"
	RuleUnlinkedCompletion   = "unlinked-completion-link"
	RuleSynthesizedEmployee  = "unlinked-completion-synthesize"
)

// Tipos de registro sobre los que actúa una reparación.
const (
	KindCandidate   = "candidate"
	KindOnboarding  = "onboarding"
	KindEmployee    = "employee"
	KindOffboarding = "offboarding"
)

// RepairAudit una reparación (o anomalía) registrada por el reconciliador.
// Before y After son documentos crudos (JSON) — el único punto del sistema
// donde se admite el escape sin esquema, confinado a tooling de reparación.
type RepairAudit struct {
	ID         string          `json:"id"`          // KSUID: ordenable por tiempo de creación
	Rule       string          `json:"rule"`        // ver constantes Rule*
	RecordKind string          `json:"record_kind"` // ver constantes Kind*
	RecordID   string          `json:"record_id"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	// Anomaly true cuando la reparación fabricó datos (p. ej. un Employee
	// sintetizado); los operadores las auditan separadas de los arreglos
	// mecánicos.
	Anomaly   bool      `json:"anomaly"`
	CreatedAt time.Time `json:"created_at"`
}

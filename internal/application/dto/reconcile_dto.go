package dto

import "time"

// ReconcileReportResponse resumen de un pase de reconciliación sobre un tenant.
type ReconcileReportResponse struct {
	OrganizationID       string    `json:"organization_id"`
	StartedAt            time.Time `json:"started_at"`
	FinishedAt           time.Time `json:"finished_at"`
	MergedDuplicates     int       `json:"merged_duplicates"`
	RelinkedReferences   int       `json:"relinked_references"`
	FlaggedForReview     int       `json:"flagged_for_review"`
	LinkedCompletions    int       `json:"linked_completions"`
	SynthesizedEmployees int       `json:"synthesized_employees"`
	Failures             int       `json:"failures"`
	TotalRepairs         int       `json:"total_repairs"`
}

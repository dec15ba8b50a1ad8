package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TalentoHR-api/internal/application/dto"
	"github.com/jhoicas/TalentoHR-api/internal/application/reconcile"
)

// ReconcileHandler maneja las peticiones HTTP del reconciliador.
type ReconcileHandler struct {
	reconciler *reconcile.Reconciler
}

// NewReconcileHandler construye el handler inyectando el reconciliador.
func NewReconcileHandler(reconciler *reconcile.Reconciler) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler}
}

// Run godoc
// @Summary      Ejecutar el pase de reconciliación sobre un tenant
// @Description  Idempotente: un segundo pase inmediato no encuentra nada que reparar. Si hubo fallos por registro, el pase reporta lo reparado igual.
// @Tags         reconciliation
// @Produce      json
// @Param        orgId  path  string  true  "ID de la organización"
// @Success      200    {object}  dto.ReconcileReportResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/reconciliation/{orgId}/run [post]
func (h *ReconcileHandler) Run(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if orgID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "orgId es requerido"})
	}
	report, err := h.reconciler.Run(c.Context(), orgID)
	if err != nil && report.TotalRepairs() == 0 && report.Failures == 0 {
		// El pase ni siquiera arrancó (tenant inexistente, store inaccesible).
		return respondError(c, err)
	}
	return c.JSON(dto.ReconcileReportResponse{
		OrganizationID:       report.OrganizationID,
		StartedAt:            report.StartedAt,
		FinishedAt:           report.FinishedAt,
		MergedDuplicates:     report.MergedDuplicates,
		RelinkedReferences:   report.RelinkedReferences,
		FlaggedForReview:     report.FlaggedForReview,
		LinkedCompletions:    report.LinkedCompletions,
		SynthesizedEmployees: report.SynthesizedEmployees,
		Failures:             report.Failures,
		TotalRepairs:         report.TotalRepairs(),
	})
}

// Audits godoc
// @Summary      Listar el log de reparaciones de un tenant
// @Tags         reconciliation
// @Produce      json
// @Param        orgId   path   string  true   "ID de la organización"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  entity.RepairAudit
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/reconciliation/{orgId}/audits [get]
func (h *ReconcileHandler) Audits(c *fiber.Ctx) error {
	orgID := c.Params("orgId")
	if orgID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "orgId es requerido"})
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	audits, err := h.reconciler.Audits(c.Context(), orgID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(audits)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/TalentoHR-api/internal/application/lifecycle"
	"github.com/jhoicas/TalentoHR-api/internal/application/reconcile"
	"github.com/jhoicas/TalentoHR-api/internal/application/tenancy"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegistryUC    *tenancy.RegistryUseCase
	SubmitUC      *lifecycle.SubmitApplicationUseCase
	OnboardingUC  *lifecycle.OnboardingUseCase
	OffboardingUC *lifecycle.OffboardingUseCase
	DirectoryUC   *lifecycle.DirectoryUseCase
	Reconciler    *reconcile.Reconciler
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Registro de tenants: solo operadores de plataforma (rol admin).
	tenants := api.Group("/tenants", AuthMiddleware(deps.JWTSecret), RequireRole("admin"))
	tenantHandler := NewTenantHandler(deps.RegistryUC)
	tenants.Post("/", tenantHandler.Register)
	tenants.Get("/:orgId/resolve", tenantHandler.Resolve)
	tenants.Post("/:orgId/archive", tenantHandler.Archive)

	// Rutas de tenant: el organizationId sale SIEMPRE del token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	candidates := protected.Group("/candidates")
	candidateHandler := NewCandidateHandler(deps.SubmitUC, deps.DirectoryUC)
	candidates.Post("/applications", candidateHandler.SubmitApplication)
	candidates.Get("/:id", candidateHandler.GetByID)

	onboardings := protected.Group("/onboardings", RequireRole("hr", "admin"))
	onboardingHandler := NewOnboardingHandler(deps.OnboardingUC)
	onboardings.Post("/", onboardingHandler.AcceptOffer)
	onboardings.Post("/:id/start", onboardingHandler.Start)
	onboardings.Post("/:id/complete", onboardingHandler.Complete)

	offboardings := protected.Group("/offboardings", RequireRole("hr", "admin"),
		RequireFeature("offboarding", deps.RegistryUC))
	offboardingHandler := NewOffboardingHandler(deps.OffboardingUC, deps.DirectoryUC)
	offboardings.Post("/", offboardingHandler.Initiate)
	offboardings.Get("/:id", offboardingHandler.GetByID)
	offboardings.Post("/:id/advance", offboardingHandler.Advance)
	offboardings.Post("/:id/close", offboardingHandler.Close)

	employees := protected.Group("/employees")
	employeeHandler := NewEmployeeHandler(deps.DirectoryUC)
	employees.Get("/", employeeHandler.List)
	employees.Get("/:id", employeeHandler.GetByID)

	// Reconciliación: tooling de operadores, cruza tenants por parámetro.
	reconciliation := api.Group("/reconciliation", AuthMiddleware(deps.JWTSecret), RequireRole("admin"))
	reconcileHandler := NewReconcileHandler(deps.Reconciler)
	reconciliation.Post("/:orgId/run", reconcileHandler.Run)
	reconciliation.Get("/:orgId/audits", reconcileHandler.Audits)
}

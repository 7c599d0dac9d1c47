package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/farmabem/farmastock-api/internal/application/auth"
	"github.com/farmabem/farmastock-api/internal/application/catalog"
	"github.com/farmabem/farmastock-api/internal/application/ledger"
	"github.com/farmabem/farmastock-api/internal/application/notification"
	"github.com/farmabem/farmastock-api/internal/application/report"
	"github.com/farmabem/farmastock-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC    *catalog.CatalogUseCase
	LedgerUC     *ledger.LedgerUseCase
	ReportUC     *report.ReportUseCase
	AuthUC       *auth.AuthUseCase
	Stream       notification.EventStream
	Logger       *logger.Logger
	JWTSecret    string
	StoreTimeout time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", StoreTimeout(deps.StoreTimeout))

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Medications (protegido)
	medications := protected.Group("/medications")
	medicationHandler := NewMedicationHandler(deps.CatalogUC)
	medications.Post("/", medicationHandler.Register)
	medications.Get("/", medicationHandler.List)
	medications.Get("/:id", medicationHandler.GetByID)
	medications.Put("/:id", medicationHandler.Update)

	// Stock movements (protegido)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.LedgerUC, deps.ReportUC)
	movements.Post("/entries", movementHandler.RegisterEntry)
	movements.Post("/exits", movementHandler.RegisterExit)
	movements.Patch("/:id/quantity", movementHandler.CorrectQuantity)
	movements.Get("/", movementHandler.History)
	medications.Get("/:id/movements", movementHandler.ByMedication)

	// Reports (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/rollup", reportHandler.Rollup)

	// Feed de notificaciones por WebSocket (protegido)
	notificationHandler := NewNotificationHandler(deps.Stream, deps.Logger)
	notifications := protected.Group("/notifications")
	notifications.Get("/stream", notificationHandler.Upgrade, notificationHandler.Stream())
}

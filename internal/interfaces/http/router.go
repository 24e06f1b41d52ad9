package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facturas-ocr/internal/application/digitize"
	"github.com/jhoicas/facturas-ocr/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Digitize  *digitize.UseCase
	Batch     *digitize.BatchProcessor
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.Digitize, deps.Batch)

	// Consulta: cualquier rol
	readers := RequireRole(jwt.RoleAdmin, jwt.RoleDigitizer, jwt.RoleAuditor)
	documents.Get("/vendors", readers, documentHandler.ListVendors)
	documents.Get("/vendors/:label", readers, documentHandler.GetVendor)

	// Procesamiento: admin o integración OCR
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleDigitizer)
	documents.Post("/process", writers, documentHandler.Process)
	documents.Post("/batch", writers, documentHandler.ProcessBatch)
}

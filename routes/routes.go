package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"folio-backend/controllers"
	"folio-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	rc *controllers.ReservationController,
	fc *controllers.FolioController,
	ic *controllers.InvoiceController,
	sc *controllers.SettingsController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		reservations := api.Group("/reservations")
		{
			reservations.GET("", rc.List)
			reservations.POST("", rc.Create)
			reservations.GET("/:id", rc.Get)
			reservations.POST("/:id/status", rc.Transition)
			reservations.GET("/:id/folios", rc.Folios)

			// Fetch and issue are separate operations; the front desk
			// decides which to call.
			reservations.GET("/:id/invoice", ic.GetByReservation)
			reservations.POST("/:id/invoice", ic.Create)
		}

		folios := api.Group("/folios")
		{
			folios.POST("", fc.OpenFolio)
			folios.GET("/:id", fc.GetFolio)
			folios.GET("/:id/totals", fc.GetTotals)
			folios.POST("/:id/postings", fc.AddPosting)
			folios.POST("/:id/close", fc.CloseFolio)
		}

		postings := api.Group("/postings")
		{
			postings.POST("/:id/reverse", fc.ReversePosting)
		}

		invoices := api.Group("/invoices")
		{
			invoices.GET("/:id/html", ic.RenderHTML)
			invoices.GET("/:id/qr.png", ic.QRImage)
			invoices.GET("/:id/qr/fields", ic.VerifyQR)
			invoices.POST("/:id/pay", ic.MarkPaid)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/company", sc.GetCompanySettings)
			settings.PUT("/company", sc.UpdateCompanySettings)
		}
	}

	return r
}

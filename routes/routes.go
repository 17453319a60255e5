package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/manoj0277/agrirent-backend/handlers"
)

// RegisterBookingRoutes registers all endpoints of the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		api.GET("/:id", bh.GetBookingHandler)
		api.POST("/:id/accept", bh.AcceptHandler)
		api.POST("/:id/reject", bh.RejectHandler)
		api.POST("/:id/cancel", bh.CancelHandler)
		api.POST("/:id/arrived", bh.ArrivedHandler)
		api.POST("/:id/verify-code", bh.VerifyWorkCodeHandler)
		api.POST("/:id/complete", bh.CompleteHandler)
		api.POST("/:id/payment", bh.PaymentHandler)
		api.POST("/:id/dispute", bh.DisputeHandler)
		api.POST("/:id/damage", bh.DamageHandler)
	}
}

// SetupRouter assembles the Gin engine with shared middleware.
func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-reservation/controllers"
	"hotel-reservation/middleware"
)

type Controllers struct {
	Reservations  *controllers.ReservationController
	Rooms         *controllers.RoomController
	Customers     *controllers.CustomerController
	Notifications *controllers.NotificationController
}

func SetupRouter(ctl Controllers, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

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
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
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
			rc := ctl.Reservations
			reservations.GET("", rc.ListReservations)
			reservations.POST("", rc.CreateReservation)
			reservations.GET("/:id", rc.GetReservation)
			reservations.GET("/:id/actions", rc.ListActions)
			reservations.POST("/:id/cancel", rc.Cancel())
			reservations.POST("/:id/check-in", rc.CheckIn())
			reservations.POST("/:id/check-out", rc.CheckOut())
			reservations.POST("/:id/pay", rc.MarkPaid())
			reservations.POST("/:id/refund", rc.Refund())
		}

		customers := api.Group("/customers")
		{
			customers.POST("", ctl.Customers.CreateCustomer)

			// must be registered before /:id
			customers.GET("/lookup", ctl.Customers.LookupCustomer)

			customers.GET("/:id", ctl.Customers.GetCustomer)
			customers.PATCH("/:id/active", ctl.Customers.SetActive)
			customers.GET("/:id/reservations", ctl.Reservations.ListCustomerReservations)
			customers.GET("/:id/reservations/history", ctl.Reservations.ListCustomerHistory)
			customers.POST("/:id/reservations/:reservationId/cancel", ctl.Reservations.CancelByCustomer)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.GetRooms)
			rooms.POST("", ctl.Rooms.CreateRoom)
			rooms.GET("/availability", ctl.Rooms.SearchAvailability)
			rooms.PATCH("/:id/status", ctl.Rooms.UpdateRoomStatus)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", ctl.Notifications.ListNotifications)
			notifications.PATCH("/:id/read", ctl.Notifications.MarkRead)
			notifications.POST("/read-all", ctl.Notifications.MarkAllRead)
		}
	}

	return r
}

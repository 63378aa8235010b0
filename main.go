package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"hotel-reservation/config"
	"hotel-reservation/controllers"
	"hotel-reservation/routes"
	"hotel-reservation/services"
)

func main() {
	settings := config.Load()

	store, err := config.ConnectDatabase(settings)
	if err != nil {
		log.Fatalf("❌ Store setup failed: %v", err)
	}
	log.Printf("✅ Store ready (driver=%s)", settings.StoreDriver)

	if settings.SeedData {
		if err := config.SeedDatabase(context.Background(), store); err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	opts := []services.Option{
		services.WithStoreTimeout(settings.StoreTimeout),
		services.WithReadBackoff(settings.ReadRetryBackoff),
	}

	var redisClient *redis.Client
	if settings.RedisURL != "" {
		redisClient, err = config.ConnectRedis(context.Background(), settings.RedisURL)
		if err != nil {
			log.Fatalf("❌ Redis connect failed: %v", err)
		}
		opts = append(opts, services.WithRoomLocker(services.NewRedisRoomLocker(redisClient, settings.RoomLockTTL)))
		log.Println("✅ Room locks held in Redis")
	}

	senders := []services.Sender{services.NewStoreSender(store.Notifications())}
	if settings.MailEnabled() {
		senders = append(senders, services.NewMailSender(settings.SMTP))
		log.Printf("✅ Email notifications via %s:%d", settings.SMTP.Host, settings.SMTP.Port)
	} else {
		log.Println("⚠️  SMTP_HOST not set; notifications are in-app only")
	}
	opts = append(opts, services.WithNotifier(services.NewNotifier(store.Staff(), senders...)))

	// Initialize services
	reservationService := services.NewReservationService(store, opts...)
	customerService := services.NewCustomerService(store)
	roomService := services.NewRoomService(store)
	notificationService := services.NewNotificationService(store.Notifications())

	router := routes.SetupRouter(routes.Controllers{
		Reservations:  controllers.NewReservationController(reservationService, customerService),
		Rooms:         controllers.NewRoomController(roomService, reservationService),
		Customers:     controllers.NewCustomerController(customerService),
		Notifications: controllers.NewNotificationController(notificationService),
	}, settings.CORSOrigins)

	addr := ":" + settings.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("⚠️  closing store: %v", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("⚠️  closing redis: %v", err)
		}
	}

	log.Println("✅ Server stopped gracefully")
}

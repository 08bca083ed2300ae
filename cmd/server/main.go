package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"care-admin-service/internal/config"
	"care-admin-service/internal/controller"
	"care-admin-service/internal/geocode"
	"care-admin-service/internal/middleware"
	"care-admin-service/internal/rabbit"
	"care-admin-service/internal/repository"
	"care-admin-service/internal/service"
	"care-admin-service/internal/store"
)

func main() {
	cfg := config.Load()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Un solo store configurado al arranque; se inyecta explícito en cada
	// componente, nada de singletons importados.
	recordStore := store.NewMongoStore(db)

	// Repositorios y servicios
	orderRepo := repository.NewOrderRepository(recordStore)
	pathologyRepo := repository.NewPathologyRepository(recordStore)
	hospitalRepo := repository.NewHospitalRepository(recordStore)
	adminRepo := repository.NewAdminRepository(recordStore)

	bookingService, err := service.NewBookingService(orderRepo, cfg.BookingTZ)
	if err != nil {
		log.Fatal(err)
	}
	partnerService := service.NewPartnerService(pathologyRepo)
	hospitalService := service.NewHospitalService(hospitalRepo)
	authService := service.NewAuthService(adminRepo, cfg.OTPCode)
	dashboardService := service.NewDashboardService(orderRepo, pathologyRepo, hospitalRepo)
	geocoder := geocode.New(cfg.GeocodeURL)

	// Handlers
	ctrl := controller.New(bookingService, partnerService, hospitalService, authService, dashboardService, geocoder)

	// Router
	r := gin.Default()

	// Rutas públicas
	r.POST("/auth/login", ctrl.Login)
	r.POST("/auth/verify-otp", ctrl.VerifyOTP)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rutas protegidas (requieren sesión)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(authService))

	auth.GET("/orders", ctrl.GetOrders)
	auth.GET("/orders/stream", ctrl.StreamOrders)
	auth.PATCH("/orders/:orderId/booking", ctrl.UpdateBooking)

	auth.GET("/pathologies", ctrl.GetPathologies)
	auth.GET("/pathologies/unverified", ctrl.GetUnverifiedPathologies)
	auth.GET("/pathologies/stream", ctrl.StreamPathologies)
	auth.POST("/pathologies/:id/verify", ctrl.VerifyPathology)
	auth.GET("/pathologies/:id/transactions", ctrl.GetPathologyTransactions)

	auth.GET("/hospitals", ctrl.GetHospitals)
	auth.POST("/hospitals", ctrl.RegisterHospital)

	auth.GET("/geocode", ctrl.Geocode)
	auth.GET("/dashboard/summary", ctrl.GetDashboardSummary)
	auth.GET("/wallet/summary", ctrl.GetWalletSummary)

	// Conexión a RabbitMQ (feed del flujo de reservas externo)
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("Error conectando a RabbitMQ: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Error creando canal en RabbitMQ: %v", err)
	}

	rabbit.SetupConsumers(ch, orderRepo)

	// Ejecutar servidor
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Care Admin Service ejecutándose en puerto %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-rootCtx.Done()
	log.Println("Apagando servidor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Shutdown falló: %v", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Println("Error cerrando Mongo:", err)
	}
	conn.Close()
}

// @title           Design Commerce Backend API
// @version         1.0.0
// @description     Commerce and fulfillment core for interior design projects. Handles the cart lifecycle, design estimates, milestone payments via Razorpay, the order ledger and delivery tracking.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log"
	"net/http"

	"design-commerce-backend/internal/catalog"
	"design-commerce-backend/internal/config"
	"design-commerce-backend/internal/database"
	"design-commerce-backend/internal/handlers"
	"design-commerce-backend/internal/middleware"
	"design-commerce-backend/internal/notify"
	"design-commerce-backend/internal/postgres"
	"design-commerce-backend/internal/razorpay"
	"design-commerce-backend/internal/registry"
	"design-commerce-backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database connection string
	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		log.Println("Warning: DATABASE_URL not set. Migrations will be skipped.")
		log.Println("Please set DATABASE_URL environment variable with your PostgreSQL connection string")
	}

	// Initialize gateway and collaborator clients
	gatewayClient := razorpay.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	var catalogClient *catalog.Client
	if cfg.CatalogBaseURL != "" {
		catalogClient = catalog.NewClient(cfg.CatalogBaseURL)
	} else {
		log.Println("Warning: CATALOG_BASE_URL not set. Cart lines will rely on client snapshots only.")
	}

	var registryClient *registry.Client
	if cfg.RegistryBaseURL != "" {
		registryClient = registry.NewClient(cfg.RegistryBaseURL)
	} else {
		log.Println("Warning: REGISTRY_BASE_URL not set. Rough estimates cannot be auto-generated.")
	}

	// Initialize the event publisher (optional; commerce keeps working without it)
	var publisher *notify.Publisher
	if cfg.RabbitMQURL != "" {
		publisher, err = notify.NewPublisher(cfg.RabbitMQURL, cfg.EventExchange)
		if err != nil {
			log.Printf("Warning: Failed to connect to RabbitMQ: %v", err)
			log.Println("Commerce events will not be published.")
		} else {
			defer publisher.Close()
		}
	} else {
		log.Println("Warning: RABBITMQ_URL not set. Commerce events will not be published.")
	}

	// Create database client for direct queries
	var dbClient *postgres.DatabaseClient
	if dbURL != "" {
		var err error
		dbClient, err = postgres.NewDatabaseClient(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize database client: %v", err)
			log.Println("Database operations will be limited. Please configure DATABASE_URL properly.")
		} else {
			defer dbClient.Close()

			// Run migrations
			migrator, err := database.NewMigrator(dbURL)
			if err != nil {
				log.Printf("Warning: Failed to initialize migrator: %v", err)
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					log.Printf("Warning: Migration failed: %v", err)
				} else {
					log.Println("Migrations completed successfully")
				}
			}
		}
	}

	// Initialize services (only if dbClient is available)
	var cartService *services.CartService
	var estimateService *services.EstimateService
	var paymentService *services.PaymentService
	var orderService *services.OrderService
	var fulfillmentService *services.FulfillmentService
	if dbClient != nil {
		var events services.EventPublisher
		if publisher != nil {
			events = publisher
		}
		var productCatalog services.ProductCatalog
		if catalogClient != nil {
			productCatalog = catalogClient
		}
		var areaRegistry services.AreaRegistry
		if registryClient != nil {
			areaRegistry = registryClient
		}

		cartService = services.NewCartService(dbClient, productCatalog, events)
		estimateService = services.NewEstimateService(dbClient, dbClient, areaRegistry, cfg.GSTPct)
		paymentService = services.NewPaymentService(dbClient, dbClient, dbClient, cartService, gatewayClient, events, cfg.Currency)
		orderService = services.NewOrderService(dbClient, cartService, paymentService, events)
		fulfillmentService = services.NewFulfillmentService(dbClient, events)
	}

	// Initialize handlers (services might be nil, handlers should handle this)
	cartHandler := handlers.NewCartHandler(cartService)
	estimatesHandler := handlers.NewEstimatesHandler(estimateService)
	ordersHandler := handlers.NewOrdersHandler(orderService, fulfillmentService, cfg.RazorpayKeyID, cfg.Currency)
	paymentsHandler := handlers.NewPaymentsHandler(paymentService, cfg.RazorpayKeyID, cfg.Currency)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware())

	// Health check and metrics (no auth)
	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Cart routes
	api.GET("/cart", cartHandler.GetCart)
	api.POST("/cart/items", cartHandler.AddItem)
	api.PATCH("/cart/items/:line_id", cartHandler.UpdateItem)
	api.DELETE("/cart/items", cartHandler.RemoveItem)

	// Estimate routes
	api.GET("/projects/:project_id/estimate", estimatesHandler.GetEstimate)
	api.POST("/projects/:project_id/estimates", estimatesHandler.GenerateEstimate)
	api.GET("/projects/:project_id/unlock-state", estimatesHandler.GetUnlockState)

	// Checkout and orders
	api.POST("/checkout", ordersHandler.Checkout)
	api.GET("/orders", ordersHandler.ListOrders)
	api.GET("/orders/:order_id", ordersHandler.GetOrder)
	api.POST("/orders/:order_id/delivery", ordersHandler.AdvanceDelivery)

	// Payments
	api.POST("/payments/intent", paymentsHandler.CreateIntent)
	api.POST("/payments/verify", paymentsHandler.VerifyPayment)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"tradedocs/internal/caching"
	"tradedocs/internal/handlers"
	"tradedocs/internal/jobs/background"
	"tradedocs/internal/repositories"
	"tradedocs/internal/services"
	"tradedocs/pkg/database"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(context.Background(), databaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			redisDB = db
		}
	}
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB, log)

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	minioBucket := os.Getenv("MINIO_BUCKET")
	if minioBucket == "" {
		minioBucket = "tradedocs"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	storageSvc, err := services.NewStorageService(minioEndpoint, minioAccessKey, minioSecretKey, minioBucket, useSSL)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize object storage")
	}
	if err := storageSvc.EnsureBucket(context.Background()); err != nil {
		log.WithError(err).Fatal("failed to prepare storage bucket")
	}

	// Display numbers carry this prefix, e.g. Tsol-00042.
	invoicePrefix := os.Getenv("INVOICE_PREFIX")

	// Repositories
	companyRepo := repositories.NewCompanyRepo(pool)
	buyerRepo := repositories.NewBuyerRepo(pool)
	locationRepo := repositories.NewLocationRepo(pool)
	itemRepo := repositories.NewItemRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	challanRepo := repositories.NewChallanRepo(pool)
	transportRepo := repositories.NewTransportRepo(pool)
	confirmationRepo := repositories.NewConfirmationRepo(pool)
	activityRepo := repositories.NewActivityRepo(pool)

	// Services
	activitySvc := services.NewActivityService(activityRepo, log)
	companySvc := services.NewCompanyService(companyRepo, cacheSvc, storageSvc, log)
	partySvc := services.NewPartyService(buyerRepo, locationRepo)
	itemSvc := services.NewItemService(itemRepo)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, itemRepo, buyerRepo, locationRepo, companySvc, activitySvc, invoicePrefix, log)
	workflowSvc := services.NewWorkflowService(invoiceRepo, challanRepo, transportRepo, confirmationRepo, companySvc, storageSvc, activitySvc, log)
	spreadsheetSvc := services.NewSpreadsheetService(itemSvc, partySvc, invoiceSvc, workflowSvc, invoiceRepo, itemRepo, buyerRepo, locationRepo, log)

	// Handlers
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc)
	workflowHandlers := handlers.NewWorkflowHandlers(workflowSvc)
	partyHandlers := handlers.NewPartyHandlers(partySvc)
	itemHandlers := handlers.NewItemHandlers(itemSvc)
	companyHandlers := handlers.NewCompanyHandlers(companySvc)
	spreadsheetHandlers := handlers.NewSpreadsheetHandlers(spreadsheetSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(invoiceRepo, activitySvc, cacheSvc, log)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, storageSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(invoiceRepo, cacheSvc, log)
	if err != nil {
		log.WithError(err).Fatal("failed to create job scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.WithError(err).Warn("failed to stop job scheduler")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	v1 := e.Group("/v1")

	// Company profile
	v1.GET("/company", companyHandlers.GetProfile)
	v1.PUT("/company", companyHandlers.UpdateProfile)
	v1.POST("/company/signature", companyHandlers.UploadSignature)

	// Item master
	v1.GET("/items", itemHandlers.ListItems)
	v1.POST("/items", itemHandlers.CreateItem)
	v1.POST("/items/import", spreadsheetHandlers.ImportItems)
	v1.GET("/items/:id", itemHandlers.GetItem)
	v1.PUT("/items/:id", itemHandlers.UpdateItem)
	v1.DELETE("/items/:id", itemHandlers.DeleteItem)

	// Buyers and store locations
	v1.GET("/buyers", partyHandlers.ListBuyers)
	v1.POST("/buyers", partyHandlers.CreateBuyer)
	v1.POST("/buyers/import", spreadsheetHandlers.ImportBuyers)
	v1.GET("/buyers/:id", partyHandlers.GetBuyer)
	v1.PUT("/buyers/:id", partyHandlers.UpdateBuyer)
	v1.DELETE("/buyers/:id", partyHandlers.DeleteBuyer)
	v1.GET("/locations", partyHandlers.ListLocations)
	v1.POST("/locations", partyHandlers.CreateLocation)
	v1.POST("/locations/import", spreadsheetHandlers.ImportLocations)
	v1.GET("/locations/:id", partyHandlers.GetLocation)
	v1.PUT("/locations/:id", partyHandlers.UpdateLocation)
	v1.DELETE("/locations/:id", partyHandlers.DeleteLocation)

	// Invoices
	v1.GET("/invoices", invoiceHandlers.ListInvoices)
	v1.POST("/invoices", invoiceHandlers.CreateInvoice)
	v1.GET("/invoices/export", spreadsheetHandlers.ExportInvoices)
	v1.POST("/invoices/import", spreadsheetHandlers.ImportInvoices)
	v1.GET("/invoices/trash", invoiceHandlers.ListTrash)
	v1.DELETE("/invoices/trash/:id", invoiceHandlers.PurgeInvoice)
	v1.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	v1.PUT("/invoices/:id", invoiceHandlers.UpdateInvoice)
	v1.DELETE("/invoices/:id", invoiceHandlers.TrashInvoice)
	v1.POST("/invoices/:id/restore", invoiceHandlers.RestoreInvoice)
	v1.GET("/invoices/:id/pdf", invoiceHandlers.DownloadInvoicePDF)

	// Dispatch workflow
	v1.POST("/invoices/:id/challan", workflowHandlers.GetChallan)
	v1.PUT("/invoices/:id/challan", workflowHandlers.UpdateChallan)
	v1.GET("/invoices/:id/challan/pdf", workflowHandlers.DownloadChallanPDF)
	v1.POST("/invoices/:id/transport", workflowHandlers.GetTransport)
	v1.PUT("/invoices/:id/transport", workflowHandlers.UpdateTransport)
	v1.GET("/invoices/:id/transport/pdf", workflowHandlers.DownloadTransportPDF)
	v1.POST("/invoices/:id/confirmation", workflowHandlers.GetConfirmation)
	v1.POST("/invoices/:id/confirmation/files/:kind", workflowHandlers.UploadConfirmationFile)
	v1.POST("/invoices/:id/confirmation/images", workflowHandlers.AddPackedImage)
	v1.GET("/invoices/:id/confirmation/images", workflowHandlers.ListPackedImages)
	v1.DELETE("/invoices/:id/confirmation/images/:imageID", workflowHandlers.DeletePackedImage)
	v1.POST("/invoices/:id/finalize", workflowHandlers.Finalize)
	v1.GET("/invoices/:id/confirmation/pdf", workflowHandlers.DownloadCombined)

	// Dashboard
	v1.GET("/dashboard/counts", dashboardHandlers.GetCounts)
	v1.GET("/dashboard/activity", dashboardHandlers.RecentActivity)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("starting server")
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", port)))
}

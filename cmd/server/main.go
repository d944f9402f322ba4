package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogentity "github.com/drapehq/drapehq/internal/catalog/entity"
	cataloghandler "github.com/drapehq/drapehq/internal/catalog/handler"
	catalogrepo "github.com/drapehq/drapehq/internal/catalog/repository"
	catalogsvc "github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/drapehq/drapehq/internal/config"
	crmentity "github.com/drapehq/drapehq/internal/crm/entity"
	crmhandler "github.com/drapehq/drapehq/internal/crm/handler"
	crmrepo "github.com/drapehq/drapehq/internal/crm/repository"
	crmsvc "github.com/drapehq/drapehq/internal/crm/service"
	"github.com/drapehq/drapehq/internal/middleware"
	"github.com/drapehq/drapehq/internal/shared/notify"
	"github.com/drapehq/drapehq/internal/shared/storage"
	"github.com/drapehq/drapehq/internal/sse"
	storeentity "github.com/drapehq/drapehq/internal/store/entity"
	storehandler "github.com/drapehq/drapehq/internal/store/handler"
	storerepo "github.com/drapehq/drapehq/internal/store/repository"
	storesvc "github.com/drapehq/drapehq/internal/store/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const reminderWindow = time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting drapehq service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Redis unavailable, token revocation and caching degraded", zap.Error(err))
	}

	files, err := storage.New(storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		UseSSL:    cfg.MinIO.UseSSL,
		Bucket:    cfg.MinIO.Bucket,
	})
	if err != nil {
		zapLogger.Fatal("Failed to connect to MinIO", zap.Error(err))
	}
	if files.Enabled() {
		if err := files.EnsureBucket(context.Background()); err != nil {
			zapLogger.Warn("MinIO bucket check failed", zap.Error(err))
		}
	}

	notifier := notify.NewClient(cfg.Webhook.URL, cfg.Webhook.Secret, zapLogger)
	sse.GlobalHub.SetLogger(zapLogger)

	catalogRepos := catalogrepo.NewRepositories(db)
	catalogServices := catalogsvc.NewServices(catalogRepos, rdb)
	catalogHandlers := cataloghandler.NewHandlers(catalogServices)

	crmRepos := crmrepo.NewRepositories(db)
	crmServices := crmsvc.NewServices(crmRepos, catalogServices, rdb, cfg, notifier, zapLogger)
	crmHandlers := crmhandler.NewHandlers(crmServices)

	storeRepo := storerepo.NewStorefrontRepository(db)
	storeServices := storesvc.NewServices(storeRepo, catalogServices.Material, files, zapLogger)
	storeHandlers := storehandler.NewHandlers(storeServices)

	seedDefaults(db, crmRepos, catalogRepos, zapLogger)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, cfg, catalogHandlers, crmHandlers, storeHandlers)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: 0, // Disable for SSE long-lived connections
	}

	reminderCtx, stopReminders := context.WithCancel(context.Background())
	go runReminderLoop(reminderCtx, crmServices.Appointment, zapLogger)

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	stopReminders()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func migrate(db *gorm.DB, zapLogger *zap.Logger) error {
	if err := db.AutoMigrate(
		&crmentity.User{},
		&crmentity.Client{},
		&crmentity.Project{},
		&crmentity.Appointment{},
		&crmentity.Quote{},
		&crmentity.QuoteLineItem{},
		&catalogentity.Supplier{},
		&catalogentity.SupplierContact{},
		&catalogentity.Material{},
		&catalogentity.StockMovement{},
		&catalogentity.CurtainTemplate{},
		&catalogentity.TemplateLiningOption{},
		&catalogentity.TemplatePriceBand{},
		&catalogentity.PricingGrid{},
		&catalogentity.CostSettings{},
		&storeentity.Storefront{},
		&storeentity.StoreProduct{},
	); err != nil {
		return err
	}

	// AutoMigrate will not add composite indexes or check constraints
	migrationSQL := []string{
		"CREATE INDEX IF NOT EXISTS idx_crm_appointments_diary ON crm_appointments(assigned_to, starts_at)",
		"CREATE INDEX IF NOT EXISTS idx_crm_quote_items_quote ON crm_quote_line_items(quote_id)",
		"CREATE INDEX IF NOT EXISTS idx_catalog_movements_material ON catalog_stock_movements(material_id, created_at)",
		"ALTER TABLE crm_quotes DROP CONSTRAINT IF EXISTS crm_quotes_status_check",
		"ALTER TABLE crm_quotes ADD CONSTRAINT crm_quotes_status_check CHECK (status IN ('draft', 'sent', 'accepted', 'declined', 'expired'))",
		"ALTER TABLE crm_projects DROP CONSTRAINT IF EXISTS crm_projects_status_check",
		"ALTER TABLE crm_projects ADD CONSTRAINT crm_projects_status_check CHECK (status IN ('draft', 'quoted', 'approved', 'in_production', 'installed', 'closed', 'cancelled'))",
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("migration warning", zap.String("sql", sql), zap.Error(err))
		}
	}

	return nil
}

// seedDefaults creates the initial admin account and the cost settings
// row on first boot.
func seedDefaults(db *gorm.DB, crmRepos *crmrepo.Repositories, catalogRepos *catalogrepo.Repositories, zapLogger *zap.Logger) {
	ctx := context.Background()

	if _, err := catalogRepos.Settings.Get(ctx); err != nil {
		zapLogger.Warn("Failed to ensure cost settings", zap.Error(err))
	}

	count, err := crmRepos.User.Count(ctx)
	if err != nil {
		zapLogger.Warn("Failed to count users", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
	}
	hash, err := crmsvc.HashPassword(password)
	if err != nil {
		zapLogger.Error("Failed to hash admin password", zap.Error(err))
		return
	}

	admin := &crmentity.User{
		ID:           uuid.New().String()[:32],
		Username:     "admin",
		Name:         "Administrator",
		Email:        "admin@localhost",
		PasswordHash: hash,
		Role:         crmentity.RoleAdmin,
		Status:       crmentity.UserStatusActive,
	}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		zapLogger.Error("Failed to seed admin user", zap.Error(err))
		return
	}
	zapLogger.Info("Seeded initial admin user", zap.String("username", admin.Username))
}

// runReminderLoop periodically dispatches appointment reminders.
func runReminderLoop(ctx context.Context, appointments *crmsvc.AppointmentService, zapLogger *zap.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zapLogger.Info("Reminder loop stopped")
			return
		case <-ticker.C:
			appointments.SendDueReminders(ctx, reminderWindow)
		}
	}
}

func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	catalogH *cataloghandler.Handlers,
	crmH *crmhandler.Handlers,
	storeH *storehandler.Handlers,
) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", crmH.Auth.Login)
			auth.POST("/refresh", crmH.Auth.Refresh)
		}

		// Public storefront pages
		v1.GET("/store/:slug", storeH.Storefront.GetPublicStore)

		sseGroup := v1.Group("/sse")
		sseGroup.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			sseGroup.GET("/events", crmH.SSE.Stream)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.POST("/auth/logout", crmH.Auth.Logout)
			authorized.GET("/auth/me", crmH.Auth.Me)

			users := authorized.Group("/users")
			{
				users.GET("", crmH.User.ListUsers)
				users.GET("/:id", crmH.User.GetUser)
				users.POST("", middleware.RequireRole(crmentity.RoleAdmin), crmH.User.CreateUser)
				users.PUT("/:id", middleware.RequireRole(crmentity.RoleAdmin), crmH.User.UpdateUser)
			}

			clients := authorized.Group("/clients")
			{
				clients.GET("", crmH.Client.ListClients)
				clients.GET("/funnel", crmH.Client.Funnel)
				clients.GET("/:id", crmH.Client.GetClient)
				clients.POST("", crmH.Client.CreateClient)
				clients.PUT("/:id", crmH.Client.UpdateClient)
				clients.DELETE("/:id", crmH.Client.DeleteClient)
			}

			projects := authorized.Group("/projects")
			{
				projects.GET("", crmH.Project.ListProjects)
				projects.GET("/:id", crmH.Project.GetProject)
				projects.POST("", crmH.Project.CreateProject)
				projects.PUT("/:id", crmH.Project.UpdateProject)
				projects.PUT("/:id/status", crmH.Project.UpdateProjectStatus)
				projects.DELETE("/:id", crmH.Project.DeleteProject)
			}

			appointments := authorized.Group("/appointments")
			{
				appointments.GET("", crmH.Appointment.ListAppointments)
				appointments.GET("/schedule", crmH.Appointment.Schedule)
				appointments.GET("/:id", crmH.Appointment.GetAppointment)
				appointments.POST("", crmH.Appointment.CreateAppointment)
				appointments.PUT("/:id", crmH.Appointment.UpdateAppointment)
				appointments.PUT("/:id/status", crmH.Appointment.UpdateAppointmentStatus)
				appointments.DELETE("/:id", crmH.Appointment.DeleteAppointment)
			}

			quotes := authorized.Group("/quotes")
			{
				quotes.GET("", crmH.Quote.ListQuotes)
				quotes.GET("/:id", crmH.Quote.GetQuote)
				quotes.GET("/:id/export", crmH.Quote.ExportQuote)
				quotes.POST("", crmH.Quote.CreateQuote)
				quotes.PUT("/:id", crmH.Quote.UpdateQuote)
				quotes.PUT("/:id/status", crmH.Quote.UpdateQuoteStatus)
				quotes.DELETE("/:id", crmH.Quote.DeleteQuote)
				quotes.POST("/:id/items", crmH.Quote.AddLineItem)
				quotes.DELETE("/:id/items/:itemId", crmH.Quote.RemoveLineItem)
			}

			suppliers := authorized.Group("/suppliers")
			{
				suppliers.GET("", catalogH.Supplier.ListSuppliers)
				suppliers.GET("/:id", catalogH.Supplier.GetSupplier)
				suppliers.POST("", catalogH.Supplier.CreateSupplier)
				suppliers.PUT("/:id", catalogH.Supplier.UpdateSupplier)
				suppliers.DELETE("/:id", catalogH.Supplier.DeleteSupplier)
				suppliers.GET("/:id/contacts", catalogH.Supplier.ListContacts)
				suppliers.POST("/:id/contacts", catalogH.Supplier.CreateContact)
				suppliers.DELETE("/:id/contacts/:contactId", catalogH.Supplier.DeleteContact)
			}

			materials := authorized.Group("/materials")
			{
				materials.GET("", catalogH.Material.ListMaterials)
				materials.GET("/export", catalogH.Material.ExportMaterials)
				materials.POST("/import", catalogH.Material.ImportMaterials)
				materials.GET("/:id", catalogH.Material.GetMaterial)
				materials.POST("", catalogH.Material.CreateMaterial)
				materials.PUT("/:id", catalogH.Material.UpdateMaterial)
				materials.DELETE("/:id", catalogH.Material.DeleteMaterial)
				materials.POST("/:id/stock", catalogH.Material.AdjustStock)
				materials.GET("/:id/movements", catalogH.Material.ListMovements)
			}

			templates := authorized.Group("/curtain-templates")
			{
				templates.GET("", catalogH.Template.ListTemplates)
				templates.GET("/:id", catalogH.Template.GetTemplate)
				templates.POST("", catalogH.Template.CreateTemplate)
				templates.PUT("/:id", catalogH.Template.UpdateTemplate)
				templates.DELETE("/:id", catalogH.Template.DeleteTemplate)
			}

			grids := authorized.Group("/pricing-grids")
			{
				grids.GET("", catalogH.Grid.ListGrids)
				grids.POST("/resolve", catalogH.Grid.ResolveGrid)
				grids.POST("/diagnose", catalogH.Grid.DiagnoseGrid)
				grids.GET("/:id", catalogH.Grid.GetGrid)
				grids.POST("", catalogH.Grid.CreateGrid)
				grids.PUT("/:id", catalogH.Grid.UpdateGrid)
				grids.DELETE("/:id", catalogH.Grid.DeleteGrid)
			}

			authorized.POST("/calculations/curtain", catalogH.Calc.Calculate)

			settings := authorized.Group("/settings")
			{
				settings.GET("/costs", catalogH.Settings.GetSettings)
				settings.PUT("/costs", middleware.RequireRole(crmentity.RoleAdmin), catalogH.Settings.UpdateSettings)
			}

			stores := authorized.Group("/stores")
			{
				stores.GET("", storeH.Storefront.ListStores)
				stores.GET("/:id", storeH.Storefront.GetStore)
				stores.POST("", storeH.Storefront.CreateStore)
				stores.PUT("/:id", storeH.Storefront.UpdateStore)
				stores.PUT("/:id/publish", storeH.Storefront.PublishStore)
				stores.DELETE("/:id", storeH.Storefront.DeleteStore)
				stores.POST("/:id/products", storeH.Storefront.AddProduct)
				stores.PUT("/:id/products/:productId", storeH.Storefront.UpdateProduct)
				stores.DELETE("/:id/products/:productId", storeH.Storefront.RemoveProduct)
				stores.POST("/:id/products/:productId/image", storeH.Storefront.UploadProductImage)
			}
		}
	}
}

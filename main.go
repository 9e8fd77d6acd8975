package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jeremynbs/LumiPro-Inventory/cmd"
	"github.com/jeremynbs/LumiPro-Inventory/internal/clients"
	"github.com/jeremynbs/LumiPro-Inventory/internal/core/logger"
	"github.com/jeremynbs/LumiPro-Inventory/internal/database"
	"github.com/jeremynbs/LumiPro-Inventory/internal/database/migration"
	"github.com/jeremynbs/LumiPro-Inventory/internal/fixtures"
	"github.com/jeremynbs/LumiPro-Inventory/internal/middleware"
	"github.com/jeremynbs/LumiPro-Inventory/internal/reports"
	"github.com/jeremynbs/LumiPro-Inventory/internal/repository"
	"github.com/jeremynbs/LumiPro-Inventory/internal/stock"
	"github.com/jeremynbs/LumiPro-Inventory/internal/suppliers"
	"github.com/jeremynbs/LumiPro-Inventory/internal/users"
	"github.com/jeremynbs/LumiPro-Inventory/internal/warehouses"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/auditlog"
	"github.com/jeremynbs/LumiPro-Inventory/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		if err := migration.Migrate(dbURL, "file://"+dir, true, logger.NewLogger()); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	}

	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo)
	authorized := security.JWTMiddleware()

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))

	clients.RegisterRoutes(router, repo, authorized)
	suppliers.RegisterRoutes(router, repo, authorized)
	warehouses.RegisterRoutes(router, repo, authorized)
	fixtures.RegisterRoutes(router, repo, authorized)
	stock.RegisterRoutes(router, repo, auditLog, authorized)
	reports.RegisterRoutes(router, repo)
	users.RegisterRoutes(router, repo, authorized)
	security.NewLoginHandler(repo).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}

package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/evroute/charge-planner/internal/adapters/cache"
	"github.com/evroute/charge-planner/internal/adapters/repositories"
	"github.com/evroute/charge-planner/internal/adapters/stations"
	"github.com/evroute/charge-planner/internal/adapters/tmap"
	"github.com/evroute/charge-planner/internal/api"
	"github.com/evroute/charge-planner/internal/config"
	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/platform/db"
	"github.com/evroute/charge-planner/internal/ports"
	"github.com/evroute/charge-planner/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQL registry, Tmap, charger-status feed,
// Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	seedPath := config.Get("SEED_PATH", "data/seeds/stations.json")

	appKey := os.Getenv("TMAP_APP_KEY")
	if strings.TrimSpace(appKey) == "" {
		log.Fatal("TMAP_APP_KEY is required")
	}
	statusKey := os.Getenv("CHARGER_STATUS_KEY")
	if strings.TrimSpace(statusKey) == "" {
		log.Fatal("CHARGER_STATUS_KEY is required")
	}

	conn, repo, driver, err := openRepository()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(conn, driver, seedPath); err != nil {
		log.Fatal(err)
	}

	routeProvider, err := tmap.NewClient(appKey)
	if err != nil {
		log.Fatal(err)
	}
	statusProvider, err := stations.NewStatusClient(statusKey)
	if err != nil {
		log.Fatal(err)
	}

	// Status caching is optional; without Redis every request hits the feed.
	var statusCache ports.StatusCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		statusCache = cache.NewRedisStatusCache(redis.NewClient(&redis.Options{Addr: addr}))
	}

	planner := &services.Planner{
		Routes:      routeProvider,
		Stations:    stations.NewSQLSearcher(repo),
		Status:      statusProvider,
		StatusCache: statusCache,
		Vehicle: domain.VehicleEnergyProfile{
			CityKmPerKwh:    5.5,
			HighwayKmPerKwh: 4.4,
		},
	}

	allowedOrigins := strings.Split(config.Get("CORS_ORIGINS", "*"), ",")
	router := api.NewRouter(planner, statusProvider, statusCache, allowedOrigins)

	// Timeouts are tuned for cold-cache planning (two external APIs per run).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openRepository picks the station registry backend from DB_DRIVER:
// "sqlite" (default, local file) or "postgres" (DATABASE_URL).
func openRepository() (*sql.DB, ports.StationRepository, string, error) {
	switch driver := config.Get("DB_DRIVER", "sqlite"); driver {
	case "sqlite":
		conn, err := db.Open("sqlite", config.Get("DB_PATH", "data/app.db"))
		if err != nil {
			return nil, nil, "", err
		}
		return conn, repositories.NewSqliteStationRepository(conn), "sqlite", nil
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return nil, nil, "", fmt.Errorf("DATABASE_URL is required for DB_DRIVER=postgres")
		}
		conn, err := db.Open("pgx", dsn)
		if err != nil {
			return nil, nil, "", err
		}
		return conn, repositories.NewSQLStationRepository(conn), "pgx", nil
	default:
		return nil, nil, "", fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}

func initAndSeed(conn *sql.DB, driver, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, driver, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

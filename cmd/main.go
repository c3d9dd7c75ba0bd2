// part-time marketplace API
//
// Connects job seekers with employers posting time-bounded part-time jobs.
// Exposes a REST API for:
//   - auth (register / login), bcrypt + signed bearer tokens
//   - jobs: posting, browsing, templates, nearby search
//   - requests: apply, approve/reject with overlap cancellation
//   - profile: own profile for either role
//   - schedule/match: weekly availability vs open jobs
//
// Publishes request and job events to Redis pub/sub, keeps a Redis snapshot
// of open job slots refreshed by cron and serves gRPC health on GRPC_PORT.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/huslen0212/part-time-web-thesis/internal/auth"
	"github.com/huslen0212/part-time-web-thesis/internal/config"
	"github.com/huslen0212/part-time-web-thesis/internal/db"
	"github.com/huslen0212/part-time-web-thesis/internal/events"
	"github.com/huslen0212/part-time-web-thesis/internal/grpcserver"
	"github.com/huslen0212/part-time-web-thesis/internal/jobs"
	"github.com/huslen0212/part-time-web-thesis/internal/profile"
	"github.com/huslen0212/part-time-web-thesis/internal/requests"
	"github.com/huslen0212/part-time-web-thesis/internal/schedule"
	"github.com/huslen0212/part-time-web-thesis/internal/scheduler"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[marketplace] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[marketplace] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[marketplace] PostgreSQL: %v", err)
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("[marketplace] Migrate: %v", err)
	}
	log.Println("[marketplace] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[marketplace] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[marketplace] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[marketplace] Redis connected ✓")

	// ── Services ─────────────────────────────────────────────────────────────
	pub := events.NewRedisPublisher(rdb)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	authSvc := auth.NewService(pool, tokens, cfg.BcryptCost)
	jobSvc := jobs.NewService(pool, pub, cfg.Location())
	requestSvc := requests.NewService(requests.NewPostgresStore(pool), pub)
	profileSvc := profile.NewService(pool)
	catalog := schedule.NewCatalog(jobSvc, schedule.NewRedisCache(rdb, cfg.CatalogCacheTTL), cfg.Location())
	jobSvc.OnCreate(catalog.Invalidate)

	// ── Catalog refresh ──────────────────────────────────────────────────────
	sched := scheduler.New(scheduler.RefresherFunc(func(ctx context.Context) (int, error) {
		slots, err := catalog.Refresh(ctx)
		return len(slots), err
	}), cfg.CatalogRefreshSpec)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[marketplace] Scheduler: %v", err)
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.GET("/health", healthHandler)

	authn := auth.Authenticate(tokens)
	auth.NewHandler(authSvc).RegisterRoutes(router.Group("/auth"))
	jobs.NewHandler(jobSvc, cfg.NearbyDefaultRadiusKm).RegisterRoutes(router.Group(""), authn)

	protected := router.Group("", authn)
	requests.NewHandler(requestSvc).RegisterRoutes(protected)
	profile.NewHandler(profileSvc).RegisterRoutes(protected)
	schedule.NewHandler(catalog).RegisterRoutes(protected)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[marketplace] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[marketplace] HTTP server error: %v", err)
		}
	}()

	// ── gRPC health ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("[marketplace] gRPC listen: %v", err)
	}
	grpcSrv := grpcserver.New()
	go func() {
		log.Printf("[marketplace] gRPC health listening on :%s", cfg.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			log.Fatalf("[marketplace] gRPC server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[marketplace] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[marketplace] Shutdown error: %v", err)
	}
	grpcSrv.Stop()
	sched.Stop()
	cancel()
	log.Println("[marketplace] Stopped.")
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "marketplace",
		"version": version,
	})
}

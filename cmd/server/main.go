package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"cya/internal/api"
	"cya/internal/config"
	"cya/internal/database"
	"cya/internal/fleet"
	"cya/internal/ui"

	_ "cya/docs"
)

// @title           cya API
// @version         1.0
// @description     Container inventory for a fleet of hosts. Hosts register, report their containers and fetch the state they should converge to.

// @BasePath  /api/v1

// @securityDefinitions.apikey  HostToken
// @in                          header
// @name                        Authorization
// @description                 Token <host api key>

// @securityDefinitions.apikey  AdminKey
// @in                          header
// @name                        Authorization
// @description                 Bearer <API_KEY>

func main() {
	cfg := config.Load()

	db := database.New(cfg.DBPath)
	repo := database.NewRepository(db)
	svc := fleet.NewService(repo, fleet.WithAutoEnlist(cfg.AutoEnlist))

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Dashboard pages and the container action forms they post.
	ui.New(svc, nil).RegisterRoutes(r)

	// Host API used by agents and tooling.
	api.New(svc).RegisterRoutes(r.Group("/api/v1"), cfg.APIKey)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "NOT_FOUND",
			"message": "route not found",
		})
	})

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		log.Printf("cya server listening on %s (db: %s)", cfg.Addr, cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}

	log.Println("server stopped")
}

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/VioletaSoft/salon-scheduler/internal/config"
	dbpkg "github.com/VioletaSoft/salon-scheduler/internal/db"
	"github.com/VioletaSoft/salon-scheduler/internal/logger"
	"github.com/VioletaSoft/salon-scheduler/internal/reminder"
	"github.com/VioletaSoft/salon-scheduler/internal/routes"
)

func main() {

	cfg := config.Load()

	log := logger.New()
	defer log.Sync()

	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	reminders := reminder.NewScheduler(rdb, log, cfg.ReminderLead)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reminders.Run(ctx, 30*time.Second)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, log, reminders)

	log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

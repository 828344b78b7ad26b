package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"pos-backend/configs"
	"pos-backend/middlewares"
	"pos-backend/mq"
	"pos-backend/repository"
	"pos-backend/routes"
	"pos-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()

	// migrate
	configs.SetupDatabase()

	if err := configs.SeedAdmin(); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}
	if err := configs.SeedLookups(); err != nil {
		log.Fatalf("seed lookups failed: %v", err)
	}

	// RabbitMQ (optional — ไม่ตั้ง RABBITMQ_URL ก็รันได้ แค่ไม่ยิง event)
	var events services.EventPublisher
	if cfg.RabbitURL != "" {
		pub, err := mq.Dial(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("connect rabbitmq failed: %v", err)
		}
		defer pub.Close()
		events = pub
	} else {
		log.Println("⚠️ RABBITMQ_URL not set, kitchen events disabled")
	}

	// Core services
	orderRepo := repository.NewOrderRepository(db)
	tableRepo := repository.NewTableRepository(db)
	kitchenRepo := repository.NewKitchenRepository(db)
	session := services.NewSessionService(db, orderRepo, tableRepo, kitchenRepo, events)

	// Poller — ตัวเดียวหมุนตาม interval, หยุดตอนโดน SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	poller := services.NewStatusPoller(session, cfg.PollInterval)
	go poller.Run(ctx)

	// HTTP
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())
	routes.RegisterRoutes(r, db, cfg, session, poller)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("🚀 POS backend running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}

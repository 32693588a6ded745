package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Domenick1991/seatreserve/config"
	"github.com/Domenick1991/seatreserve/internal/bootstrap"
	"github.com/Domenick1991/seatreserve/internal/email"
	"github.com/Domenick1991/seatreserve/internal/kafka"
	"github.com/Domenick1991/seatreserve/internal/logger"
	"github.com/Domenick1991/seatreserve/internal/worker"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.New(logger.Config{}).Fatal("load config", "error", err)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Service: "seatreserve-worker"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("open storage", "error", err)
	}
	defer storage.Close()

	var wg sync.WaitGroup

	sweeper := worker.NewHoldSweeper(storage.Seats, time.Duration(cfg.Worker.HoldSweepSeconds)*time.Second, log.With("component", "hold-sweeper"))
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	topic := cfg.Kafka.NotificationsTopic
	if topic == "" {
		topic = cfg.Kafka.BookingEventsTopic
	}
	if len(cfg.Kafka.Brokers) > 0 && topic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topic)
		defer consumer.Close()

		sender := email.NewSender(log.With("component", "email"))
		handler := worker.NotificationHandler(sender, log.With("component", "notifications"))

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Consume(ctx, handler); err != nil {
				log.Error("consumer stopped", "error", err)
			}
		}()
	} else {
		log.Warn("kafka not configured, notifications disabled")
	}

	log.Info("worker started", "hold_sweep_seconds", cfg.Worker.HoldSweepSeconds, "topic", topic)
	<-ctx.Done()
	log.Info("worker shutting down")
	wg.Wait()
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"registration/internal/config"
	"registration/internal/queue"
	"registration/internal/registration"
	"registration/internal/store"
)

// Worker consumes queue messages published by the API: it records an audit
// row for each completed payment and logs new registrations.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "registration:events")
	}

	repo := registration.NewRepository(db.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		id := string(msg.Body)

		switch msg.Type {
		case queue.TypeRegistered:
			log.Printf("participant %s registered", id)

		case queue.TypePaymentCompleted:
			p, err := repo.FindByID(ctx, id)
			if err != nil {
				log.Printf("fetch participant %s failed: %v", id, err)
				continue
			}
			if p == nil {
				log.Printf("participant %s vanished before audit", id)
				continue
			}
			if err := repo.RecordPaymentAudit(ctx, p.ID, p.PaymentID, p.PaidAmount); err != nil {
				log.Printf("audit for %s failed: %v", id, err)
				continue
			}
			log.Printf("payment completed for participant %s (payment %s, amount %d)", p.ID, p.PaymentID, p.PaidAmount)

		default:
			log.Printf("skipping message type %q", msg.Type)
		}
	}

	log.Println("worker exited")
}

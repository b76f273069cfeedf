package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eco-abhi/hearth/internal/ai"
	"github.com/eco-abhi/hearth/internal/database"
	"github.com/eco-abhi/hearth/internal/images"
	"github.com/eco-abhi/hearth/internal/logging"
	"github.com/eco-abhi/hearth/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("HEARTH_LOG_LEVEL"))

	port := os.Getenv("HEARTH_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("HEARTH_DB_PATH")
	if dbPath == "" {
		dbPath = "hearth.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var aiClient *ai.Client
	if key := os.Getenv("HEARTH_GEMINI_API_KEY"); key != "" {
		aiClient, err = ai.New(ctx, key, os.Getenv("HEARTH_AI_MODEL"), logger.With("component", "ai"))
		if err != nil {
			log.Fatalf("failed to create AI client: %v", err)
		}
	} else {
		logger.Info("HEARTH_GEMINI_API_KEY not set, AI features disabled")
	}

	digestHour := 8
	if v := os.Getenv("HEARTH_DIGEST_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h < 0 || h > 23 {
			log.Fatalf("invalid HEARTH_DIGEST_HOUR: %q", v)
		}
		digestHour = h
	}

	cfg := server.Config{
		AI: aiClient,
		Images: images.Config{
			Endpoint:      os.Getenv("HEARTH_S3_ENDPOINT"),
			Bucket:        os.Getenv("HEARTH_S3_BUCKET"),
			Region:        os.Getenv("HEARTH_S3_REGION"),
			AccessKey:     os.Getenv("HEARTH_S3_ACCESS_KEY"),
			SecretKey:     os.Getenv("HEARTH_S3_SECRET_KEY"),
			PublicBaseURL: os.Getenv("HEARTH_IMAGE_BASE_URL"),
		},
		VAPIDPublicKey:  os.Getenv("HEARTH_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("HEARTH_VAPID_PRIVATE_KEY"),
		VAPIDSubscriber: os.Getenv("HEARTH_VAPID_SUBSCRIBER"),
		DigestHour:      digestHour,
	}
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		logger.Info("VAPID keys not set, push notifications disabled")
	}

	srv := server.New(db, cfg, logger)

	if n := srv.Notifier(); n != nil {
		n.Start(ctx)
		defer n.Stop()
	}

	go cleanupLoop(ctx, srv)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Hearth running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// cleanupLoop prunes expired sessions, old notification dedup records, and
// stale rate limiter entries once an hour.
func cleanupLoop(ctx context.Context, srv *server.Server) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n, err := srv.SessionStore().DeleteExpired(); err != nil {
				log.Printf("session cleanup: %v", err)
			} else if n > 0 {
				log.Printf("session cleanup: removed %d expired sessions", n)
			}
			cutoff := time.Now().UTC().AddDate(0, 0, -30)
			if _, err := srv.PushStore().PruneSentBefore(cutoff); err != nil {
				log.Printf("notification cleanup: %v", err)
			}
			srv.RateLimiter().Cleanup()
		case <-ctx.Done():
			return
		}
	}
}

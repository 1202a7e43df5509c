package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"

	"github.com/nvbf/event-seed/pkg/auth"
	"github.com/nvbf/event-seed/pkg/config"
	"github.com/nvbf/event-seed/pkg/logging"

	fakeapi "github.com/nvbf/event-seed/services/fakeapi"
)

func main() {
	cfg, err := config.LoadFakeAPIConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store fakeapi.Store = fakeapi.NewMemoryStore()
	var verifier auth.Verifier

	if cfg.FirebaseProjectID != "" {
		var opts []option.ClientOption
		if cfg.FirebaseCredentials != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseCredentials)))
		}

		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, opts...)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()
		store = fakeapi.NewFirestoreStore(firestoreClient)

		firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
		if err != nil {
			log.Fatalf("error initializing app: %v", err)
		}
		if cfg.Token == "" {
			verifier, err = auth.NewFirebaseVerifier(ctx, firebaseApp)
			if err != nil {
				log.Fatalf("error initializing auth: %v", err)
			}
		}
		logger.Info("using firestore store", "project_id", cfg.FirebaseProjectID)
	}
	if cfg.Token != "" {
		verifier = auth.StaticVerifier{Token: cfg.Token}
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := fakeapi.NewRouter(fakeapi.RouterOptions{
		Service:   fakeapi.NewFakeAPIService(store, logger),
		Verifier:  verifier,
		CORSHosts: cfg.CORSHosts,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("build router: %v", err)
	}

	if err := serve(ctx, ":"+cfg.Port, fakeapi.WithH2C(router), logger); err != nil {
		logger.Error("server stopped", "error", err)
		stop()
		os.Exit(1)
	}
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fake api listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

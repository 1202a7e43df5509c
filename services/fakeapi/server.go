package fakeapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/xerrors"

	"github.com/nvbf/event-seed/pkg/auth"
)

type RouterOptions struct {
	Service   API
	Verifier  auth.Verifier
	CORSHosts []string
	BasePath  string
	Logger    *slog.Logger
}

// NewRouter builds the fake API: health check, CORS for browser gRPC-web
// clients, optional bearer auth, RPC procedures and image uploads.
func NewRouter(opts RouterOptions) (*gin.Engine, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	corsConfig, err := corsConfig(opts.CORSHosts)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.MaxMultipartMemory = maxUploadSize
	router.Use(gin.Recovery(), requestLogger(opts.Logger), cors.New(corsConfig))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiRouter := router.Group(opts.BasePath)
	if opts.Verifier != nil {
		apiRouter.Use(auth.AuthMiddleware(opts.Verifier))
	}

	NewHTTPHandler(HTTPOptions{
		Service: opts.Service,
		Router:  apiRouter,
		Logger:  opts.Logger,
	})

	return router, nil
}

// WithH2C lets handler serve native gRPC clients over cleartext HTTP/2
// alongside HTTP/1.1 gRPC-web and upload requests.
func WithH2C(handler http.Handler) http.Handler {
	return h2c.NewHandler(handler, &http2.Server{})
}

func corsConfig(hosts []string) (cors.Config, error) {
	config := cors.DefaultConfig()
	if len(hosts) == 0 || (len(hosts) == 1 && hosts[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = hosts
		config.AllowCredentials = true
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{
		"Origin", "Content-Length", "Content-Type", "Authorization",
		"X-Grpc-Web", "X-User-Agent", "Grpc-Timeout", "Connect-Protocol-Version", "X-Seed-Run",
	}
	config.ExposeHeaders = []string{"Grpc-Status", "Grpc-Message", "Grpc-Status-Details-Bin"}

	if err := config.Validate(); err != nil {
		return cors.Config{}, xerrors.Errorf("invalid CORS config: %w", err)
	}
	return config, nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

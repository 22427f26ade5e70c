// Package httpapi serves the invoice pipeline over stateless HTTP. Every
// request carries the whole invoice; nothing is stored between requests.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/invoicekit/invoicekit/internal/application"
	"github.com/invoicekit/invoicekit/internal/domain"
)

// MaxBodyBytes bounds the size of an invoice request body.
const MaxBodyBytes = 1 << 20

// Server is the HTTP adapter. Its services must be built with an
// inline-only asset loader; requests are also refused when they carry
// file or URL image references.
type Server struct {
	svc    application.Services
	cfg    domain.HTTPConfig
	logger *zap.Logger
	engine *gin.Engine
}

func New(svc application.Services, cfg domain.HTTPConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, cfg: cfg, logger: logger}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.logger))
	// Cross-origin browsers are refused unless origins are listed.
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(s.cfg.AllowedOrigins))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1/invoices")
	if s.cfg.RateLimit > 0 {
		api.Use(newClientLimiter(s.cfg.RateLimit, s.cfg.Burst).middleware())
	}
	api.POST("/totals", s.totals)
	api.POST("/validate", s.validate)
	api.POST("/payment-uri", s.paymentURI)
	api.POST("/qr", s.qr)
	api.POST("/export", s.export)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

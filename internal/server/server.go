// Package server exposes the trading service over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	vterrors "virtual-trader/internal/errors"
	"virtual-trader/internal/trading"
)

// Server wires the gin router around the trading service.
type Server struct {
	R           *gin.Engine
	service     *trading.Service
	logger      zerolog.Logger
	defaultUser string
	httpServer  *http.Server
}

// Config holds the HTTP server configuration.
type Config struct {
	Addr        string
	CORSOrigin  string
	DefaultUser string
}

// NewServer wires the router, service, and middleware.
func NewServer(service *trading.Service, logger zerolog.Logger, cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	g := gin.New()

	// Request logging
	g.Use(func(cn *gin.Context) {
		start := time.Now()
		cn.Next()
		logger.Info().
			Str("method", cn.Request.Method).
			Str("path", cn.Request.URL.Path).
			Int("status", cn.Writer.Status()).
			Str("ip", cn.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("http_request")
	})

	g.Use(gin.Recovery())

	// CORS
	corsOrigin := cfg.CORSOrigin
	g.Use(func(cn *gin.Context) {
		origin := cn.GetHeader("Origin")
		cn.Writer.Header().Set("Vary", "Origin")
		cn.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")
		cn.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		cn.Writer.Header().Set("Access-Control-Max-Age", "86400")
		if corsOrigin == "*" {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && origin == corsOrigin {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", corsOrigin)
		}
		if cn.Request.Method == http.MethodOptions {
			cn.AbortWithStatus(http.StatusNoContent)
			return
		}
		cn.Next()
	})

	s := &Server{
		R:           g,
		service:     service,
		logger:      logger,
		defaultUser: cfg.DefaultUser,
	}

	g.GET("/health", func(cn *gin.Context) { cn.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := g.Group("/api/investment")
	api.GET("/portfolio", s.getPortfolio)
	api.POST("/trade", s.postTrade)
	api.POST("/reset", s.postReset)
	api.GET("/hot-stocks", s.getHotStocks)
	api.GET("/hot-cryptos", s.getHotCryptos)
	api.POST("/analyze", s.postAnalyze)
	api.GET("/trades", s.getTrades)
	api.GET("/stream", s.getStream)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      g,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// userID resolves the acting user from the X-User-ID header, falling
// back to the configured default account.
func (s *Server) userID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return s.defaultUser
}

// fail writes a JSON error with a status derived from the error kind:
// rejections and bad input map to 400, unknown symbols to 404, and
// upstream price failures to 502.
func (s *Server) fail(c *gin.Context, err error) {
	var ve *vterrors.ValidationError
	status := http.StatusInternalServerError
	switch {
	case vterrors.IsRejection(err), errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.Is(err, vterrors.ErrSymbolNotFound),
		errors.Is(err, vterrors.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, vterrors.ErrPriceUnavailable):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("internal_error")
	}
	c.JSON(status, gin.H{"success": false, "error": vterrors.Message(err)})
}

// Package server exposes the mouth overlay over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/esimov/ciya"
	"github.com/esimov/ciya/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server serves the ciya API.
type Server struct {
	cfg       Config
	detector  ciya.Detector
	projector *ciya.Projector
	engine    *gin.Engine
}

// New builds the gin engine. A nil projector selects the default one.
func New(cfg Config, detector ciya.Detector, projector *ciya.Projector) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if projector == nil {
		projector = ciya.DefaultProjector()
	}
	s := &Server{
		cfg:       cfg,
		detector:  detector,
		projector: projector,
		engine:    gin.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	server := s.engine
	server.Use(gin.Recovery())
	server.Use(RequestID())
	server.Use(RequestLogger())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(s.cfg.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = s.cfg.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	server.Use(cors.New(corsConfig))
	if s.cfg.RateLimit > 0 {
		server.Use(TokenBucketPerIP(s.cfg.RateLimit))
	}
	server.MaxMultipartMemory = 8 << 20 // 8 MiB

	server.GET("/ping", func(ctx *gin.Context) {
		respond(ctx, http.StatusOK, "pong!", nil, nil)
	})

	v1 := server.Group("/api/v1")
	{
		v1.POST("/ciya", s.ciya)
	}

	server.NoRoute(func(ctx *gin.Context) {
		respond(ctx, http.StatusNotFound, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL), nil, nil)
	})
}

// Handler returns the HTTP handler of the service.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server starting on PORT %s", s.cfg.Port))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down the server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Package server exposes the learning core over a JSON HTTP API. It is a thin
// delivery layer: authentication happens upstream, rendering happens in the
// client; the handlers only translate between HTTP and core operations.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/vocabdiary/internal/learning"
)

// Server is the HTTP API server
type Server struct {
	svc    *learning.Service
	logger *zap.Logger
	engine *gin.Engine
}

// New creates the server and registers all routes
func New(svc *learning.Service, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	s := &Server{svc: svc, logger: logger, engine: engine}

	api := engine.Group("/api", UserIdentity())
	{
		api.GET("/study/next", s.studyNext)
		api.GET("/training-sets", s.listTrainingSets)
		api.GET("/training-sets/:id/next", s.trainingNext)
		api.POST("/answers", s.submitAnswer)
		api.POST("/words/:id/mark-correct", s.markCorrect)
		api.POST("/training-sets/:id/master", s.masterSet)
		api.POST("/progress/reset", s.resetProgress)
		api.GET("/dashboard", s.dashboard)
		api.GET("/dashboard/chart", s.dashboardChart)
		api.GET("/profile", s.getProfile)
		api.PUT("/profile", s.updateProfile)
	}

	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Package server exposes the validation pipeline over HTTP: multipart upload
// starts a run, stored reports can be fetched as JSON or exported as XLSX.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"invoice-recon/internal/export"
	"invoice-recon/internal/pipeline"
)

type Server struct {
	log      *slog.Logger
	pipeline *pipeline.Pipeline
	export   *export.Service
	store    *RunStore
}

func New(p *pipeline.Pipeline, exp *export.Service, store *RunStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{log: logger, pipeline: p, export: exp, store: store}
}

// Router builds the gin engine with middleware and routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger())

	r.GET("/healthz", s.health)

	api := r.Group("/api/v1")
	api.POST("/runs", s.createRun)
	api.GET("/runs/:id", s.getRun)
	api.GET("/runs/:id/export", s.exportRun)

	return r
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the extraction pipeline over HTTP: upload a PDF,
// get the structured record back, browse archived runs.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/koortimativa/rgi-engine/internal/extract"
	"github.com/koortimativa/rgi-engine/internal/store"
	"github.com/koortimativa/rgi-engine/pkg/types"
)

// defaultMaxUpload bounds accepted PDF uploads when the config leaves
// MaxUploadBytes unset.
const defaultMaxUpload = 64 << 20

// BackendFactory builds a vision backend for one request's effective
// config. Tests substitute a mock here.
type BackendFactory func(cfg types.ExtractionConfig) extract.VisionBackend

// Server wires the render → extract → archive pipeline behind gin routes.
type Server struct {
	log        *zap.SugaredLogger
	newBackend BackendFactory
	archive    *store.Store
	render     types.RenderConfig
	extraction types.ExtractionConfig
	maxUpload  int64
}

// New builds a Server. archive may be nil, in which case runs are not
// persisted and the listing routes return 404.
func New(log *zap.SugaredLogger, newBackend BackendFactory, archive *store.Store, cfg types.PipelineConfig) *Server {
	maxUpload := cfg.Server.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &Server{
		log:        log,
		newBackend: newBackend,
		archive:    archive,
		render:     cfg.Render,
		extraction: cfg.Extraction,
		maxUpload:  maxUpload,
	}
}

// Engine builds the gin engine with all routes registered.
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(s.requestLogger(), gin.Recovery())
	engine.MaxMultipartMemory = s.maxUpload

	s.registerRoutes(engine)
	return engine
}

// requestLogger logs one line per request through the shared zap logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Addr normalizes a listen address: empty means ":8080", a bare port
// gets a leading colon.
func Addr(addr string) string {
	if addr == "" {
		return ":8080"
	}
	if addr[0] != ':' && !containsColon(addr) {
		return ":" + addr
	}
	return addr
}

func containsColon(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return true
		}
	}
	return false
}

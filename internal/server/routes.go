// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/koortimativa/rgi-engine/internal/extract"
	"github.com/koortimativa/rgi-engine/internal/render"
)

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.POST("/extractions", s.handleExtract)
	api.GET("/extractions", s.handleListRuns)
	api.GET("/extractions/:id", s.handleGetRun)
}

// handleExtract accepts a multipart PDF upload, runs the pipeline, and
// returns the structured record. Optional form values "model" and "dpi"
// override the configured defaults for this request.
func (s *Server) handleExtract(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'file' upload"})
		return
	}
	if fileHeader.Size > s.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds size limit"})
		return
	}

	renderCfg := s.render
	if v := c.PostForm("dpi"); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dpi"})
			return
		}
		renderCfg.DPI = dpi
	}

	extractionCfg := s.extraction
	if v := c.PostForm("model"); v != "" {
		extractionCfg.Model = v
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}

	pages, err := render.PagesFromBytes(data, renderCfg, io.Discard)
	if err != nil {
		s.log.Warnw("render failed", "document", fileHeader.Filename, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a processable PDF"})
		return
	}

	backend := s.newBackend(extractionCfg)
	doc, err := extract.Document(c.Request.Context(), backend, pages, extractionCfg, io.Discard)
	if err != nil {
		s.log.Errorw("extraction failed", "document", fileHeader.Filename, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "extraction failed: " + err.Error()})
		return
	}

	resp := gin.H{"document": fileHeader.Filename, "result": doc}
	if s.archive != nil {
		run, err := s.archive.Save(c.Request.Context(), fileHeader.Filename, extractionCfg.Model, doc)
		if err != nil {
			s.log.Errorw("archiving failed", "document", fileHeader.Filename, "error", err)
		} else {
			resp["run_id"] = run.ID
		}
	}

	c.JSON(http.StatusOK, resp)
}

// handleListRuns lists archived runs; with ?q= it searches excerpts instead.
func (s *Server) handleListRuns(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archive disabled"})
		return
	}

	if q := c.Query("q"); q != "" {
		hits, err := s.archive.Search(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"hits": hits})
		return
	}

	runs, err := s.archive.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "archive disabled"})
		return
	}

	run, err := s.archive.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, run)
}

// internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "emailbuilder/internal/common/errors"
	"emailbuilder/internal/history"
	"emailbuilder/internal/models"
	"emailbuilder/internal/pipeline"
)

// recentExamplesLimit bounds the archived generations returned alongside the
// curated example pairs.
const recentExamplesLimit = 5

// finishTimeout bounds the post-response bookkeeping (archive + delivery).
const finishTimeout = 10 * time.Second

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(c *gin.Context) {
	if s.renderer != nil {
		if err := s.renderer.Healthy(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"error":  err.Error(),
				"time":   time.Now().Format(time.RFC3339),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleTokens serves the resolved design token document for a template
// type. Unknown types and load failures resolve to the builtin defaults, so
// the endpoint always answers 200.
func (s *Server) handleTokens(c *gin.Context) {
	kind := models.TemplateType(c.Param("kind"))
	doc, err := s.tokens.Load(c.Request.Context(), kind)
	if err != nil {
		s.logger.Warn("Token lookup degraded to defaults", map[string]interface{}{
			"templateType": string(kind),
			"error":        err.Error(),
		})
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleHistoryExamples(c *gin.Context) {
	kind := models.TemplateType(c.Param("kind"))
	resp := gin.H{
		"templateType": kind,
		"examples":     history.Examples(kind),
	}
	if s.history != nil {
		recent, err := s.history.Recent(c.Request.Context(), kind, recentExamplesLimit)
		if err != nil {
			s.logger.Warn("Recent generations unavailable", map[string]interface{}{
				"templateType": string(kind),
				"error":        err.Error(),
			})
		} else {
			resp["recent"] = recent
		}
	}
	c.JSON(http.StatusOK, resp)
}

// handleUpload stores a brand guideline file and returns the ID a generate
// request references through brandGuidelineFile.
func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}

	if err := os.MkdirAll(s.config.UploadsDir, 0o755); err != nil {
		s.logger.Error("Upload directory unavailable", map[string]interface{}{
			"dir":   s.config.UploadsDir,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
		return
	}

	fileID := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(s.config.UploadsDir, fileID)); err != nil {
		s.logger.Error("Upload failed", map[string]interface{}{
			"fileId": fileID,
			"error":  err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
		return
	}

	s.logger.Info("Brand guideline stored", map[string]interface{}{
		"fileId":   fileID,
		"filename": file.Filename,
		"size":     file.Size,
	})
	c.JSON(http.StatusOK, gin.H{
		"fileId":   fileID,
		"filename": file.Filename,
		"size":     file.Size,
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	state := pipeline.NewState(req)
	state.GuidelineContent = s.readGuideline(req.BrandGuidelineFile)

	started := time.Now()
	final, err := s.pipeline.Run(c.Request.Context(), state)
	if err != nil {
		s.record("error", time.Since(started))
		c.JSON(http.StatusInternalServerError, gin.H{"error": userMessage(err)})
		return
	}

	c.JSON(http.StatusOK, final.Result())
	s.finish(final, time.Since(started))
}

// handleGenerateStream runs the pipeline while relaying its progress frames
// as Server-Sent Events. The frame sequence is owned by the runner; this
// handler only encodes and flushes.
func (s *Server) handleGenerateStream(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	state := pipeline.NewState(req)
	state.GuidelineContent = s.readGuideline(req.BrandGuidelineFile)

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("Access-Control-Allow-Origin", "*")

	emit := func(event interface{}) {
		data, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("Event serialization failed", map[string]interface{}{"error": err.Error()})
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		c.Writer.Flush()
	}

	started := time.Now()
	final, err := s.pipeline.Stream(c.Request.Context(), state, emit)
	if err != nil {
		// The runner already emitted the error frame; nothing more to send.
		s.record("error", time.Since(started))
		s.logger.Error("Streamed generation failed", map[string]interface{}{
			"requestId": state.RequestID,
			"error":     err.Error(),
		})
		return
	}
	s.finish(final, time.Since(started))
}

// finish archives the generation and hands it to delivery. It runs after the
// response is written, on a fresh context so a departed client cannot cancel
// the bookkeeping.
func (s *Server) finish(final pipeline.State, elapsed time.Duration) {
	s.record("success", elapsed)
	if s.history == nil && s.delivery == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
	defer cancel()

	record := final.Record(elapsed)
	if s.history != nil {
		if err := s.history.Archive(ctx, record); err != nil {
			s.logger.Warn("Generation archive failed", map[string]interface{}{
				"requestId": final.RequestID,
				"error":     err.Error(),
			})
		}
	}
	if s.delivery != nil {
		s.delivery.Dispatch(ctx, record, final.Request.DeliverTo, final.HTML)
	}
}

func (s *Server) record(status string, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	ctx := context.Background()
	s.recorder.RecordGenerationProcessed(ctx, status)
	s.recorder.RecordGenerationDuration(ctx, elapsed, status)
}

// readGuideline resolves an uploaded brand guideline file into its raw text.
// A missing or unreadable file degrades to no guidelines.
func (s *Server) readGuideline(fileID string) string {
	if fileID == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(s.config.UploadsDir, filepath.Base(fileID)))
	if err != nil {
		s.logger.Warn("Brand guideline file unavailable", map[string]interface{}{
			"fileId": fileID,
			"error":  err.Error(),
		})
		return ""
	}
	return string(data)
}

// userMessage strips wrapper noise from a pipeline failure before it reaches
// a client.
func userMessage(err error) string {
	var pipeErr *apperrors.PipelineError
	if stderrors.As(err, &pipeErr) {
		return pipeErr.Message
	}
	return err.Error()
}

package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoice-recon/internal/common"
	"invoice-recon/internal/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// createRun accepts a multipart upload under the "files" field, runs the
// validation pipeline synchronously, stores the report and returns it.
func (s *Server) createRun(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.ErrNoUploads.Error()})
		return
	}

	uploads := make([]entity.RawUpload, 0, len(files))
	for _, fh := range files {
		content, err := readUpload(fh)
		if err != nil {
			s.log.Warn("server.upload.read_error", "file", fh.Filename, "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("read %s: %v", fh.Filename, err)})
			return
		}
		uploads = append(uploads, entity.RawUpload{Filename: fh.Filename, Content: content})
	}

	report, err := s.pipeline.Execute(c.Request.Context(), uploads, nil)
	if err != nil {
		if errors.Is(err, common.ErrNoUploads) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Error("server.run.failed", "error", err, "request_id", GetRequestID(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "run failed"})
		return
	}

	s.store.Put(report)
	c.JSON(http.StatusCreated, report)
}

func (s *Server) getRun(c *gin.Context) {
	report, ok := s.lookupRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) exportRun(c *gin.Context) {
	report, ok := s.lookupRun(c)
	if !ok {
		return
	}
	data, err := s.export.ExportRunXLSX(report)
	if err != nil {
		s.log.Error("server.export.failed", "run_id", report.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=comparison-%s.xlsx", report.ID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (s *Server) lookupRun(c *gin.Context) (*entity.RunReport, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return nil, false
	}
	report, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return nil, false
	}
	return report, true
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(f)
}

package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/dkeye/available/internal/adapters/blob"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// multipartSlack covers the form framing around the file part.
const multipartSlack = 1 << 20

func (h *Handlers) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartSlack)
	fh, err := c.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file"})
		return
	}
	if fh.Size > h.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file"})
		return
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	name := blob.NewName(fh.Filename)
	obj, err := h.blobs.Put(c.Request.Context(), name, mt.String(), f)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("name", name).Msg("store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	log.Info().Str("module", "adapters.http").Str("name", name).Int64("size", obj.Size).Str("type", mt.String()).Msg("clip uploaded")
	c.JSON(http.StatusOK, gin.H{
		"url":      "/uploads/" + name,
		"original": fh.Filename,
		"size":     obj.Size,
	})
}

func (h *Handlers) ServeUpload(c *gin.Context) {
	rc, obj, err := h.blobs.Open(c.Request.Context(), c.Param("name"))
	if errors.Is(err, blob.ErrNotFound) || errors.Is(err, blob.ErrInvalidName) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("open upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, rc, nil)
}

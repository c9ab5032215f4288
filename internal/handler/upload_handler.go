package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitepress/internal/storage"
)

// ImageStore persists uploaded images and reports where they are served from.
type ImageStore interface {
	UploadImage(ctx context.Context, bucket, contentType string, r io.Reader) (*storage.Image, error)
}

const uploadFallbackMessage = "Failed to upload image. You can paste URL manually."

// UploadImage 处理后台表单的图片上传，失败时提示用户手动粘贴 URL
func (a *API) UploadImage(c *gin.Context) {
	if a.images == nil {
		respondError(c, http.StatusServiceUnavailable, uploadFallbackMessage)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No image provided")
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("[ERROR] open upload: %v", err)
		respondError(c, http.StatusBadRequest, uploadFallbackMessage)
		return
	}
	defer src.Close()

	image, err := a.images.UploadImage(c.Request.Context(), c.PostForm("bucket"), file.Header.Get("Content-Type"), src)
	if err != nil {
		log.Printf("[ERROR] upload image: %v", err)
		var uploadErr *storage.UploadError
		if errors.As(err, &uploadErr) {
			status := http.StatusBadRequest
			if errors.Is(err, storage.ErrTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			respondError(c, status, uploadFallbackMessage)
			return
		}
		respondError(c, http.StatusInternalServerError, uploadFallbackMessage)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded successfully",
		"url":     image.URL,
		"image":   image,
	})
}

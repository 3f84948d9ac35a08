package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aurawell/storefront/internal/api/metrics"
	"github.com/aurawell/storefront/internal/core/domain"
	"github.com/aurawell/storefront/internal/core/ports"
)

const imageCacheControl = "public, max-age=86400"

type ImageHandler struct {
	images ports.ImageService
	log    zerolog.Logger
}

func NewImageHandler(images ports.ImageService, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{images: images, log: log}
}

// Upload stores a product image sent as multipart field "image".
//
// @Summary      Upload a product image
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "jpg, jpeg, png, gif or webp"
// @Success      200    {object}  uploadResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      413    {object}  errorResponse
// @Router       /upload/image [post]
func (h *ImageHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No image file provided")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload image: "+err.Error())
	}
	defer f.Close()

	name, url, err := h.images.Upload(c.Request().Context(), fh.Filename, fh.Size, f)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidImage) || errors.Is(err, domain.ErrImageTooLarge) {
			return err
		}
		h.log.Error().Err(err).Str("request_id", requestID(c)).Str("file", fh.Filename).Msg("image upload failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to upload image: "+err.Error())
	}

	metrics.ImagesUploadedTotal.Inc()
	return c.JSON(http.StatusOK, uploadResponse{
		Success:  true,
		Message:  "Image uploaded successfully",
		ImageURL: url,
		FileName: name,
	})
}

// Serve streams a stored image.
//
// @Summary      Get a product image
// @Tags         images
// @Produce      image/jpeg,image/png,image/gif,image/webp
// @Param        name  path  string  true  "Stored file name"
// @Success      200
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /images/{name} [get]
func (h *ImageHandler) Serve(c echo.Context) error {
	name := c.Param("name")
	rc, err := h.images.Open(c.Request().Context(), name)
	if err != nil {
		return err
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Response().Header().Set("Cache-Control", imageCacheControl)
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), rc)
	return err
}

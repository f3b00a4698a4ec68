package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hamzat06/esk-sub000/internal/utils/logger"
)

const maxImageSize = 5 << 20 // 5 MiB

type UploadHandler struct {
	log *logger.Logger
}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{log: logger.New("upload_handler")}
}

// UploadImage stores a product image and returns the storage key to put on
// the product row. The signed URL customers see is minted on read, so the
// response key is opaque.
// @Summary Upload a product image
// @Description Upload an image for a catalog product
// @Tags admin-products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image to upload"
// @Success 200 {object} map[string]string "Storage key"
// @Failure 400 {object} map[string]string "No file or unsupported type"
// @Failure 403 {object} map[string]string "Missing products permission"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/products/image [post]
func (h *UploadHandler) UploadImage(c echo.Context) error {
	contentType := c.Request().Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Content-Type must be multipart/form-data",
		})
	}

	storage := GetImageStorage()
	if storage == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Image storage not configured",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file provided"})
	}

	if file.Size > maxImageSize {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Image exceeds 5MB limit"})
	}

	fileType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(fileType, "image/") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Only image uploads are accepted"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to open file"})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read file"})
	}

	key, err := storage.UploadImage(c.Request().Context(), content, file.Filename, fileType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to upload image"})
	}

	h.log.Success("Product image stored at %s", key)

	return c.JSON(http.StatusOK, map[string]string{"imagePath": key})
}

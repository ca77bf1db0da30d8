package files

import (
	"errors"
	"time"

	"filestore/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for file operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the file routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/files")
	group.Get("/", h.HandleList)
	group.Delete("/", h.HandleCleanup)
	group.Get("/url/*", h.HandleURL)
	group.Get("/download/*", h.HandleDownload)
	group.Post("/*", h.HandleUpload)
	group.Delete("/*", h.HandleDelete)
}

// HandleList lists files under a prefix.
// @Summary List Files
// @Description Lists objects under a prefix, decorated with presigned download URLs. Pass urls=false to skip URL generation. Results are capped at one listing page.
// @Tags files
// @Accept json
// @Produce json
// @Param prefix query string false "Key prefix to enumerate"
// @Param urls query boolean false "Include presigned URLs (default true)"
// @Success 200 {object} map[string]interface{} "File listing"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /files [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	prefix := c.Query("prefix")
	withURLs := c.Query("urls") != "false"

	var (
		records []FileRecord
		err     error
	)
	if withURLs {
		records, err = h.service.List(c.Context(), prefix)
	} else {
		records, err = h.service.ListWithoutURLs(c.Context(), prefix)
	}
	if err != nil {
		l.Error("List failed", zap.String("prefix", prefix), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"files": records,
		"count": len(records),
	})
}

// HandleUpload stores the request body as an object.
// @Summary Upload File
// @Description Stores the raw request body under the given key. The Content-Type header is persisted with the object.
// @Tags files
// @Accept octet-stream
// @Produce json
// @Param key path string true "Object key"
// @Success 201 {object} map[string]string "Key and presigned URL"
// @Failure 400 {object} map[string]string "Missing key"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /files/{key} [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	key := c.Params("*")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "object key is required"})
	}

	contentType := c.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.service.Upload(c.Context(), c.Body(), key, contentType)
	if err != nil {
		l.Error("Upload failed", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"key": key,
		"url": url,
	})
}

// HandleDownload streams an object's content.
// @Summary Download File
// @Description Streams the object's content back to the caller.
// @Tags files
// @Produce octet-stream
// @Param key path string true "Object key"
// @Success 200 {file} binary "Object content"
// @Failure 400 {object} map[string]string "Missing key"
// @Failure 404 {object} map[string]string "Object not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /files/download/{key} [get]
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	key := c.Params("*")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "object key is required"})
	}

	obj, size, contentType, err := h.service.Download(c.Context(), key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Download failed", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.SendStream(obj, int(size))
}

// HandleURL generates a presigned download URL.
// @Summary Get Presigned URL
// @Description Produces a time-limited download URL for a key. The expires query parameter is in seconds; omitted or zero uses the configured default.
// @Tags files
// @Accept json
// @Produce json
// @Param key path string true "Object key"
// @Param expires query integer false "Expiry in seconds"
// @Success 200 {object} map[string]string "Key and URL"
// @Failure 400 {object} map[string]string "Missing key"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /files/url/{key} [get]
func (h *Handler) HandleURL(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	key := c.Params("*")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "object key is required"})
	}

	expires := time.Duration(c.QueryInt("expires", 0)) * time.Second

	url, err := h.service.PresignedURL(c.Context(), key, expires)
	if err != nil {
		l.Error("Presign failed", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"key": key,
		"url": url,
	})
}

// HandleDelete removes a single object.
// @Summary Delete File
// @Description Removes an object. Deleting a missing key succeeds.
// @Tags files
// @Accept json
// @Produce json
// @Param key path string true "Object key"
// @Success 200 {object} map[string]string "Deletion status"
// @Failure 400 {object} map[string]string "Missing key"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /files/{key} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	key := c.Params("*")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "object key is required"})
	}

	if err := h.service.Delete(c.Context(), key); err != nil {
		l.Error("Delete failed", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "deleted",
		"key":    key,
	})
}

// HandleCleanup removes every object under a prefix.
// @Summary Cleanup Prefix
// @Description Removes every object under the given prefix. Used for workspace teardown.
// @Tags files
// @Accept json
// @Produce json
// @Param prefix query string true "Key prefix to remove"
// @Success 200 {object} map[string]interface{} "Cleanup report"
// @Failure 400 {object} map[string]string "Missing prefix"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /files [delete]
func (h *Handler) HandleCleanup(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	prefix := c.Query("prefix")
	if prefix == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "prefix is required"})
	}

	removed, err := h.service.Cleanup(c.Context(), prefix)
	if err != nil {
		l.Error("Cleanup failed", zap.String("prefix", prefix), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   err.Error(),
			"removed": removed,
		})
	}

	return c.JSON(fiber.Map{
		"status":  "cleaned",
		"prefix":  prefix,
		"removed": removed,
	})
}

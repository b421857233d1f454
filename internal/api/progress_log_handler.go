package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/service"
)

type ProgressLogHandler struct {
	progressService service.ProgressLogService
	logg            *logger.Logger
}

func NewProgressLogHandler(progressService service.ProgressLogService, logg *logger.Logger) *ProgressLogHandler {
	return &ProgressLogHandler{progressService: progressService, logg: logg}
}

func (h *ProgressLogHandler) ListLogs(c *gin.Context) {
	clientID, ok := uuidQuery(c, h.logg, "clientId")
	if !ok {
		return
	}
	logs, err := h.progressService.List(c.Request.Context(), mustActor(c), clientID)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(logs))
}

func (h *ProgressLogHandler) GetLog(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "logId")
	if !ok {
		return
	}
	entry, err := h.progressService.Get(c.Request.Context(), mustActor(c), id)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ProgressLogHandler) CreateLog(c *gin.Context) {
	var req domain.ProgressLogInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	entry, err := h.progressService.Create(c.Request.Context(), mustActor(c), req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *ProgressLogHandler) UpdateLog(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "logId")
	if !ok {
		return
	}
	var patch domain.ProgressLogPatch
	if !bindJSON(c, h.logg, &patch) {
		return
	}
	entry, err := h.progressService.Update(c.Request.Context(), mustActor(c), id, patch)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *ProgressLogHandler) DeleteLog(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "logId")
	if !ok {
		return
	}
	if err := h.progressService.Delete(c.Request.Context(), mustActor(c), id); err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestPhotoUpload godoc
// @Summary Get a presigned URL for uploading a progress photo
// @Description The client PUTs the file to uploadUrl, then confirms it with POST /progress-logs/{logId}/photos.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param logId path string true "Progress log ID"
// @Param request body domain.PhotoUploadRequest true "File details"
// @Success 200 {object} domain.PhotoUploadTicket
// @Failure 503 {object} errorResponse "Photo storage is not configured"
// @Router /progress-logs/{logId}/photos/upload-url [post]
func (h *ProgressLogHandler) RequestPhotoUpload(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "logId")
	if !ok {
		return
	}
	var req domain.PhotoUploadRequest
	if !bindJSON(c, h.logg, &req) {
		return
	}
	ticket, err := h.progressService.RequestPhotoUpload(c.Request.Context(), mustActor(c), id, req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *ProgressLogHandler) ConfirmPhotoUpload(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "logId")
	if !ok {
		return
	}
	var req domain.PhotoConfirmation
	if !bindJSON(c, h.logg, &req) {
		return
	}
	photo, err := h.progressService.ConfirmPhotoUpload(c.Request.Context(), mustActor(c), id, req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (h *ProgressLogHandler) ListPhotos(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "logId")
	if !ok {
		return
	}
	photos, err := h.progressService.ListPhotos(c.Request.Context(), mustActor(c), id)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(photos))
}

func (h *ProgressLogHandler) DeletePhoto(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "photoId")
	if !ok {
		return
	}
	if err := h.progressService.DeletePhoto(c.Request.Context(), mustActor(c), id); err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.Status(http.StatusNoContent)
}

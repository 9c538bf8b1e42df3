package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dailynotes/notes-api/internal/api/metrics"
	"github.com/dailynotes/notes-api/internal/core/ports"
)

type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Presign returns a pre-signed PUT URL for a note image.
//
// @Summary      Pre-sign an image upload
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      presignRequest  true  "Image to upload"
// @Success      200   {object}  presignResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /uploads/presign [post]
func (h *UploadHandler) Presign(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req presignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.Presign(c.Request().Context(), ports.PresignInput{
		UserID:      userID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		return err
	}

	metrics.UploadURLsIssuedTotal.Inc()
	return c.JSON(http.StatusOK, presignResponse{
		UploadURL: res.UploadURL,
		ObjectKey: res.ObjectKey,
		ExpiresIn: int64(res.ExpiresIn.Seconds()),
	})
}

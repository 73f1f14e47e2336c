package handler

import (
	"log/slog"
	"net/http"

	"github.com/beathaus/jobs-be/internal/api/dto"
	"github.com/beathaus/jobs-be/internal/api/service"
	"github.com/gin-gonic/gin"
)

// UploadHandler issues presigned upload URLs for reference attachments.
type UploadHandler struct {
	logger *slog.Logger
	signer *service.UploadSigner
}

func NewUploadHandler(deps *Dependencies) *UploadHandler {
	return &UploadHandler{
		logger: deps.Logger,
		signer: deps.Uploads,
	}
}

// CreateUploadURL handles POST /api/v1/uploads
func (h *UploadHandler) CreateUploadURL(c *gin.Context) {
	var req dto.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.signer.SignPut(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

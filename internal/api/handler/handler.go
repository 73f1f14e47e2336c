package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/beathaus/jobs-be/internal/api/domain"
	"github.com/beathaus/jobs-be/internal/api/service"
	"github.com/beathaus/jobs-be/shared/postgresql"
	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger   *slog.Logger
	Jobs     *service.JobService
	Escrow   *service.EscrowService
	Uploads  *service.UploadSigner
	DBClient *postgresql.Client
}

// ActorID returns the authenticated user id set by the auth middleware.
func ActorID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

// respondError maps domain errors to HTTP statuses. Unrecognized errors are
// logged and reported as 500 without leaking internals.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrJobNotFound), errors.Is(err, domain.ErrBidNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotFunded),
		errors.Is(err, domain.ErrAlreadyFunded),
		errors.Is(err, domain.ErrAlreadyReleased):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Request failed",
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

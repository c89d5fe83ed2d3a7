package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinova/clinic-backend/internal/handler/http/middleware"
	"github.com/clinova/clinic-backend/internal/service"
)

// MfaHandler exposes the TOTP enrollment endpoints.
type MfaHandler struct {
	mfaService *service.MfaService
	logger     *zap.Logger
}

func NewMfaHandler(mfaService *service.MfaService, logger *zap.Logger) *MfaHandler {
	return &MfaHandler{
		mfaService: mfaService,
		logger:     logger.Named("mfa_handler"),
	}
}

// Enable2Fa handles POST /Enable2Fa (authenticated). The response body is the
// provisioning QR code as a PNG image; the secret never travels anywhere else.
func (h *MfaHandler) Enable2Fa(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		RespondWithErrors(c, http.StatusUnauthorized, h.logger, "authentication required")
		return
	}

	result, err := h.mfaService.Enroll(c.Request.Context(), accountID)
	if err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, "image/png", result.QRImagePNG)
}

type verify2FaRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// Verify2Fa handles POST /Verify2Fa (authenticated). A valid code completes
// enrollment; until then the stored secret stays pending.
func (h *MfaHandler) Verify2Fa(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		RespondWithErrors(c, http.StatusUnauthorized, h.logger, "authentication required")
		return
	}

	var req verify2FaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "invalid request payload")
		return
	}

	valid, err := h.mfaService.ConfirmEnrollment(c.Request.Context(), accountID, req.Code)
	if err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, valid)
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinova/clinic-backend/internal/handler/http/middleware"
	"github.com/clinova/clinic-backend/internal/service"
)

// DeviceHandler lets an authenticated account inspect and revoke its trusted
// devices.
type DeviceHandler struct {
	deviceService *service.TrustedDeviceService
	logger        *zap.Logger
}

func NewDeviceHandler(deviceService *service.TrustedDeviceService, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		deviceService: deviceService,
		logger:        logger.Named("device_handler"),
	}
}

type trustedDeviceResponse struct {
	DeviceID        string    `json:"deviceId"`
	Browser         string    `json:"browser"`
	OperatingSystem string    `json:"operatingSystem"`
	IPAddress       string    `json:"ipAddress"`
	TrustedAt       time.Time `json:"trustedAt"`
	LastUsedAt      time.Time `json:"lastUsedAt"`
}

// List handles GET /Devices (authenticated).
func (h *DeviceHandler) List(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		RespondWithErrors(c, http.StatusUnauthorized, h.logger, "authentication required")
		return
	}

	devices, err := h.deviceService.ListForAccount(c.Request.Context(), accountID)
	if err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	out := make([]trustedDeviceResponse, 0, len(devices))
	for _, d := range devices {
		out = append(out, trustedDeviceResponse{
			DeviceID:        d.DeviceID,
			Browser:         d.Browser,
			OperatingSystem: d.OperatingSystem,
			IPAddress:       d.IPAddress,
			TrustedAt:       d.CreatedAt,
			LastUsedAt:      d.LastUsedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

type revokeDeviceRequest struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

// Revoke handles POST /Devices/Revoke (authenticated). The next login from
// the revoked device goes back through the OTP challenge.
func (h *DeviceHandler) Revoke(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		RespondWithErrors(c, http.StatusUnauthorized, h.logger, "authentication required")
		return
	}

	var req revokeDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "invalid request payload")
		return
	}

	if err := h.deviceService.Revoke(c.Request.Context(), accountID, req.DeviceID); err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, true)
}

// RevokeAll handles POST /Devices/RevokeAll (authenticated). Useful after a
// credential compromise: every trusted device goes back through the OTP
// challenge on its next login.
func (h *DeviceHandler) RevokeAll(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		RespondWithErrors(c, http.StatusUnauthorized, h.logger, "authentication required")
		return
	}

	revoked, err := h.deviceService.RevokeAll(c.Request.Context(), accountID)
	if err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"revoked": revoked})
}

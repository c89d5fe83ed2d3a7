package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/interfaces"
	"github.com/clinova/clinic-backend/internal/domain/models"
	"github.com/clinova/clinic-backend/internal/handler/http/middleware"
	"github.com/clinova/clinic-backend/internal/service"
	"github.com/clinova/clinic-backend/internal/utils/device"
	"github.com/clinova/clinic-backend/internal/utils/ip"
)

// AuthHandler exposes the account security flows over HTTP.
type AuthHandler struct {
	authService *service.AuthService
	idCodec     interfaces.IDCodec
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, idCodec interfaces.IDCodec, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		idCodec:     idCodec,
		logger:      logger.Named("auth_handler"),
	}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=64,username"`
	DisplayName string `json:"displayName" binding:"required,max=128"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
}

// Register handles POST /Register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "invalid request payload")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), models.RegisterInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	if !result.EmailSent {
		// The account exists; only the confirmation mail failed.
		c.JSON(http.StatusOK, gin.H{"succeeded": true, "message": result.Message})
		return
	}
	c.JSON(http.StatusOK, true)
}

type registerWithPackageRequest struct {
	registerRequest
	Organization string `json:"organization" binding:"required,max=256"`
	PackageCode  string `json:"packageCode" binding:"required"`
	CardNumber   string `json:"cardNumber" binding:"required"`
}

// RegisterWithPackage handles POST /RegisterWithPackage.
func (h *AuthHandler) RegisterWithPackage(c *gin.Context) {
	var req registerWithPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "invalid request payload")
		return
	}

	result, err := h.authService.RegisterWithPackage(c.Request.Context(), models.RegisterWithPackageInput{
		RegisterInput: models.RegisterInput{
			Username:    req.Username,
			DisplayName: req.DisplayName,
			Email:       req.Email,
			Password:    req.Password,
		},
		Organization: req.Organization,
		PackageCode:  req.PackageCode,
		CardNumber:   req.CardNumber,
	})
	if err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": result.Message})
}

type loginRequest struct {
	UsernameEmail string `json:"usernameEmail" binding:"required"`
	Password      string `json:"password" binding:"required"`
	DeviceID      string `json:"deviceId"`
}

type loginResponse struct {
	Token           string `json:"token"`
	UserID          string `json:"userId"`
	IsMailConfirmed bool   `json:"isMailConfirmed"`
	Is2FaRequired   bool   `json:"is2FaRequired"`
	DoctorID        string `json:"doctorId,omitempty"`
}

// Login handles POST /Login. Unknown account, wrong password and unconfirmed
// email are three distinct rejections; the latter two carry isMailConfirmed
// so the caller can route to a resend-confirmation UI.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "invalid request payload")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), models.LoginInput{
		UsernameOrEmail: req.UsernameEmail,
		Password:        req.Password,
		DeviceID:        req.DeviceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrAccountNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"message": domainErrors.ErrAccountNotFound.Error()})
		case errors.Is(err, domainErrors.ErrEmailUnconfirmed):
			c.JSON(http.StatusUnauthorized, gin.H{
				"message":         domainErrors.ErrEmailUnconfirmed.Error(),
				"isMailConfirmed": false,
			})
		case errors.Is(err, domainErrors.ErrInvalidCredential):
			c.JSON(http.StatusUnauthorized, gin.H{
				"message":         domainErrors.ErrInvalidCredential.Error(),
				"isMailConfirmed": true,
			})
		default:
			RespondWithServiceError(c, err, h.logger)
		}
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:           result.Token,
		UserID:          result.UserID,
		IsMailConfirmed: result.IsMailConfirmed,
		Is2FaRequired:   result.Is2FaRequired,
		DoctorID:        result.DoctorID,
	})
}

type verifyLoginOtpRequest struct {
	UserID          string `json:"userId" binding:"required"`
	Otp             string `json:"otp" binding:"required"`
	DeviceID        string `json:"deviceId"`
	Browser         string `json:"browser"`
	OperatingSystem string `json:"operatingSystem"`
}

// VerifyLoginOtp handles POST /VerifyLoginOtp. Device metadata is optional;
// when the client supplies a device ID but no browser/OS, the User-Agent
// header fills the gap.
func (h *AuthHandler) VerifyLoginOtp(c *gin.Context) {
	var req verifyLoginOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "invalid request payload")
		return
	}

	accountID, err := h.idCodec.Decode(req.UserID)
	if err != nil {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "invalid user identifier")
		return
	}

	browser, operatingSystem := req.Browser, req.OperatingSystem
	if req.DeviceID != "" && (browser == "" || operatingSystem == "") {
		meta := device.FromUserAgent(c.Request.UserAgent())
		if browser == "" {
			browser = meta.Browser
		}
		if operatingSystem == "" {
			operatingSystem = meta.OperatingSystem
		}
	}

	ok, err := h.authService.VerifyLoginOtp(c.Request.Context(), models.VerifyLoginOtpInput{
		AccountID:       accountID,
		Code:            req.Otp,
		DeviceID:        req.DeviceID,
		Browser:         browser,
		OperatingSystem: operatingSystem,
		IPAddress:       ip.ClientAddress(c.Request),
	})
	if err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, ok)
}

// ConfirmEmail handles GET /ConfirmEmail?userId=...&token=...
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	encodedID := c.Query("userId")
	token := c.Query("token")
	if encodedID == "" || token == "" {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "userId and token are required")
		return
	}

	accountID, err := h.idCodec.Decode(encodedID)
	if err != nil {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "invalid user identifier")
		return
	}

	if err := h.authService.ConfirmEmail(c.Request.Context(), accountID, token); err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, true)
}

// RequestOtp handles GET /RequestOtp/:userNameEmail.
func (h *AuthHandler) RequestOtp(c *gin.Context) {
	usernameOrEmail := c.Param("userNameEmail")
	if usernameOrEmail == "" {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "username or email is required")
		return
	}

	masked, err := h.authService.RequestOtp(c.Request.Context(), usernameOrEmail)
	if err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}
	if masked == "" {
		// Send failed; the reason is deliberately not disclosed.
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not send the OTP email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"maskedEmail": masked})
}

type resetPasswordRequest struct {
	UsernameEmail string `json:"usernameEmail" binding:"required"`
	Otp           string `json:"otp" binding:"required"`
	NewPassword   string `json:"newPassword" binding:"required,min=8"`
}

// ResetPassword handles POST /ResetPassword.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "invalid request payload")
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), models.ResetPasswordInput{
		UsernameOrEmail: req.UsernameEmail,
		Otp:             req.Otp,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, true)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword handles POST /ChangePassword (authenticated). The caller's
// identity comes from the session token and is passed into the service
// explicitly.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		RespondWithErrors(c, http.StatusUnauthorized, h.logger, "authentication required")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithErrors(c, http.StatusBadRequest, h.logger, "invalid request payload")
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), models.ChangePasswordInput{
		AccountID:       accountID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		RespondWithServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, true)
}

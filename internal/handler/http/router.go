package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinova/clinic-backend/internal/config"
	"github.com/clinova/clinic-backend/internal/handler/http/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Config         *config.Config
	Logger         *zap.Logger
	AuthHandler    *AuthHandler
	MfaHandler     *MfaHandler
	DeviceHandler  *DeviceHandler
	TokenValidator middleware.TokenValidator
}

// NewRouter assembles the gin engine with middleware and all routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := RegisterCustomValidators(); err != nil {
		deps.Logger.Warn("failed to register custom validators", zap.Error(err))
	}

	router := gin.New()
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestLogging(deps.Logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(deps.Config.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = deps.Config.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/Register", deps.AuthHandler.Register)
	router.POST("/RegisterWithPackage", deps.AuthHandler.RegisterWithPackage)
	router.POST("/Login", deps.AuthHandler.Login)
	router.POST("/VerifyLoginOtp", deps.AuthHandler.VerifyLoginOtp)
	router.GET("/ConfirmEmail", deps.AuthHandler.ConfirmEmail)
	router.GET("/RequestOtp/:userNameEmail", deps.AuthHandler.RequestOtp)
	router.POST("/ResetPassword", deps.AuthHandler.ResetPassword)

	authenticated := router.Group("/")
	authenticated.Use(middleware.RequireAuth(deps.TokenValidator, deps.Logger))
	{
		authenticated.POST("/ChangePassword", deps.AuthHandler.ChangePassword)
		authenticated.POST("/Enable2Fa", deps.MfaHandler.Enable2Fa)
		authenticated.POST("/Verify2Fa", deps.MfaHandler.Verify2Fa)
		authenticated.GET("/Devices", deps.DeviceHandler.List)
		authenticated.POST("/Devices/Revoke", deps.DeviceHandler.Revoke)
		authenticated.POST("/Devices/RevokeAll", deps.DeviceHandler.RevokeAll)
	}

	return router
}

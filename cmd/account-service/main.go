package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/clinova/clinic-backend/internal/config"
	"github.com/clinova/clinic-backend/internal/domain/repository/postgres"
	httpHandler "github.com/clinova/clinic-backend/internal/handler/http"
	"github.com/clinova/clinic-backend/internal/infrastructure/security"
	"github.com/clinova/clinic-backend/internal/service"
	"github.com/clinova/clinic-backend/internal/utils/email"
	"github.com/clinova/clinic-backend/internal/utils/logger"
	"github.com/clinova/clinic-backend/migrations"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "account-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Options{
		Level:       cfg.Logging.Level,
		Environment: cfg.Environment,
		FilePath:    cfg.Logging.FilePath,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
		MaxAgeDays:  cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := migrations.Run(cfg.Database.DSN(), log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	idCodec, err := security.NewAESGCMIDCodec(cfg.IDCodec.KeyHex)
	if err != nil {
		return fmt.Errorf("build id codec: %w", err)
	}
	passwords, err := security.NewArgon2idPasswordService(security.Argon2idParams{
		Memory:      cfg.Security.PasswordHash.Memory,
		Iterations:  cfg.Security.PasswordHash.Iterations,
		Parallelism: cfg.Security.PasswordHash.Parallelism,
		SaltLength:  cfg.Security.PasswordHash.SaltLength,
		KeyLength:   cfg.Security.PasswordHash.KeyLength,
	})
	if err != nil {
		return fmt.Errorf("build password service: %w", err)
	}
	totp := security.NewPquernaTOTPService(cfg.MFA.TOTPIssuerName)
	qrEncoder := security.NewQREncoder()
	tokenIssuer, err := security.NewSessionTokenIssuer(security.JWTConfig{
		Issuer:          cfg.JWT.Issuer,
		Audience:        cfg.JWT.Audience,
		SigningKey:      cfg.JWT.SigningKey,
		SessionTokenTTL: cfg.JWT.SessionTokenTTL,
	}, idCodec)
	if err != nil {
		return fmt.Errorf("build token issuer: %w", err)
	}

	notifier, err := email.NewSMTPGateway(email.SMTPConfig{
		Host:               cfg.SMTP.Host,
		Port:               cfg.SMTP.Port,
		Username:           cfg.SMTP.Username,
		Password:           cfg.SMTP.Password,
		From:               cfg.SMTP.From,
		MaxConnections:     cfg.SMTP.MaxConnections,
		SendTimeout:        cfg.SMTP.SendTimeout,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
	}, log)
	if err != nil {
		return fmt.Errorf("build smtp gateway: %w", err)
	}

	accountRepo := postgres.NewAccountRepositoryPostgres(pool)
	deviceRepo := postgres.NewTrustedDeviceRepositoryPostgres(pool)
	otpRepo := postgres.NewOtpTokenRepositoryPostgres(pool)
	companyRepo := postgres.NewCompanyRegistrationRepositoryPostgres(pool)

	otpService := service.NewOtpTokenService(otpRepo, cfg.OTP.CodeLength, cfg.OTP.CodeTTL, log)
	deviceService := service.NewTrustedDeviceService(deviceRepo, log)
	mfaService := service.NewMfaService(accountRepo, totp, qrEncoder, cfg.MFA.QRImageSize, log)
	authService := service.NewAuthService(
		accountRepo,
		companyRepo,
		otpService,
		mfaService,
		deviceService,
		tokenIssuer,
		passwords,
		notifier,
		idCodec,
		service.AuthServiceConfig{
			PublicBaseURL:       cfg.Server.PublicBaseURL,
			ConfirmationLinkTTL: cfg.OTP.ConfirmationLinkTTL,
		},
		log,
	)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := otpService.PurgeExpired(ctx); err != nil {
					log.Warn("expired OTP purge failed", zap.Error(err))
				}
			}
		}
	}()

	router := httpHandler.NewRouter(httpHandler.RouterDeps{
		Config:         cfg,
		Logger:         log,
		AuthHandler:    httpHandler.NewAuthHandler(authService, idCodec, log),
		MfaHandler:     httpHandler.NewMfaHandler(mfaService, log),
		DeviceHandler:  httpHandler.NewDeviceHandler(deviceService, log),
		TokenValidator: tokenIssuer,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"net/textproto"
	"time"

	"github.com/knadh/smtppool"
	"go.uber.org/zap"

	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/interfaces"
)

// SMTPConfig holds the connection settings for the mail gateway.
type SMTPConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	From               string
	MaxConnections     int
	SendTimeout        time.Duration
	InsecureSkipVerify bool
}

// SMTPGateway delivers transactional mail over a pooled SMTP connection. It
// is the NotificationService used by the authentication flows; send failures
// surface as ErrDependencyFailure and are never fatal to the caller's
// operation.
type SMTPGateway struct {
	config SMTPConfig
	pool   *smtppool.Pool
	logger *zap.Logger
}

// NewSMTPGateway connects the pool eagerly so misconfiguration fails at
// startup instead of on the first registration.
func NewSMTPGateway(cfg SMTPConfig, logger *zap.Logger) (*SMTPGateway, error) {
	var auth smtp.Auth
	if cfg.Username != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = 2
	}

	pool, err := smtppool.New(smtppool.Opt{
		Host:            cfg.Host,
		Port:            cfg.Port,
		MaxConns:        cfg.MaxConnections,
		IdleTimeout:     cfg.SendTimeout,
		PoolWaitTimeout: cfg.SendTimeout,
		Auth:            auth,
		TLSConfig: &tls.Config{
			ServerName:         cfg.Host,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP pool: %w", err)
	}

	return &SMTPGateway{
		config: cfg,
		pool:   pool,
		logger: logger.Named("smtp_gateway"),
	}, nil
}

// SendConfirmationEmail mails the account-confirmation link.
func (g *SMTPGateway) SendConfirmationEmail(ctx context.Context, to string, confirmationURL string) error {
	body := fmt.Sprintf(
		`<p>Welcome to Clinova.</p>
<p>Please confirm your email address by following this link:</p>
<p><a href="%s">Confirm my email</a></p>
<p>If you did not create this account, you can ignore this message.</p>`,
		confirmationURL,
	)
	return g.send(ctx, to, "Confirm your Clinova account", body)
}

// SendOtpEmail mails a one-time code for password reset.
func (g *SMTPGateway) SendOtpEmail(ctx context.Context, to string, code string) error {
	body := fmt.Sprintf(
		`<p>Your Clinova verification code is:</p>
<p style="font-size:24px;letter-spacing:4px"><strong>%s</strong></p>
<p>The code expires in 5 minutes. If you did not request it, you can ignore this message.</p>`,
		code,
	)
	return g.send(ctx, to, "Your Clinova verification code", body)
}

func (g *SMTPGateway) send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	e := smtppool.Email{
		To:      []string{to},
		From:    g.config.From,
		Subject: subject,
		HTML:    []byte(htmlBody),
		Headers: textproto.MIMEHeader{},
	}

	if err := g.pool.Send(e); err != nil {
		g.logger.Error("failed to send email",
			zap.String("to", Mask(to)),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	g.logger.Info("email sent", zap.String("to", Mask(to)), zap.String("subject", subject))
	return nil
}

var _ interfaces.NotificationService = (*SMTPGateway)(nil)

package bootstrap

import (
	"fmt"

	appconfig "github.com/wolfman30/starring-booking/internal/config"
	"github.com/wolfman30/starring-booking/internal/notify"
	"github.com/wolfman30/starring-booking/pkg/logging"
)

// BuildConfirmer wires the optional booking confirmation email. It returns nil when
// SendGrid is not configured.
func BuildConfirmer(cfg *appconfig.Config, logger *logging.Logger) (notify.Confirmer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if sender == nil {
		return nil, nil
	}
	if cfg.SendGridFromEmail == "" {
		logger.Warn("sendgrid api key set but from email empty; confirmations disabled")
		return nil, nil
	}
	logger.Info("booking confirmation emails enabled", "from", cfg.SendGridFromEmail)
	return notify.NewEmailConfirmer(sender, cfg.BusinessName, logger), nil
}

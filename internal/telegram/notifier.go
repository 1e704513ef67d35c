package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobs-backend/internal/shared/metrics"
	"jobs-backend/internal/shared/telemetry"
)

var (
	ErrDeliveryFailed = errors.New("notification delivery failed")
	ErrEmptyMessage   = errors.New("message text is required")
)

// Notifier sends Markdown messages to bot users. Failures are reported to the caller and
// never undo whatever change prompted the message.
type Notifier struct {
	API API
}

func NewNotifier(api API) *Notifier {
	return &Notifier{API: api}
}

func (n *Notifier) Send(ctx context.Context, userID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(userID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.API.Send(msg); err != nil {
		metrics.IncNotification("failed")
		telemetry.Error("notification.failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	metrics.IncNotification("sent")
	telemetry.Info("notification.sent", map[string]any{"user_id": userID})
	return nil
}

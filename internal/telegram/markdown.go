package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// EscapeMarkdown quotes user-supplied text for messages sent with ModeMarkdown.
func EscapeMarkdown(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

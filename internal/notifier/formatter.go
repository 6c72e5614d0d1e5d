package notifier

import (
	"html"

	"CoinTicker/internal/model"
	"CoinTicker/internal/render"
)

// FormatSample formats a sample as a Telegram HTML message.
func FormatSample(s model.PriceSample) string {
	return "<pre>" + html.EscapeString(render.FormatSample(s)) + "</pre>"
}

// FormatHelp lists the chat commands.
func FormatHelp() string {
	return "Available commands:\n• /price - latest sample\n• /help - this message"
}

package configs

type Telegram struct {
	Token  string `env:"TELEGRAM_NOTIFIER_BOT_TOKEN"`
	ChatID int64  `env:"TELEGRAM_NOTIFIER_CHAT_ID"`
}

func (c Telegram) Enabled() bool {
	return c.Token != "" && c.ChatID != 0
}

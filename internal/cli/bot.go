package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/xaenox/support-bot/internal/bot"
)

func init() {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram front-end",
		Run:   runBot,
	}
	RootCmd.AddCommand(cmd)
}

func runBot(cmd *cobra.Command, args []string) {
	a, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer a.close()

	if a.cfg.Telegram.Token == "" {
		exitErr("startup", errors.New("TELEGRAM_TOKEN not set"))
	}

	if err := a.watchFAQ(cmd.Context()); err != nil {
		exitErr("faq watcher", err)
	}

	b, err := bot.New(a.cfg.Telegram.Token, a.resolver, a.logger)
	if err != nil {
		exitErr("creating bot", err)
	}

	if err := b.Start(); err != nil {
		exitErr("bot", err)
	}
}

package cli

import (
	"github.com/spf13/cobra"
	"github.com/xaenox/support-bot/internal/web"
)

func init() {
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Run the browser chat front-end",
		Run:   runWeb,
	}
	RootCmd.AddCommand(cmd)
}

func runWeb(cmd *cobra.Command, args []string) {
	a, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer a.close()

	if err := a.watchFAQ(cmd.Context()); err != nil {
		exitErr("faq watcher", err)
	}

	srv := web.NewServer(a.resolver, a.logger)
	if err := srv.Run(a.cfg.Web.Addr); err != nil {
		exitErr("web server", err)
	}
}

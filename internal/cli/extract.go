package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xaenox/support-bot/internal/extract"
	"go.uber.org/zap"
)

func init() {
	cmd := &cobra.Command{
		Use:   "extract [conversations.csv]",
		Short: "Derive FAQ pairs from a support-conversation CSV",
		Long: "Scan a conversation log for customer questions answered by agents and " +
			"write the most frequent pairs as a FAQ CSV.",
		Args: cobra.ExactArgs(1),
		Run:  runExtract,
	}

	cmd.Flags().StringP("out", "o", "data/derived_faqs.csv", "Output FAQ file")
	cmd.Flags().IntP("top", "t", 50, "Keep the N most frequent pairs")

	RootCmd.AddCommand(cmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")
	top, _ := cmd.Flags().GetInt("top")

	logger, err := zap.NewProduction()
	if err != nil {
		exitErr("creating logger", err)
	}
	defer logger.Sync()

	n, err := extract.New(logger).Run(args[0], out, top)
	if err != nil {
		exitErr("extract", err)
	}
	fmt.Printf("Wrote %d FAQ pairs to %s\n", n, out)
}

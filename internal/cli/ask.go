package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Resolve a single question and print the structured response",
		Long:  "One-shot resolution, useful for smoke-testing a FAQ set without a front-end.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAsk,
	}
	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) {
	a, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer a.close()

	resp := a.resolver.GetResponse(cmd.Context(), strings.Join(args, " "), nil)
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		exitErr("encoding response", err)
	}
	fmt.Println(string(out))
}

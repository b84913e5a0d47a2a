package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List recent support tickets",
		Run:   runTickets,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max tickets to show")

	RootCmd.AddCommand(cmd)
}

func runTickets(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := newApp()
	if err != nil {
		exitErr("startup", err)
	}
	defer a.close()

	tickets, err := a.recorder.List(cmd.Context(), limit)
	if err != nil {
		exitErr("listing tickets", err)
	}
	if len(tickets) == 0 {
		fmt.Println("No tickets recorded.")
		return
	}

	for _, t := range tickets {
		contact := t.Contact
		if contact == "" {
			contact = "-"
		}
		fmt.Printf("%d  [%s]  %s  (contact: %s, %s)\n",
			t.ID, t.Status, t.Query, contact, t.CreatedAt.Format(time.RFC3339))
	}
}

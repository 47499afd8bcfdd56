package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bh-assurance/agent-cli/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect persisted workflow runs",
	Long:  "Commands for listing and viewing workflow sessions saved by run and batch.",
}

// -- sessions list --

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved workflow sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		customer, _ := cmd.Flags().GetString("customer")
		limit, _ := cmd.Flags().GetInt("limit")

		records, err := st.ListSessions(ctx, store.SessionFilter{
			CustomerID: customer,
			Limit:      limit,
		})
		if err != nil {
			return eris.Wrap(err, "sessions list")
		}

		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No sessions found.")
			return nil
		}

		formatSessionsList(os.Stdout, records)
		return nil
	},
}

// -- sessions show --

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the full state and history of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		rec, err := st.GetSession(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "sessions show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	sessionsListCmd.Flags().String("customer", "", "filter by customer ID")
	sessionsListCmd.Flags().Int("limit", 50, "max number of sessions to display")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// formatSessionsList writes a tabular list of session records to w.
func formatSessionsList(out io.Writer, records []store.SessionRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCUSTOMER\tSTEP\tRECS\tERROR\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t--------\t----\t----\t-----\t-------")

	for _, r := range records {
		errFlag := ""
		if r.State.Error != "" {
			errFlag = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.CustomerID, r.State.CurrentStep,
			len(r.State.Recommendations), errFlag,
			r.CreatedAt.Format(time.RFC3339))
	}
	_ = w.Flush()
}

package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bh-assurance/agent-cli/internal/store"
)

var (
	runCustomerID string
	runNoSave     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full workflow for a single customer",
	Long:  "Executes customer analysis, gap detection, product recommendation, and pitch generation for one customer, persists the session, and prints the final state as JSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initWorkflow(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		session := env.NewSession()
		state, runErr := session.Execute(ctx, runCustomerID)

		var rec *store.SessionRecord
		if !runNoSave {
			rec, err = env.Store.SaveSession(ctx, state, session.History())
			if err != nil {
				return eris.Wrap(err, "save session")
			}
		}

		if runErr != nil {
			zap.L().Error("workflow failed",
				zap.String("customer_id", runCustomerID),
				zap.Error(runErr))
		} else {
			fields := []zap.Field{
				zap.String("customer_id", runCustomerID),
				zap.Int("recommendations", len(state.Recommendations)),
				zap.Int("progress", session.Progress()),
			}
			if rec != nil {
				fields = append(fields, zap.String("session_id", rec.ID))
			}
			zap.L().Info("workflow complete", fields...)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return eris.Wrap(err, "encode state")
		}
		return runErr
	},
}

func init() {
	runCmd.Flags().StringVar(&runCustomerID, "customer", "", "customer ID (required)")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "skip persisting the session")
	_ = runCmd.MarkFlagRequired("customer")
	rootCmd.AddCommand(runCmd)
}

package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bh-assurance/agent-cli/internal/model"
	"github.com/bh-assurance/agent-cli/internal/store"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record and review agent feedback",
	Long:  "Commands for filing feedback after a pitch is delivered and reviewing what agents reported.",
}

// -- feedback submit --

var feedbackSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "File feedback for a delivered pitch",
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
		pitchID, _ := cmd.Flags().GetString("pitch")
		response, _ := cmd.Flags().GetString("response")
		notes, _ := cmd.Flags().GetString("notes")
		suggestions, _ := cmd.Flags().GetString("suggestions")

		if !model.ValidCustomerResponse(model.CustomerResponse(response)) {
			return eris.Errorf("invalid response %q (expected one of: Interested, Not Interested, Need More Info, Follow Up Later)", response)
		}

		fb := model.AgentFeedback{
			FeedbackID:             uuid.NewString(),
			CustomerID:             customer,
			PitchID:                pitchID,
			AgentNotes:             notes,
			CustomerResponse:       model.CustomerResponse(response),
			ImprovementSuggestions: suggestions,
			Timestamp:              time.Now().UTC(),
		}
		if err := st.SaveFeedback(ctx, fb); err != nil {
			return eris.Wrap(err, "save feedback")
		}

		zap.L().Info("feedback saved",
			zap.String("feedback_id", fb.FeedbackID),
			zap.String("customer_id", fb.CustomerID),
			zap.String("response", string(fb.CustomerResponse)),
		)
		fmt.Println(fb.FeedbackID)
		return nil
	},
}

// -- feedback list --

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded feedback",
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
		response, _ := cmd.Flags().GetString("response")
		limit, _ := cmd.Flags().GetInt("limit")

		fbs, err := st.ListFeedback(ctx, store.FeedbackFilter{
			CustomerID: customer,
			Response:   model.CustomerResponse(response),
			Limit:      limit,
		})
		if err != nil {
			return eris.Wrap(err, "feedback list")
		}

		if len(fbs) == 0 {
			fmt.Fprintln(os.Stderr, "No feedback found.")
			return nil
		}

		formatFeedbackList(os.Stdout, fbs)
		return nil
	},
}

// -- feedback stats --

var feedbackStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show feedback counts by customer response",
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

		total, err := st.CountFeedback(ctx)
		if err != nil {
			return eris.Wrap(err, "feedback count")
		}

		fbs, err := st.ListFeedback(ctx, store.FeedbackFilter{Limit: 10000})
		if err != nil {
			return eris.Wrap(err, "feedback list")
		}

		byResponse := map[model.CustomerResponse]int{}
		for _, fb := range fbs {
			byResponse[fb.CustomerResponse]++
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "total\t%d\n", total)
		for _, r := range []model.CustomerResponse{
			model.ResponseInterested,
			model.ResponseNotInterested,
			model.ResponseNeedMoreInfo,
			model.ResponseFollowUpLater,
		} {
			_, _ = fmt.Fprintf(w, "%s\t%d\n", r, byResponse[r])
		}
		return w.Flush()
	},
}

func init() {
	feedbackSubmitCmd.Flags().String("customer", "", "customer ID (required)")
	feedbackSubmitCmd.Flags().String("pitch", "", "pitch ID the feedback refers to")
	feedbackSubmitCmd.Flags().String("response", "", "customer response (required)")
	feedbackSubmitCmd.Flags().String("notes", "", "agent notes")
	feedbackSubmitCmd.Flags().String("suggestions", "", "improvement suggestions")
	_ = feedbackSubmitCmd.MarkFlagRequired("customer")
	_ = feedbackSubmitCmd.MarkFlagRequired("response")

	feedbackListCmd.Flags().String("customer", "", "filter by customer ID")
	feedbackListCmd.Flags().String("response", "", "filter by customer response")
	feedbackListCmd.Flags().Int("limit", 50, "max number of records to display")

	feedbackCmd.AddCommand(feedbackSubmitCmd)
	feedbackCmd.AddCommand(feedbackListCmd)
	feedbackCmd.AddCommand(feedbackStatsCmd)
	rootCmd.AddCommand(feedbackCmd)
}

// formatFeedbackList writes a tabular list of feedback records to w.
func formatFeedbackList(out io.Writer, fbs []model.AgentFeedback) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCUSTOMER\tRESPONSE\tNOTES\tWHEN")
	_, _ = fmt.Fprintln(w, "--\t--------\t--------\t-----\t----")

	for _, fb := range fbs {
		notes := fb.AgentNotes
		if len(notes) > 40 {
			notes = notes[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			fb.FeedbackID, fb.CustomerID, fb.CustomerResponse, notes,
			fb.Timestamp.Format(time.RFC3339))
	}
	_ = w.Flush()
}

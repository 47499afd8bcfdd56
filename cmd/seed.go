package main

import (
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bh-assurance/agent-cli/pkg/docstore"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the document store with the embedded product corpus",
	Long:  "Creates the configured collection if needed and uploads the built-in product terms and target profiles, so lookups answer from the live store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		timeout := time.Duration(cfg.Docstore.TimeoutSecs) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client := docstore.NewClient(cfg.Docstore.BaseURL,
			docstore.WithRateLimit(cfg.Docstore.RateLimit),
			docstore.WithHTTPClient(&http.Client{Timeout: timeout}))
		retriever := docstore.NewRetriever(client, cfg.Docstore.Collection, cfg.Docstore.TopK)

		if err := retriever.Seed(ctx); err != nil {
			return eris.Wrap(err, "seed document store")
		}

		zap.L().Info("document store seeded",
			zap.String("collection", cfg.Docstore.Collection),
			zap.String("base_url", cfg.Docstore.BaseURL),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

package main

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bh-assurance/agent-cli/internal/dataset"
	"github.com/bh-assurance/agent-cli/internal/model"
)

var (
	batchLimit      int
	batchProfession string
	batchSector     string
	batchLocation   string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run workflows for a batch of customers",
	Long:  "Selects customers from the dataset, optionally filtered by profession, sector, or location, and runs the full workflow for each one concurrently.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initWorkflow(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		customers := env.Records.Search(dataset.Criteria{
			Profession: batchProfession,
			Sector:     batchSector,
			Location:   batchLocation,
		})

		return processBatch(ctx, customers, batchLimit, cfg.Batch.MaxConcurrentSessions, func(ctx context.Context, customerID string) (model.AgentState, error) {
			session := env.NewSession()
			state, err := session.Execute(ctx, customerID)
			if err != nil {
				return state, err
			}
			if _, err := env.Store.SaveSession(ctx, state, session.History()); err != nil {
				return state, eris.Wrap(err, "save session")
			}
			return state, nil
		})
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 100, "max number of customers to process")
	batchCmd.Flags().StringVar(&batchProfession, "profession", "", "only individuals matching this profession")
	batchCmd.Flags().StringVar(&batchSector, "sector", "", "only customers in this activity sector")
	batchCmd.Flags().StringVar(&batchLocation, "location", "", "only customers in this location")
	rootCmd.AddCommand(batchCmd)
}

// executeFunc is the callback signature for running one customer's
// workflow.
type executeFunc func(ctx context.Context, customerID string) (model.AgentState, error)

// processBatch applies the limit, then runs workflows concurrently.
// Individual failures are counted and logged without aborting the
// batch.
func processBatch(ctx context.Context, customers []model.Customer, limit, concurrency int, execute executeFunc) error {
	if len(customers) == 0 {
		zap.L().Info("no customers matched")
		return nil
	}

	if limit > 0 && len(customers) > limit {
		customers = customers[:limit]
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("customers", len(customers)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, customer := range customers {
		g.Go(func() error {
			log := zap.L().With(zap.String("customer_id", customer.ID))

			state, err := execute(gctx, customer.ID)
			if err != nil {
				failed.Add(1)
				log.Error("workflow failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			log.Info("workflow complete",
				zap.Int("recommendations", len(state.Recommendations)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

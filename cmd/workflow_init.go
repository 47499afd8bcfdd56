package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bh-assurance/agent-cli/internal/dataset"
	"github.com/bh-assurance/agent-cli/internal/model"
	"github.com/bh-assurance/agent-cli/internal/recommend"
	"github.com/bh-assurance/agent-cli/internal/registry"
	"github.com/bh-assurance/agent-cli/internal/store"
	"github.com/bh-assurance/agent-cli/internal/workflow"
	"github.com/bh-assurance/agent-cli/pkg/docstore"
	"github.com/bh-assurance/agent-cli/pkg/notion"
)

// workflowEnv holds the initialized store, dataset, and engine needed
// by the run/batch/serve commands.
type workflowEnv struct {
	Store     store.Store
	Records   *dataset.Store
	Engine    *recommend.Engine
	Retriever *docstore.Retriever
	Notion    notion.Client // nil when Notion is not configured
}

// Close releases resources held by the workflow environment.
func (we *workflowEnv) Close() {
	if we.Store != nil {
		_ = we.Store.Close()
	}
}

// NewSession builds a fresh single-customer workflow session backed by
// the environment's dataset, engine, and feedback store.
func (we *workflowEnv) NewSession() *workflow.Session {
	return workflow.NewSession(we.Records, we.Engine,
		workflow.WithFeedbackSink(we.Store))
}

// retrieverDocs adapts the document retriever to the recommendation
// engine's provider interface. Lookups never fail; the origin tells
// the caller whether the answer came from the live store.
type retrieverDocs struct {
	r *docstore.Retriever
}

func (p retrieverDocs) ProductDoc(ctx context.Context, product string) (string, model.DocOrigin, error) {
	a := p.r.Lookup(ctx, product)
	return a.Content, model.DocOrigin(a.Origin), nil
}

// initWorkflow sets up the persistence store, loads the customer
// dataset and the product catalog, and builds the recommendation
// engine. Callers should defer env.Close().
func initWorkflow(ctx context.Context) (*workflowEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	records, err := dataset.Load(cfg.Dataset.Path, dataset.LoadOptions{
		MaxIndividuals:   cfg.Dataset.MaxIndividuals,
		MaxOrganizations: cfg.Dataset.MaxOrganizations,
	})
	if err != nil {
		// Load hands back an empty store on failure; lookups then
		// report not-found. The failure is surfaced once here, never
		// retried.
		zap.L().Warn("dataset load failed, continuing with empty store",
			zap.String("path", cfg.Dataset.Path),
			zap.Error(err))
	}

	var notionClient notion.Client
	var catalog recommend.Catalog

	switch {
	case cfg.Notion.Token != "" && cfg.Notion.CatalogDB != "":
		notionClient = notion.NewClient(cfg.Notion.Token)
		catalog, err = registry.LoadProductCatalog(ctx, notionClient, cfg.Notion.CatalogDB)
		if err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "load product catalog")
		}
	case cfg.Catalog.Path != "":
		catalog, err = recommend.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "load catalog file")
		}
	default:
		zap.L().Info("catalog not configured, using built-in product table")
		catalog = recommend.DefaultCatalog()
	}

	timeout := time.Duration(cfg.Docstore.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	docsClient := docstore.NewClient(cfg.Docstore.BaseURL,
		docstore.WithRateLimit(cfg.Docstore.RateLimit),
		docstore.WithHTTPClient(&http.Client{Timeout: timeout}))
	retriever := docstore.NewRetriever(docsClient, cfg.Docstore.Collection, cfg.Docstore.TopK)

	engine := recommend.NewEngine(
		recommend.WithCatalog(catalog),
		recommend.WithDocProvider(retrieverDocs{r: retriever}),
	)

	return &workflowEnv{
		Store:     st,
		Records:   records,
		Engine:    engine,
		Retriever: retriever,
		Notion:    notionClient,
	}, nil
}

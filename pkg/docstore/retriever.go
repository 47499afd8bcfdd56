package docstore

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Origin records where a lookup's documents came from.
type Origin string

const (
	OriginLive     Origin = "live"
	OriginFallback Origin = "fallback"
)

// Answer is the result of a retriever lookup.
type Answer struct {
	Content string
	Origin  Origin
	Sources []Document
}

// Retriever answers document lookups against the live store and
// silently degrades to the embedded corpus when the store is
// unreachable. Lookups never fail.
type Retriever struct {
	client       Client
	collection   string
	collectionID string
	topK         int
}

// NewRetriever builds a retriever over the given client and collection
// name.
func NewRetriever(client Client, collection string, topK int) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{client: client, collection: collection, topK: topK}
}

// Seed ensures the collection exists and loads the embedded corpus
// into the live store so fresh deployments answer from day one.
func (r *Retriever) Seed(ctx context.Context) error {
	id, err := r.client.EnsureCollection(ctx, r.collection)
	if err != nil {
		return err
	}
	r.collectionID = id
	return r.client.AddDocuments(ctx, id, corpus)
}

// Lookup returns the documents most relevant to the query. On any
// store failure it answers from the embedded corpus and marks the
// answer as fallback.
func (r *Retriever) Lookup(ctx context.Context, query string) Answer {
	docs, err := r.queryLive(ctx, query)
	if err != nil {
		zap.L().Warn("docstore: live query failed, using fallback corpus",
			zap.String("query", query),
			zap.Error(err))
		return fallbackAnswer(query, r.topK)
	}
	if len(docs) == 0 {
		return fallbackAnswer(query, r.topK)
	}
	return Answer{
		Content: docs[0].Content,
		Origin:  OriginLive,
		Sources: docs,
	}
}

func (r *Retriever) queryLive(ctx context.Context, query string) ([]Document, error) {
	if r.collectionID == "" {
		id, err := r.client.EnsureCollection(ctx, r.collection)
		if err != nil {
			return nil, err
		}
		r.collectionID = id
	}
	return r.client.Query(ctx, r.collectionID, query, r.topK)
}

// fallbackAnswer keyword-matches the embedded corpus.
func fallbackAnswer(query string, limit int) Answer {
	q := strings.ToLower(query)
	var matched []Document
	for _, d := range corpus {
		product := strings.ToLower(d.Metadata["product"])
		if strings.Contains(strings.ToLower(d.Content), q) ||
			(product != "" && (strings.Contains(product, q) || strings.Contains(q, product))) {
			matched = append(matched, d)
		}
	}
	if len(matched) == 0 {
		matched = genericFallback
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return Answer{
		Content: matched[0].Content,
		Origin:  OriginFallback,
		Sources: matched,
	}
}

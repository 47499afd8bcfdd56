package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// FileStore implements Store on flat JSON files. Feedback lives in a
// single JSON array file so existing feedback files keep working;
// sessions go to a sessions.json next to it. Writes rewrite the whole
// file under a lock, which is fine for single-agent use.
type FileStore struct {
	mu           sync.Mutex
	feedbackPath string
	sessionsPath string
}

// NewFile creates a FileStore rooted at the given feedback file path.
func NewFile(feedbackPath string) (*FileStore, error) {
	dir := filepath.Dir(feedbackPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "file: create %s", dir)
	}
	return &FileStore{
		feedbackPath: feedbackPath,
		sessionsPath: filepath.Join(dir, "sessions.json"),
	}, nil
}

// Migrate ensures both files exist as empty arrays.
func (s *FileStore) Migrate(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, path := range []string{s.feedbackPath, s.sessionsPath} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				return eris.Wrapf(err, "file: init %s", path)
			}
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) SaveSession(_ context.Context, state model.AgentState, history []model.AgentState) (*SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []SessionRecord
	if err := readJSONArray(s.sessionsPath, &recs); err != nil {
		return nil, err
	}

	rec := SessionRecord{
		ID:         uuid.New().String(),
		CustomerID: state.CustomerID,
		State:      state,
		History:    history,
		CreatedAt:  time.Now().UTC(),
	}
	recs = append(recs, rec)
	if err := writeJSONArray(s.sessionsPath, recs); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FileStore) GetSession(_ context.Context, id string) (*SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []SessionRecord
	if err := readJSONArray(s.sessionsPath, &recs); err != nil {
		return nil, err
	}
	for i := range recs {
		if recs[i].ID == id {
			return &recs[i], nil
		}
	}
	return nil, ErrSessionNotFound
}

func (s *FileStore) ListSessions(_ context.Context, filter SessionFilter) ([]SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recs []SessionRecord
	if err := readJSONArray(s.sessionsPath, &recs); err != nil {
		return nil, err
	}

	// Newest first, matching the database drivers.
	var out []SessionRecord
	for i := len(recs) - 1; i >= 0; i-- {
		if filter.CustomerID != "" && recs[i].CustomerID != filter.CustomerID {
			continue
		}
		out = append(out, recs[i])
	}
	out = window(out, filter.Offset, filter.Limit)
	return out, nil
}

func (s *FileStore) SaveFeedback(_ context.Context, fb model.AgentFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.AgentFeedback
	if err := readJSONArray(s.feedbackPath, &all); err != nil {
		return err
	}
	all = append(all, fb)
	return writeJSONArray(s.feedbackPath, all)
}

func (s *FileStore) ListFeedback(_ context.Context, filter FeedbackFilter) ([]model.AgentFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.AgentFeedback
	if err := readJSONArray(s.feedbackPath, &all); err != nil {
		return nil, err
	}

	var out []model.AgentFeedback
	for i := len(all) - 1; i >= 0; i-- {
		if filter.CustomerID != "" && all[i].CustomerID != filter.CustomerID {
			continue
		}
		if filter.Response != "" && all[i].CustomerResponse != filter.Response {
			continue
		}
		out = append(out, all[i])
	}
	out = windowFeedback(out, filter.Limit)
	return out, nil
}

func (s *FileStore) CountFeedback(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.AgentFeedback
	if err := readJSONArray(s.feedbackPath, &all); err != nil {
		return 0, err
	}
	return len(all), nil
}

func readJSONArray(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "file: read %s", path)
	}
	if len(raw) == 0 {
		return nil
	}
	return eris.Wrapf(json.Unmarshal(raw, dst), "file: parse %s", path)
}

func writeJSONArray(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "file: marshal %s", path)
	}
	return eris.Wrapf(os.WriteFile(path, raw, 0o644), "file: write %s", path)
}

func window(recs []SessionRecord, offset, limit int) []SessionRecord {
	if offset > 0 {
		if offset >= len(recs) {
			return nil
		}
		recs = recs[offset:]
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

func windowFeedback(fbs []model.AgentFeedback, limit int) []model.AgentFeedback {
	if limit > 0 && len(fbs) > limit {
		fbs = fbs[:limit]
	}
	return fbs
}

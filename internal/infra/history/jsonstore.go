package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/ports"
)

const (
	defaultHistoryDir = ".teamsort/history"
	indexFile         = "index.jsonl"
)

// JSONStore keeps one JSON file per submission plus a JSONL index.
type JSONStore struct {
	rootDir string
	dirName string
	enabled bool
	now     func() time.Time
	newID   func() string

	mu sync.Mutex // serializes index appends
}

type Option func(*JSONStore)

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *JSONStore) { s.newID = gen }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	dir := cfg.Paths.HistoryDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultHistoryDir
	}

	s := &JSONStore{
		rootDir: root,
		dirName: dir,
		enabled: cfg.History.Enabled,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ ports.SubmissionRecorder = (*JSONStore)(nil)
	_ ports.SubmissionHistory  = (*JSONStore)(nil)
)

// Enabled reports whether Record persists anything.
func (s *JSONStore) Enabled() bool { return s.enabled }

// Dir is the absolute-or-relative history directory.
func (s *JSONStore) Dir() string {
	if filepath.IsAbs(s.dirName) {
		return s.dirName
	}
	return filepath.Join(s.rootDir, filepath.FromSlash(s.dirName))
}

// Record writes the submission and returns its id. It is a no-op returning
// an empty id when history is disabled.
func (s *JSONStore) Record(sub domain.Submission) (string, error) {
	if !s.enabled {
		return "", nil
	}

	dir := s.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "history.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	if sub.ID == "" {
		sub.ID = s.newID()
	}
	if sub.StartedAt.IsZero() {
		sub.StartedAt = s.now()
	}
	ts := sub.StartedAt.UTC()

	filename := fmt.Sprintf("%s_%s.json", ts.Format("20060102T150405Z"), shortID(sub.ID))
	path := filepath.Join(dir, filename)

	b, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "history.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "history.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "history.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if err := s.appendIndex(dir, filename, sub); err != nil {
		return sub.ID, &domain.OpError{
			Op:   "history.index",
			Kind: domain.KindExecution,
			Path: filepath.Join(dir, indexFile),
			Err:  err,
		}
	}

	return sub.ID, nil
}

func (s *JSONStore) appendIndex(dir, filename string, sub domain.Submission) error {
	line, err := json.Marshal(domain.SubmissionRef{
		ID:          sub.ID,
		File:        filename,
		Status:      sub.Status,
		Output:      sub.Output,
		Players:     sub.Players.Name,
		Constraints: sub.Constraints.Name,
		Bytes:       sub.PlayersBytes + sub.ConstraintsBytes,
		StartedAt:   sub.StartedAt,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(dir, indexFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// List returns up to limit index entries, newest first. limit <= 0 means all.
// Lines that fail to decode are skipped.
func (s *JSONStore) List(limit int) ([]domain.SubmissionRef, error) {
	path := filepath.Join(s.Dir(), indexFile)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.SubmissionRef{}, nil
		}
		return nil, &domain.OpError{
			Op:   "history.list",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	var refs []domain.SubmissionRef
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var r domain.SubmissionRef
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			continue
		}
		refs = append(refs, r)
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.OpError{
			Op:   "history.list",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Index is append-ordered; reverse first so equal timestamps keep newest-appended first.
	for i, j := 0, len(refs)-1; i < j; i, j = i+1, j-1 {
		refs[i], refs[j] = refs[j], refs[i]
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].StartedAt.After(refs[j].StartedAt)
	})

	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	if refs == nil {
		refs = []domain.SubmissionRef{}
	}
	return refs, nil
}

// Load reads a full submission record by id or by index file name.
func (s *JSONStore) Load(id string) (domain.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Submission{}, &domain.OpError{
			Op:   "history.load",
			Kind: domain.KindInvalidInput,
			Err:  domain.ErrInvalidInput,
		}
	}

	refs, err := s.List(0)
	if err != nil {
		return domain.Submission{}, err
	}

	for _, r := range refs {
		if r.ID != id && r.File != id && !strings.HasPrefix(r.ID, id) {
			continue
		}
		path := filepath.Join(s.Dir(), r.File)
		b, err := os.ReadFile(path)
		if err != nil {
			return domain.Submission{}, &domain.OpError{
				Op:   "history.load",
				Kind: domain.KindNotFound,
				Path: path,
				Err:  err,
			}
		}
		var sub domain.Submission
		if err := json.Unmarshal(b, &sub); err != nil {
			return domain.Submission{}, &domain.OpError{
				Op:   "history.load",
				Kind: domain.KindExecution,
				Path: path,
				Err:  err,
			}
		}
		return sub, nil
	}

	return domain.Submission{}, &domain.OpError{
		Op:   "history.load",
		Kind: domain.KindNotFound,
		Err:  fmt.Errorf("%w: submission %q", domain.ErrNotFound, id),
	}
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "sub"
	}
	return id
}

package usecase

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/ports"
)

// State is a snapshot of the controller, enough to render the submit form.
type State struct {
	Players     domain.InputFile
	Constraints domain.InputFile

	Busy      bool
	CanSubmit bool

	// Output is the output ref named by the last settled 2xx response.
	// It is kept while a newer submission is in flight.
	Output      domain.OutputRef
	DownloadURL string
}

// SubmitOutcome is delivered by SubmitAsync once the request settles.
type SubmitOutcome struct {
	Output domain.OutputRef
	Err    error
}

// Controller owns the upload workflow: two selected inputs, a busy flag and the
// last output ref. It is safe for concurrent use.
type Controller struct {
	backend  ports.SortBackend
	recorder ports.SubmissionRecorder
	log      *slog.Logger
	now      func() time.Time
	server   string

	flights singleflight.Group

	mu          sync.Mutex
	players     domain.InputFile
	constraints domain.InputFile
	inflight    int
	output      domain.OutputRef
}

type ControllerOption func(*Controller)

// WithRecorder stores every settled submission. A nil recorder disables history.
func WithRecorder(r ports.SubmissionRecorder) ControllerOption {
	return func(c *Controller) { c.recorder = r }
}

func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// WithServerLabel sets the server name written to history records.
func WithServerLabel(s string) ControllerOption {
	return func(c *Controller) { c.server = s }
}

func NewController(backend ports.SortBackend, opts ...ControllerOption) *Controller {
	c := &Controller{
		backend: backend,
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectPlayersFile replaces the players input. It never fails.
func (c *Controller) SelectPlayersFile(f domain.InputFile) {
	c.mu.Lock()
	c.players = f
	c.mu.Unlock()
	c.log.Debug("select.players", "path", f.Path)
}

// SelectConstraintsFile replaces the constraints input. It never fails.
func (c *Controller) SelectConstraintsFile(f domain.InputFile) {
	c.mu.Lock()
	c.constraints = f
	c.mu.Unlock()
	c.log.Debug("select.constraints", "path", f.Path)
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// CanSubmit is false while busy or while either input is unset.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

func (c *Controller) canSubmitLocked() bool {
	return c.inflight == 0 && c.players.IsSet() && c.constraints.IsSet()
}

// Output returns the current output ref (empty if none yet).
func (c *Controller) Output() domain.OutputRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output
}

func (c *Controller) State() State {
	c.mu.Lock()
	st := State{
		Players:     c.players,
		Constraints: c.constraints,
		Busy:        c.inflight > 0,
		CanSubmit:   c.canSubmitLocked(),
		Output:      c.output,
	}
	c.mu.Unlock()

	if !st.Output.IsEmpty() {
		st.DownloadURL = c.backend.DownloadURL(st.Output)
	}
	return st
}

// Submit uploads the selected inputs in a single request and blocks until it
// settles. It does not check CanSubmit: a caller bypassing that guard gets
// whatever the backend adapter reports for the current inputs.
//
// On success the output ref is replaced. A 2xx response without a usable
// output file name clears it and returns a malformed_response error. Transport
// and status failures leave the previous output ref in place. Every failure is
// logged and returned as a *domain.OpError.
//
// Identical concurrent submissions share one request, detached from any single
// caller's context. A caller whose ctx ends stops waiting and gets ctx.Err();
// the shared request keeps the controller busy until it settles.
func (c *Controller) Submit(ctx context.Context) (domain.OutputRef, error) {
	players, constraints := c.begin()
	defer c.settle()
	return c.submit(ctx, players, constraints)
}

// SubmitAsync marks the controller busy before returning and runs the
// submission in a goroutine. The channel receives exactly one outcome.
func (c *Controller) SubmitAsync(ctx context.Context) <-chan SubmitOutcome {
	players, constraints := c.begin()
	ch := make(chan SubmitOutcome, 1)

	go func() {
		defer close(ch)
		out, err := func() (domain.OutputRef, error) {
			defer c.settle()
			return c.submit(ctx, players, constraints)
		}()
		ch <- SubmitOutcome{Output: out, Err: err}
	}()

	return ch
}

func (c *Controller) begin() (domain.InputFile, domain.InputFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight++
	return c.players, c.constraints
}

func (c *Controller) settle() {
	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()
}

func (c *Controller) submit(ctx context.Context, players, constraints domain.InputFile) (domain.OutputRef, error) {
	key := players.Path + "\x00" + constraints.Path
	flightCtx := context.WithoutCancel(ctx)

	// Each waiter holds a busy count until the shared request settles, even
	// after it stops waiting.
	c.begin()
	ch := c.flights.DoChan(key, func() (any, error) {
		return c.flight(flightCtx, players, constraints)
	})
	done := make(chan singleflight.Result, 1)
	go func() {
		r := <-ch
		c.settle()
		done <- r
	}()

	select {
	case r := <-done:
		if r.Shared {
			c.log.Debug("submit.shared", "players", players.Path, "constraints", constraints.Path)
		}
		if r.Err != nil {
			return "", r.Err
		}
		return r.Val.(domain.UploadResult).Output, nil
	case <-ctx.Done():
		c.log.Warn("submit.abandoned", "err", ctx.Err(), "players", players.Path)
		return "", &domain.OpError{Op: "controller.submit", Kind: domain.KindTransport, Err: ctx.Err()}
	}
}

// flight runs one round-trip and applies its result to the output ref.
func (c *Controller) flight(ctx context.Context, players, constraints domain.InputFile) (domain.UploadResult, error) {
	res, err := c.roundTrip(ctx, players, constraints)

	c.mu.Lock()
	switch {
	case err == nil:
		c.output = res.Output
	case domain.IsKind(err, domain.KindMalformedResponse):
		// the server answered 2xx but named no output
		c.output = ""
	}
	c.mu.Unlock()

	return res, err
}

func (c *Controller) roundTrip(ctx context.Context, players, constraints domain.InputFile) (domain.UploadResult, error) {
	started := c.now()
	c.log.Info("submit.start",
		"players", players.Path,
		"constraints", constraints.Path,
	)

	res, err := c.backend.Upload(ctx, players, constraints)
	ended := c.now()

	if err != nil {
		c.log.Error("submit.failed",
			"err", err,
			"kind", string(domain.KindOf(err)),
			"status", res.StatusCode,
			"latency_ms", res.LatencyMS,
		)
	} else {
		c.log.Info("submit.ok",
			"output", res.Output.String(),
			"status", res.StatusCode,
			"latency_ms", res.LatencyMS,
			"sent_bytes", res.SentBytes,
		)
	}

	c.record(players, constraints, res, err, started, ended)
	return res, err
}

func (c *Controller) record(players, constraints domain.InputFile, res domain.UploadResult, err error, started, ended time.Time) {
	if c.recorder == nil {
		return
	}

	s := domain.Submission{
		Players:          players,
		Constraints:      constraints,
		PlayersBytes:     fileSize(players),
		ConstraintsBytes: fileSize(constraints),
		Server:           c.server,
		Status:           domain.SubmissionOK,
		Output:           res.Output,
		StatusCode:       res.StatusCode,
		StartedAt:        started,
		EndedAt:          ended,
	}
	if err != nil {
		s.Status = domain.SubmissionFailed
		s.Output = ""
		s.ErrorKind = domain.KindOf(err)
		s.ErrorMessage = err.Error()
	}

	id, recErr := c.recorder.Record(s)
	if recErr != nil {
		c.log.Warn("history.record.failed", "err", recErr)
		return
	}
	c.log.Debug("history.recorded", "id", id)
}

// Download streams the current output to handler.
func (c *Controller) Download(ctx context.Context, handler func(domain.Attachment) error) error {
	ref := c.Output()
	if ref.IsEmpty() {
		return &domain.OpError{Op: "controller.download", Kind: domain.KindNotFound, Err: domain.ErrNoOutput}
	}
	return c.backend.Download(ctx, ref, handler)
}

func fileSize(f domain.InputFile) int64 {
	if !f.IsSet() {
		return 0
	}
	info, err := os.Stat(f.Path)
	if err != nil {
		return 0
	}
	return info.Size()
}

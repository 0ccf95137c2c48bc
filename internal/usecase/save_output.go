package usecase

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/ports"
)

type saveOptions struct {
	wrap func(a domain.Attachment, w io.Writer) io.Writer
	name string
}

type SaveOption func(*saveOptions)

// WithWriterWrapper lets callers observe the bytes being written (progress bars).
func WithWriterWrapper(wrap func(a domain.Attachment, w io.Writer) io.Writer) SaveOption {
	return func(o *saveOptions) { o.wrap = wrap }
}

// WithFilename overrides the name the server suggests.
func WithFilename(name string) SaveOption {
	return func(o *saveOptions) { o.name = name }
}

// SaveOutput downloads ref into dir and returns the written path.
// The file appears atomically: data goes to a temp file that is renamed on success.
func SaveOutput(ctx context.Context, d ports.Downloader, ref domain.OutputRef, dir string, opts ...SaveOption) (string, error) {
	o := saveOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{Op: "usecase.save_output", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	var written string
	err := d.Download(ctx, ref, func(a domain.Attachment) error {
		name := a.Filename
		if o.name != "" {
			name = o.name
		}
		dst := filepath.Join(dir, name)

		tmp, err := os.CreateTemp(dir, "."+name+".*.part")
		if err != nil {
			return &domain.OpError{Op: "usecase.save_output", Kind: domain.KindExecution, Path: dir, Err: err}
		}
		defer func() {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}()

		var w io.Writer = tmp
		if o.wrap != nil {
			w = o.wrap(a, tmp)
		}
		if _, err := io.Copy(w, a.Body); err != nil {
			return &domain.OpError{Op: "usecase.save_output", Kind: domain.KindTransport, Path: dst, Err: err}
		}
		if err := tmp.Close(); err != nil {
			return &domain.OpError{Op: "usecase.save_output", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		if err := os.Rename(tmp.Name(), dst); err != nil {
			return &domain.OpError{Op: "usecase.save_output", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		written = dst
		return nil
	})
	if err != nil {
		return "", err
	}
	return written, nil
}

// SaveOutput downloads the controller's current output into dir.
func (c *Controller) SaveOutput(ctx context.Context, dir string, opts ...SaveOption) (string, error) {
	ref := c.Output()
	if ref.IsEmpty() {
		return "", &domain.OpError{Op: "controller.save_output", Kind: domain.KindNotFound, Err: domain.ErrNoOutput}
	}
	path, err := SaveOutput(ctx, c.backend, ref, dir, opts...)
	if err != nil {
		c.log.Error("download.failed", "output", ref.String(), "err", err)
		return "", err
	}
	c.log.Info("download.ok", "output", ref.String(), "path", path)
	return path, nil
}

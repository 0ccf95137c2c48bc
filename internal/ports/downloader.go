package ports

import (
	"context"

	"github.com/aalvaropc/teamsort/internal/domain"
)

// Downloader retrieves a previously produced output file.
type Downloader interface {
	// DownloadURL returns the address an output ref is served at.
	DownloadURL(ref domain.OutputRef) string

	// Download streams the output to handler. If handler returns an error,
	// downloading stops and that error is returned.
	Download(ctx context.Context, ref domain.OutputRef, handler func(domain.Attachment) error) error
}

// SortBackend is the full set of backend operations the client consumes.
type SortBackend interface {
	Uploader
	Downloader
}

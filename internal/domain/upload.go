package domain

import (
	"io"
	"path/filepath"
	"strings"
)

// Multipart field names the sort backend expects.
const (
	FieldPlayers     = "players"
	FieldConstraints = "constraints"
)

// InputFile is a reference to a local file picked by the user.
// The file content is never interpreted; only its location matters.
type InputFile struct {
	Path string
	Name string // display / upload filename; defaults to the base of Path
}

// NewInputFile builds an InputFile from a path. An empty path yields an unset file.
func NewInputFile(path string) InputFile {
	p := strings.TrimSpace(path)
	if p == "" {
		return InputFile{}
	}
	return InputFile{Path: p, Name: filepath.Base(p)}
}

// IsSet reports whether a file has been picked.
func (f InputFile) IsSet() bool {
	return strings.TrimSpace(f.Path) != ""
}

// OutputRef is the opaque, server-assigned name of a produced output file.
// The zero value means "no output".
type OutputRef string

func (r OutputRef) IsEmpty() bool { return strings.TrimSpace(string(r)) == "" }

func (r OutputRef) String() string { return string(r) }

// UploadResult is what a successful upload round-trip returns.
type UploadResult struct {
	Output     OutputRef
	StatusCode int
	Message    string // optional human message from the backend
	LatencyMS  int64
	SentBytes  int64
}

// Attachment is a downloaded output file as streamed by the backend.
// Body is only valid inside the handler it is passed to.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64 // -1 when unknown
	Body        io.Reader
}

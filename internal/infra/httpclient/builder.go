package httpclient

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/aalvaropc/teamsort/internal/domain"
)

// FilePart is one file field of a multipart upload.
type FilePart struct {
	Field string
	File  domain.InputFile
}

// Upload is a ready-to-send multipart request plus the size of the files it carries.
type Upload struct {
	Request   *http.Request
	FileBytes int64
}

type uploadOptions struct {
	wrap func(io.Reader) io.Reader
}

// UploadOption configures BuildUpload.
type UploadOption func(*uploadOptions)

// WithBodyWrapper wraps the streamed request body, e.g. with a progress reader.
func WithBodyWrapper(wrap func(io.Reader) io.Reader) UploadOption {
	return func(o *uploadOptions) { o.wrap = wrap }
}

// BuildUpload builds a POST request whose multipart/form-data body is streamed
// from the given files. Every file is stat'ed up front so missing inputs fail
// before any byte is sent.
//
// The body is produced by a goroutine; the caller must either send the request
// or close Request.Body.
func BuildUpload(ctx context.Context, target string, parts []FilePart, opts ...UploadOption) (*Upload, error) {
	if strings.TrimSpace(target) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build_upload",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidConfig,
		}
	}

	o := uploadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	var total int64
	for _, p := range parts {
		if !p.File.IsSet() {
			return nil, &domain.OpError{
				Op:   "httpclient.build_upload",
				Kind: domain.KindInvalidInput,
				Err:  missingFile(p.Field),
			}
		}
		info, err := os.Stat(p.File.Path)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "httpclient.build_upload",
				Kind: domain.KindInvalidInput,
				Path: p.File.Path,
				Err:  err,
			}
		}
		if info.IsDir() {
			return nil, &domain.OpError{
				Op:   "httpclient.build_upload",
				Kind: domain.KindInvalidInput,
				Path: p.File.Path,
				Err:  isDirectory(p.Field),
			}
		}
		total += info.Size()
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeParts(mw, parts))
	}()

	var body io.Reader = pr
	if o.wrap != nil {
		body = o.wrap(pr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, readCloser{Reader: body, Closer: pr})
	if err != nil {
		_ = pr.Close()
		return nil, &domain.OpError{
			Op:   "httpclient.build_upload",
			Kind: domain.KindInvalidConfig,
			Path: target,
			Err:  err,
		}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return &Upload{Request: req, FileBytes: total}, nil
}

func writeParts(mw *multipart.Writer, parts []FilePart) error {
	for _, p := range parts {
		if err := writePart(mw, p); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writePart(mw *multipart.Writer, p FilePart) error {
	f, err := os.Open(p.File.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	name := p.File.Name
	if name == "" {
		name = domain.NewInputFile(p.File.Path).Name
	}

	w, err := mw.CreateFormFile(p.Field, name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

type readCloser struct {
	io.Reader
	io.Closer
}

type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string { return "field " + e.field + ": " + e.reason }

func (e *fieldError) Unwrap() error { return domain.ErrInvalidInput }

func missingFile(field string) error { return &fieldError{field: field, reason: "no file selected"} }

func isDirectory(field string) error { return &fieldError{field: field, reason: "is a directory"} }

package sortapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/infra/httpclient"
	"github.com/aalvaropc/teamsort/internal/ports"
)

// Client talks to the team-sorting backend over HTTP.
type Client struct {
	baseURL      string
	uploadPath   string
	downloadPath string
	outputField  string

	exec      *httpclient.Executor
	userAgent string
	wrap      func(io.Reader) io.Reader
	log       *slog.Logger
}

type Option func(*Client)

// WithExecutor replaces the default HTTP executor.
func WithExecutor(e *httpclient.Executor) Option {
	return func(c *Client) { c.exec = e }
}

// WithUserAgent sets the User-Agent of the default executor. It has no effect
// together with WithExecutor.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithUploadWrapper wraps every upload body, e.g. to report progress.
func WithUploadWrapper(wrap func(io.Reader) io.Reader) Option {
	return func(c *Client) { c.wrap = wrap }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New builds a Client from the server section of the configuration.
func New(cfg domain.ServerConfig, opts ...Option) *Client {
	def := domain.DefaultConfig().Server

	c := &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		uploadPath:   orDefault(cfg.UploadPath, def.UploadPath),
		downloadPath: orDefault(cfg.DownloadPath, def.DownloadPath),
		outputField:  orDefault(cfg.OutputField, def.OutputField),
		log:          slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.exec == nil {
		c.exec = defaultExecutor(cfg, c.userAgent)
	}
	return c
}

func defaultExecutor(cfg domain.ServerConfig, ua string) *httpclient.Executor {
	hc := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
		hc.ResponseHeader = cfg.Timeout
	}
	if strings.TrimSpace(ua) != "" {
		hc.UserAgent = ua
	}
	return httpclient.NewExecutor(
		httpclient.WithClient(httpclient.New(hc)),
		httpclient.WithTimeout(hc.Timeout),
	)
}

var _ ports.SortBackend = (*Client)(nil)

// UploadURL returns the endpoint submissions are posted to.
func (c *Client) UploadURL() string {
	return joinURL(c.baseURL, c.uploadPath)
}

func (c *Client) DownloadURL(ref domain.OutputRef) string {
	if ref.IsEmpty() {
		return ""
	}
	return joinURL(c.baseURL, c.downloadPath) + "/" + url.PathEscape(string(ref))
}

func (c *Client) Upload(ctx context.Context, players, constraints domain.InputFile) (domain.UploadResult, error) {
	const op = "sortapi.upload"
	target := c.UploadURL()

	var opts []httpclient.UploadOption
	if c.wrap != nil {
		opts = append(opts, httpclient.WithBodyWrapper(c.wrap))
	}

	up, err := httpclient.BuildUpload(ctx, target, []httpclient.FilePart{
		{Field: domain.FieldPlayers, File: players},
		{Field: domain.FieldConstraints, File: constraints},
	}, opts...)
	if err != nil {
		return domain.UploadResult{}, err
	}

	c.log.Debug("upload.send", "url", target, "file_bytes", up.FileBytes)

	resp, err := c.exec.Do(ctx, up.Request)
	res := domain.UploadResult{
		StatusCode: resp.Status,
		LatencyMS:  resp.Duration.Milliseconds(),
		SentBytes:  up.FileBytes,
	}
	if err != nil {
		return res, &domain.OpError{Op: op, Kind: domain.KindTransport, Path: target, Err: err}
	}

	if statusRangeOf(resp.Status) != status2xx {
		return res, &domain.OpError{
			Op:     op,
			Kind:   domain.KindHTTPStatus,
			Path:   target,
			Status: resp.Status,
			Err: newStatusError(resp.Status, resp.BodyBytes, messageFor{
				status4xx: fmt.Sprintf("upload rejected by server (status code = %d)", resp.Status),
				status5xx: fmt.Sprintf("server failed to process the upload (status code = %d)", resp.Status),
			}),
		}
	}

	out, msg, err := c.parseUploadResponse(resp.BodyBytes)
	if err != nil {
		return res, &domain.OpError{Op: op, Kind: domain.KindMalformedResponse, Path: target, Err: err}
	}

	res.Output = out
	res.Message = msg
	return res, nil
}

func (c *Client) parseUploadResponse(body []byte) (domain.OutputRef, string, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", "", fmt.Errorf("%w: body is not valid JSON: %v", domain.ErrMalformedResponse, err)
	}

	val, err := jsonpath.Get(c.outputField, doc)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, c.outputField, err)
	}

	name, ok := val.(string)
	if !ok || strings.TrimSpace(name) == "" {
		return "", "", fmt.Errorf("%w: %s: no output file name", domain.ErrMalformedResponse, c.outputField)
	}

	msg := ""
	if m, ok := doc.(map[string]any); ok {
		if s, ok := m["message"].(string); ok {
			msg = s
		}
	}
	return domain.OutputRef(name), msg, nil
}

func (c *Client) Download(ctx context.Context, ref domain.OutputRef, handler func(domain.Attachment) error) error {
	const op = "sortapi.download"
	if ref.IsEmpty() {
		return &domain.OpError{Op: op, Kind: domain.KindNotFound, Err: domain.ErrNoOutput}
	}

	target := c.DownloadURL(ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Path: target, Err: err}
	}

	c.log.Debug("download.send", "url", target)

	var handlerErr error
	err = c.exec.Stream(ctx, req, func(resp *http.Response) error {
		if statusRangeOf(resp.StatusCode) != status2xx {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			kind := domain.KindHTTPStatus
			if resp.StatusCode == http.StatusNotFound {
				kind = domain.KindNotFound
			}
			return &domain.OpError{
				Op:     op,
				Kind:   kind,
				Path:   target,
				Status: resp.StatusCode,
				Err: newStatusError(resp.StatusCode, body, messageFor{
					status4xx: fmt.Sprintf("output %q is not available (status code = %d)", ref, resp.StatusCode),
					status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
				}),
			}
		}

		handlerErr = handler(domain.Attachment{
			Filename:    attachmentName(resp.Header.Get("Content-Disposition"), ref),
			ContentType: resp.Header.Get("Content-Type"),
			Size:        resp.ContentLength,
			Body:        resp.Body,
		})
		return handlerErr
	})
	if err == nil {
		return nil
	}

	var oe *domain.OpError
	if handlerErr != nil || errors.As(err, &oe) {
		return err
	}
	return &domain.OpError{Op: op, Kind: domain.KindTransport, Path: target, Err: err}
}

// attachmentName picks a safe local filename for a downloaded output.
func attachmentName(disposition string, ref domain.OutputRef) string {
	name := string(ref)
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
			name = params["filename"]
		}
	}
	name = filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, "\\", "/")))
	if name == "/" || name == "." {
		return "output"
	}
	return name
}

func joinURL(base, path string) string {
	p := strings.Trim(strings.TrimSpace(path), "/")
	if p == "" {
		return base
	}
	return base + "/" + p
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

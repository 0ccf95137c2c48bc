package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/aalvaropc/teamsort/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) domain.InputFile {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return domain.NewInputFile(p)
}

func TestBuildUploadMultipart(t *testing.T) {
	tmp := t.TempDir()
	players := writeFile(t, tmp, "players.csv", "Last Name,First Name\nSmith,Ann\n")
	constraints := writeFile(t, tmp, "constraints.csv", "Age Group,Max Players\nu-8,10\n")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for field, want := range map[string]string{
			"players":     "Last Name,First Name\nSmith,Ann\n",
			"constraints": "Age Group,Max Players\nu-8,10\n",
		} {
			f, hdr, err := r.FormFile(field)
			if err != nil {
				t.Errorf("missing part %s: %v", field, err)
				continue
			}
			b, _ := io.ReadAll(f)
			f.Close()
			if string(b) != want {
				t.Errorf("part %s: got %q want %q", field, b, want)
			}
			if hdr.Filename != field+".csv" {
				t.Errorf("part %s: unexpected filename %q", field, hdr.Filename)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	up, err := BuildUpload(context.Background(), server.URL+"/api/upload", []FilePart{
		{Field: domain.FieldPlayers, File: players},
		{Field: domain.FieldConstraints, File: constraints},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantBytes := int64(len("Last Name,First Name\nSmith,Ann\n") + len("Age Group,Max Players\nu-8,10\n"))
	if up.FileBytes != wantBytes {
		t.Fatalf("expected %d file bytes, got %d", wantBytes, up.FileBytes)
	}

	resp, err := http.DefaultClient.Do(up.Request)
	if err != nil {
		t.Fatalf("failed request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestBuildUploadMissingFile(t *testing.T) {
	_, err := BuildUpload(context.Background(), "http://example.invalid/api/upload", []FilePart{
		{Field: domain.FieldPlayers, File: domain.InputFile{}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidInput) {
		t.Fatalf("expected invalid_input kind, got %v", err)
	}
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput in chain, got %v", err)
	}

	_, err = BuildUpload(context.Background(), "http://example.invalid/api/upload", []FilePart{
		{Field: domain.FieldPlayers, File: domain.NewInputFile(filepath.Join(t.TempDir(), "nope.csv"))},
	})
	if !domain.IsKind(err, domain.KindInvalidInput) {
		t.Fatalf("expected invalid_input for missing path, got %v", err)
	}
}

func TestBuildUploadRejectsDirectory(t *testing.T) {
	_, err := BuildUpload(context.Background(), "http://example.invalid/api/upload", []FilePart{
		{Field: domain.FieldPlayers, File: domain.NewInputFile(t.TempDir())},
	})
	if !domain.IsKind(err, domain.KindInvalidInput) {
		t.Fatalf("expected invalid_input for directory, got %v", err)
	}
}

func TestBuildUploadEmptyTarget(t *testing.T) {
	_, err := BuildUpload(context.Background(), " ", nil)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

type countingReader struct {
	r io.Reader
	n *atomic.Int64
}

func (c countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

func TestBuildUploadBodyWrapper(t *testing.T) {
	tmp := t.TempDir()
	players := writeFile(t, tmp, "players.csv", "a,b\n1,2\n")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var sent atomic.Int64
	up, err := BuildUpload(context.Background(), server.URL, []FilePart{
		{Field: domain.FieldPlayers, File: players},
	}, WithBodyWrapper(func(r io.Reader) io.Reader { return countingReader{r: r, n: &sent} }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.DefaultClient.Do(up.Request)
	if err != nil {
		t.Fatalf("failed request: %v", err)
	}
	resp.Body.Close()

	// multipart framing makes the body larger than the file itself
	if sent.Load() <= up.FileBytes {
		t.Fatalf("expected wrapper to see the whole body, saw %d bytes", sent.Load())
	}
}

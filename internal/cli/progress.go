package cli

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/cheggaaa/pb/v3"

	"github.com/aalvaropc/teamsort/internal/domain"
)

// noBar renders byte counters only; used when the total size is unknown.
const noBar pb.ProgressBarTemplate = `{{with string . "prefix"}}{{.}} {{end}}{{counters . }} {{with string . "suffix"}} {{.}}{{end}}`

// progress owns at most one live bar at a time and finishes it on Close.
type progress struct {
	out     io.Writer
	enabled bool
	bar     *pb.ProgressBar
}

func newProgress(out io.Writer, enabled bool) *progress {
	return &progress{out: out, enabled: enabled}
}

// uploadWrapper reports bytes streamed into the multipart body.
func (p *progress) uploadWrapper(prefix string) func(io.Reader) io.Reader {
	return func(r io.Reader) io.Reader {
		if !p.enabled {
			return r
		}
		p.finish()
		bar := noBar.New(-1)
		bar.Set(pb.Bytes, true)
		bar.SetWriter(p.out)
		bar.Set("prefix", prefix)
		bar.Start()
		p.bar = bar
		return bar.NewProxyReader(r)
	}
}

// writerWrapper reports bytes written to a downloaded file.
func (p *progress) writerWrapper(a domain.Attachment, w io.Writer) io.Writer {
	if !p.enabled {
		return w
	}
	p.finish()

	var bar *pb.ProgressBar
	if a.Size > 0 {
		bar = pb.New64(a.Size)
	} else {
		bar = noBar.New(-1)
	}
	bar.Set(pb.Bytes, true)
	bar.SetWriter(p.out)
	bar.Set("prefix", fmt.Sprintf("Downloading %s:", ellipsis(a.Filename, 40)))
	bar.Start()
	p.bar = bar
	return bar.NewProxyWriter(w)
}

func (p *progress) finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

func (p *progress) Close() {
	p.finish()
}

func ellipsis(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	keep := maxLen - 1
	if keep < 1 {
		return "…"
	}
	return "…" + string(r[len(r)-keep:])
}

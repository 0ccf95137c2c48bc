package tui

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/aalvaropc/teamsort/internal/domain"
	"github.com/aalvaropc/teamsort/internal/infra/sortapi"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage maps an error to a short line for the toast. Details stay in the log.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if !errors.As(err, &oe) {
		return "Unexpected error (see logs)"
	}

	switch oe.Kind {
	case domain.KindInvalidInput:
		if strings.TrimSpace(oe.Path) != "" {
			return "Cannot read " + filepath.Base(oe.Path)
		}
		return "Pick both files first"

	case domain.KindTransport:
		if errors.Is(err, context.DeadlineExceeded) {
			return "Server timed out"
		}
		return "Server unreachable"

	case domain.KindHTTPStatus:
		var se *sortapi.StatusError
		if errors.As(err, &se) && se.Detail != "" {
			return "Server: " + clampString(se.Detail, 80)
		}
		if oe.Status >= 500 {
			return "Server error (status " + strconv.Itoa(oe.Status) + ")"
		}
		return "Upload rejected (status " + strconv.Itoa(oe.Status) + ")"

	case domain.KindMalformedResponse:
		return "Unexpected server response"

	case domain.KindNotFound:
		if errors.Is(err, domain.ErrNoOutput) {
			return "No output to download yet"
		}
		if strings.Contains(oe.Op, "download") {
			return "Output no longer available"
		}
		if strings.Contains(oe.Op, "workspacefinder.findroot") {
			return "Workspace not found"
		}
		return "Not found"

	case domain.KindInvalidConfig:
		base := "config"
		if strings.TrimSpace(oe.Path) != "" {
			base = filepath.Base(oe.Path)
		}
		if line := extractLine(err.Error()); line != "" {
			return "Invalid YAML at " + base + " line " + line
		}
		if looksLikeYAMLProblem(err.Error()) {
			return "Invalid YAML at " + base
		}
		return "Invalid config"

	default:
		return "Unexpected error (see logs)"
	}
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

package domain

import "time"

// SubmissionStatus is the settled outcome of a submission.
type SubmissionStatus string

const (
	SubmissionOK     SubmissionStatus = "ok"
	SubmissionFailed SubmissionStatus = "failed"
)

// Submission is a record of one settled upload, kept for the history view.
type Submission struct {
	ID string `json:"id"`

	Players          InputFile `json:"players"`
	Constraints      InputFile `json:"constraints"`
	PlayersBytes     int64     `json:"players_bytes"`
	ConstraintsBytes int64     `json:"constraints_bytes"`

	Server string           `json:"server"`
	Status SubmissionStatus `json:"status"`
	Output OutputRef        `json:"output,omitempty"`

	StatusCode   int       `json:"status_code,omitempty"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Duration returns the wall time of the submission, or 0 if timestamps are missing.
func (s Submission) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// SubmissionRef is a lightweight index entry for a stored submission.
type SubmissionRef struct {
	ID          string           `json:"id"`
	File        string           `json:"file"`
	Status      SubmissionStatus `json:"status"`
	Output      OutputRef        `json:"output,omitempty"`
	Players     string           `json:"players"`
	Constraints string           `json:"constraints"`
	Bytes       int64            `json:"bytes"`
	StartedAt   time.Time        `json:"started_at"`
}

// WorkspaceSpec describes where a workspace should be created.
type WorkspaceSpec struct {
	Root string
}

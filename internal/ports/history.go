package ports

import "github.com/aalvaropc/teamsort/internal/domain"

// SubmissionRecorder persists settled submissions.
type SubmissionRecorder interface {
	Record(s domain.Submission) (id string, err error)
}

// SubmissionHistory lists stored submissions, newest first.
type SubmissionHistory interface {
	List(limit int) ([]domain.SubmissionRef, error)
}

package ports

import (
	"context"

	"github.com/aalvaropc/teamsort/internal/domain"
)

// Uploader sends a players/constraints pair to the sort backend in one request.
type Uploader interface {
	Upload(ctx context.Context, players, constraints domain.InputFile) (domain.UploadResult, error)
}

package feeds

import (
	"context"

	"movfeed/models"
)

// Source is the remote post store. It has a single read operation: all rows
// with visible = true ordered by date descending. The ordering is advisory,
// the store sorts again on read.
type Source interface {
	QueryVisible(ctx context.Context) ([]models.RawPost, error)
}

package ports

import (
	"context"

	"github.com/abelov/technical-records/internal/core/domain"
)

// ActivityRepository persists audit entries.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityEntry) error
}

// ActivityRecorder accepts audit entries without blocking the caller.
// Entries are advisory; implementations may drop them under pressure.
type ActivityRecorder interface {
	Record(entry domain.ActivityEntry)
}

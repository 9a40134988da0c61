package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/abelov/technical-records/internal/core/domain"
)

const activityCollection = "user_activity_logs"

// ActivityRepository appends audit entries. Entries are write-only from the
// application's point of view; they are read through operational tooling.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

func (r *ActivityRepository) Insert(ctx context.Context, entry *domain.ActivityEntry) error {
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

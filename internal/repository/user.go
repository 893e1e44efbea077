package repository

import (
	"context"
	"time"

	"docvault/internal/model"
)

// UserRepository defines data access for user accounts. Password hashing and
// token issuance live outside this service; the repository only persists the
// stored fields.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)

	FindByID(ctx context.Context, id string) (*model.User, error)

	FindByUsername(ctx context.Context, username string) (*model.User, error)

	FindByEmail(ctx context.Context, email string) (*model.User, error)

	Update(ctx context.Context, u *model.User) (*model.User, error)

	// SetLastLogin stamps the last successful login time.
	SetLastLogin(ctx context.Context, id string, at time.Time) (bool, error)

	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)
}

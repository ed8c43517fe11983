package users

import (
	"context"

	"github.com/dmitrijs2005/airconsole/internal/server/models"
)

// Repository persists users. Lookups that find nothing return
// common.ErrorNotFound; writes that clash on email return common.ErrDuplicate.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	LockUserByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/airconsole/internal/common"
	"github.com/dmitrijs2005/airconsole/internal/dbx"
	"github.com/dmitrijs2005/airconsole/internal/server/auth"
	"github.com/dmitrijs2005/airconsole/internal/server/models"
	"github.com/dmitrijs2005/airconsole/internal/server/repositories/repomanager"
)

// UserService manages existing accounts.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher}
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return user, nil
}

// Update applies patch to the user under a row lock. A new password must
// satisfy the password policy and is stored hashed.
func (s *UserService) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, common.ErrNoUpdates
	}
	if (patch.Username != nil && *patch.Username == "") || (patch.Email != nil && *patch.Email == "") {
		return nil, common.ErrMissingFields
	}

	var hash string
	if patch.Password != nil {
		if err := auth.ValidatePassword(*patch.Password); err != nil {
			return nil, err
		}
		h, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			if errors.Is(err, common.ErrWeakPassword) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err)
		}
		hash = h
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)

		user, err := repo.LockUserByID(ctx, id)
		if err != nil {
			return nil, storeErr("lock user", err)
		}

		patch.Apply(user)
		if hash != "" {
			user.PasswordHash = hash
		}

		user, err = repo.Update(ctx, user)
		if err != nil {
			return nil, storeErr("update user", err)
		}
		return user, nil
	})
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return storeErr("delete user", err)
	}
	return nil
}

// Me returns the user a token was issued for.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return user, nil
}

// Package services contains the server's business logic: registration and
// login, user management and the game catalog. Services return sentinel
// errors from internal/common so the REST layer can map them to responses.
package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/airconsole/internal/common"
	"github.com/google/uuid"
)

// PasswordHasher is satisfied by *auth.BcryptHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenIssuer is satisfied by *auth.TokenIssuer.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrInvalidID
	}
	return nil
}

// storeErr keeps not-found and duplicate errors as they are and marks
// everything else as an unavailable store.
func storeErr(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrDuplicate) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", common.ErrStoreUnavailable, op, err)
}

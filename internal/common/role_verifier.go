package common

import (
	"context"
	"errors"

	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/internal/repository"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

type AdminVerifier struct {
	userRepo repository.UserRepository
}

func NewAdminVerifier(userRepo repository.UserRepository) *AdminVerifier {
	return &AdminVerifier{userRepo: userRepo}
}

// Verify returns the requesting user if they are an admin.
func (verifier *AdminVerifier) Verify(ctx context.Context) (*entity.User, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errors.New("user is not authenticated")
	}

	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user is not valid")
	}

	if !u.IsAdmin {
		return nil, errors.New("user is not an admin")
	}

	return u, nil
}

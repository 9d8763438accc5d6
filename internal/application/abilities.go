package application

import (
	"github.com/oksasatya/recipes-auth/internal/domain/apperror"
	"github.com/oksasatya/recipes-auth/internal/domain/entity"
)

// RequireOwner rejects user unless it owns the resource.
func RequireOwner(ownerID string, user *entity.User) error {
	if user == nil {
		return &apperror.UnauthorizedError{}
	}
	if ownerID == "" || ownerID != user.ID {
		return &apperror.ForbiddenError{Reason: "not the owner"}
	}
	return nil
}

package contract

import (
	"context"

	"lumenra-be/internal/entity"
	"lumenra-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// Update persists the full user row in a single write, so a password
	// swap and the otp/otp_expires clear land together.
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

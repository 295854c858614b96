package workflow

import (
	"context"
	"strings"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
)

// Registration is a sign-up request carrying the plain password.
type Registration struct {
	Name     string `validate:"min=2,max=255"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"kephone"`
	Password string `validate:"min=6"`
}

type profileUpdate struct {
	Name  string  `validate:"min=2,max=255"`
	Phone *string `validate:"omitempty,kephone"`
}

// Register creates the account and runs the evaluator immediately so that
// unconditional achievements are granted before the first response.
func (s *Service) Register(ctx context.Context, r Registration, hash func(string) (string, error)) (db.User, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if err := check(r); err != nil {
		return db.User{}, err
	}

	passwordHash, err := hash(r.Password)
	if err != nil {
		return db.User{}, err
	}

	u, err := s.store.CreateUser(ctx, db.NewUser{
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		PasswordHash: passwordHash,
		Role:         db.RoleUser,
	})
	if err != nil {
		return db.User{}, err
	}
	logger.Info("User registered: %s", u.ID)

	s.Evaluate(ctx, u.ID)
	return u, nil
}

// UpdateProfile changes the name and optionally the phone number.
func (s *Service) UpdateProfile(ctx context.Context, userID, name string, phone *string) (db.User, error) {
	name = strings.TrimSpace(name)
	if err := check(profileUpdate{Name: name, Phone: phone}); err != nil {
		return db.User{}, err
	}
	return s.store.UpdateProfile(ctx, userID, name, phone)
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/WAVY91/front-project/internal/client/client"
	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/logging"
)

// AuthService signs users up and in against the backend and feeds the
// result into the session.
//
// Contract:
//   - SignUp: register with the backend; the session gets the identity but
//     stays unauthenticated. NGO sign-ups also record a pending application.
//   - SignIn: authenticate and establish the session with the bearer token.
//   - Logout: wipe the session and all local state.
type AuthService interface {
	SignUp(ctx context.Context, role models.Role, form models.SignUpForm) (models.User, error)
	SignIn(ctx context.Context, role models.Role, email, password string) (models.User, error)
	Logout(ctx context.Context)
}

type authService struct {
	client  client.Client
	session SessionManager
	ngos    NGOService
	log     logging.Logger
}

func NewAuthService(c client.Client, session SessionManager, ngos NGOService, log logging.Logger) AuthService {
	return &authService{client: c, session: session, ngos: ngos, log: log}
}

func (a *authService) SignUp(ctx context.Context, role models.Role, form models.SignUpForm) (models.User, error) {
	if !role.Valid() {
		return models.User{}, fmt.Errorf("unknown role %q", role)
	}
	verr := &ValidationError{}
	if form.Name == "" {
		verr.add("name", "required")
	}
	if form.Email == "" {
		verr.add("email", "required")
	}
	if form.Password == "" {
		verr.add("password", "required")
	}
	if role == models.RoleNGO && form.OrganizationName == "" {
		verr.add("organizationName", "required for NGOs")
	}
	if err := verr.orNil(); err != nil {
		return models.User{}, err
	}

	user, err := a.client.SignUp(ctx, role, form)
	if err != nil {
		return models.User{}, fmt.Errorf("sign up: %w", err)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = role
	}

	a.session.SignUp(ctx, user)
	if role == models.RoleNGO {
		a.ngos.Register(ctx, models.NGO{
			ID:               user.ID,
			OrganizationName: form.OrganizationName,
			ContactName:      form.Name,
			Email:            form.Email,
			Description:      form.Description,
		})
	}
	return user, nil
}

func (a *authService) SignIn(ctx context.Context, role models.Role, email, password string) (models.User, error) {
	if !role.Valid() {
		return models.User{}, fmt.Errorf("unknown role %q", role)
	}

	res, err := a.client.SignIn(ctx, role, email, password)
	if err != nil {
		return models.User{}, fmt.Errorf("sign in: %w", err)
	}

	a.session.SignIn(ctx, res.User, res.Token)
	return res.User, nil
}

func (a *authService) Logout(ctx context.Context) {
	a.session.Logout(ctx)
}

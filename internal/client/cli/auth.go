package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/client/services"
	"github.com/WAVY91/front-project/internal/common"
)

// Input indirections, swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getMultiline    = GetMultiline
	getConfirmation = GetConfirmation
)

func (a *App) isSignedIn() bool {
	return a.session.IsAuthenticated()
}

// currentUser returns the signed-in user, or nil.
func (a *App) currentUser() *models.User {
	if !a.session.IsAuthenticated() {
		return nil
	}
	u, ok := a.session.Current()
	if !ok {
		return nil
	}
	return &u
}

// requireRole returns the signed-in user when it has one of roles.
func (a *App) requireRole(roles ...models.Role) (*models.User, error) {
	u := a.currentUser()
	if u == nil || !slices.ContainsFunc(roles, a.session.IsAuthorized) {
		return nil, services.ErrNotAuthorized
	}
	return u, nil
}

func (a *App) askRole() (models.Role, error) {
	names := make([]string, 0, len(models.Roles))
	for _, r := range models.Roles {
		names = append(names, string(r))
	}
	raw, err := getSimpleText(a.reader, fmt.Sprintf("Role (%s)", strings.Join(names, ", ")), a.out)
	if err != nil {
		return "", err
	}
	role := models.Role(strings.ToLower(raw))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

func (a *App) askPassword() (string, error) {
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) SignUp(ctx context.Context) error {
	role, err := a.askRole()
	if err != nil {
		return err
	}

	var form models.SignUpForm
	if form.Name, err = getSimpleText(a.reader, "Your name", a.out); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if form.Password, err = a.askPassword(); err != nil {
		return err
	}
	if role == models.RoleNGO {
		if form.OrganizationName, err = getSimpleText(a.reader, "Organization name", a.out); err != nil {
			return err
		}
		if form.Description, err = getMultiline(a.reader, "Describe your organization", a.out); err != nil {
			return err
		}
	}

	u, err := a.auth.SignUp(ctx, role, form)
	if err != nil {
		return err
	}

	if role == models.RoleNGO {
		fmt.Fprintf(a.out, "Application for %s submitted, waiting for approval.\n", u.OrganizationName)
	} else {
		fmt.Fprintf(a.out, "Account created for %s. Use 'signin' to continue.\n", u.Email)
	}
	return nil
}

func (a *App) SignIn(ctx context.Context) error {
	role, err := a.askRole()
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := a.askPassword()
	if err != nil {
		return err
	}

	u, err := a.auth.SignIn(ctx, role, email, password)
	if err != nil {
		return err
	}

	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Welcome, %s!\n", u.Name)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isSignedIn() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out, local data cleared.")
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	u := a.currentUser()
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	fmt.Fprintf(a.out, "%s <%s>, role %s\n", u.Name, u.Email, u.Role)
	if u.OrganizationName != "" {
		fmt.Fprintf(a.out, "Organization: %s\n", u.OrganizationName)
	}
	if exp, ok := a.session.ExpiresAt(); ok {
		fmt.Fprintf(a.out, "Session expires %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

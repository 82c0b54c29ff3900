package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/client/poller"
	"github.com/WAVY91/front-project/internal/client/services"
)

func (a *App) campaignPoller(fetch services.CampaignFetch) *poller.Poller[[]models.Campaign] {
	return poller.New[[]models.Campaign]("campaigns", a.config.CampaignRefreshInterval, fetch,
		func(ctx context.Context, v []models.Campaign) { a.campaigns.Reconcile(ctx, v) },
		a.log, poller.WithResultHook[[]models.Campaign](a.trackConnectivity))
}

// visibleCampaigns is what the current user is shown in the campaign list.
func (a *App) visibleCampaigns(u *models.User) []models.Campaign {
	switch {
	case u != nil && u.Role == models.RoleAdmin:
		return a.campaigns.List()
	case u != nil && u.Role == models.RoleNGO:
		return a.campaigns.ByOrganization(u.OrganizationName)
	}
	return a.campaigns.Active()
}

// Campaigns prints the cached campaign list and keeps it fresh in the
// background until another view is opened. An empty cache is filled
// synchronously first.
func (a *App) Campaigns(ctx context.Context) error {
	u := a.currentUser()
	fetch := a.campaigns.Fetcher(u)

	if len(a.campaigns.List()) == 0 {
		err := a.campaigns.Refresh(ctx, fetch)
		a.trackConnectivity(err)
		if err != nil {
			fmt.Fprintln(a.out, describe(err))
		}
	}

	printCampaigns(a.out, a.visibleCampaigns(u))
	a.mount(ctx, a.campaignPoller(fetch))
	return nil
}

func (a *App) findCampaign(raw string) (models.Campaign, error) {
	id, err := models.ParseIdentity(raw)
	if err != nil {
		return models.Campaign{}, err
	}
	c, ok := a.campaigns.Get(id)
	if !ok {
		return models.Campaign{}, fmt.Errorf("campaign %s not found", raw)
	}
	return c, nil
}

func (a *App) Show(_ context.Context, raw string) error {
	c, err := a.findCampaign(raw)
	if err != nil {
		return err
	}
	printCampaign(a.out, c, a.donations.ForCampaign(c))
	return nil
}

func (a *App) Create(ctx context.Context) error {
	u, err := a.requireRole(models.RoleNGO)
	if err != nil {
		return err
	}

	patch, err := a.askCampaign(models.Campaign{}, true)
	if err != nil {
		return err
	}
	patch.OrganizationName = &u.OrganizationName
	patch.OrganizationRef = &u.ID

	c, err := a.campaigns.Create(ctx, patch)
	if err != nil {
		fmt.Fprintf(a.out, "Saved locally as %s.\n", c.Key())
		return err
	}
	fmt.Fprintf(a.out, "Campaign %s submitted for review.\n", c.Key())
	return nil
}

func (a *App) Edit(ctx context.Context, raw string) error {
	u, err := a.requireRole(models.RoleNGO, models.RoleAdmin)
	if err != nil {
		return err
	}
	c, err := a.findCampaign(raw)
	if err != nil {
		return err
	}
	if u.Role == models.RoleNGO && !strings.EqualFold(c.OrganizationName, u.OrganizationName) {
		return services.ErrNotAuthorized
	}

	patch, err := a.askCampaign(c, false)
	if err != nil {
		return err
	}
	if _, err := a.campaigns.Edit(ctx, c.Key(), patch); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Campaign updated.")
	return nil
}

func (a *App) Delete(ctx context.Context, raw string) error {
	u, err := a.requireRole(models.RoleNGO, models.RoleAdmin)
	if err != nil {
		return err
	}
	c, err := a.findCampaign(raw)
	if err != nil {
		return err
	}
	if u.Role == models.RoleNGO && !strings.EqualFold(c.OrganizationName, u.OrganizationName) {
		return services.ErrNotAuthorized
	}

	ok, err := getConfirmation(a.reader, fmt.Sprintf("Delete %q?", c.Title), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.campaigns.Delete(ctx, c.Key()); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Campaign deleted.")
	return nil
}

func (a *App) Approve(ctx context.Context, raw string) error {
	return a.review(ctx, raw, a.campaigns.Approve, "approved")
}

func (a *App) Reject(ctx context.Context, raw string) error {
	return a.review(ctx, raw, a.campaigns.Reject, "rejected")
}

func (a *App) review(ctx context.Context, raw string, call func(context.Context, models.Identity) error, verb string) error {
	if _, err := a.requireRole(models.RoleAdmin); err != nil {
		return err
	}
	c, err := a.findCampaign(raw)
	if err != nil {
		return err
	}
	if err := call(ctx, c.Key()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Campaign %q %s.\n", c.Title, verb)
	return nil
}

// askCampaign prompts for campaign fields. When editing, an empty answer
// keeps the current value.
func (a *App) askCampaign(current models.Campaign, required bool) (models.CampaignPatch, error) {
	var patch models.CampaignPatch

	text := func(prompt, cur string, dst **string) error {
		if !required {
			prompt = fmt.Sprintf("%s [%s]", prompt, cur)
		}
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*dst = &v
		}
		return nil
	}

	if err := text("Title", current.Title, &patch.Title); err != nil {
		return patch, err
	}
	if required && patch.Title == nil {
		return patch, errors.New("title is required")
	}

	desc, err := getMultiline(a.reader, "Description", a.out)
	if err != nil {
		return patch, err
	}
	if desc != "" || required {
		patch.Description = &desc
	}

	if err := text("Category", current.Category, &patch.Category); err != nil {
		return patch, err
	}

	var goal *string
	if err := text("Goal amount", current.GoalAmount.String(), &goal); err != nil {
		return patch, err
	}
	if goal == nil && required {
		return patch, errors.New("goal amount is required")
	}
	if goal != nil {
		amount, err := decimal.NewFromString(*goal)
		if err != nil || !amount.IsPositive() {
			return patch, fmt.Errorf("goal amount must be a positive number, got %q", *goal)
		}
		patch.GoalAmount = &amount
	}

	var days *string
	if err := text("Days remaining", strconv.Itoa(current.DaysRemaining), &days); err != nil {
		return patch, err
	}
	if days != nil {
		n, err := strconv.Atoi(*days)
		if err != nil || n < 0 {
			return patch, fmt.Errorf("days remaining must be a whole number, got %q", *days)
		}
		patch.DaysRemaining = &n
	}

	var image *string
	if err := text("Image URL (optional)", current.Image, &image); err != nil {
		return patch, err
	}
	patch.Image = image

	return patch, nil
}

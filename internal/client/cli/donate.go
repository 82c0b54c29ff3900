package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/client/poller"
	"github.com/WAVY91/front-project/internal/client/services"
)

// Donate starts a donation draft for a campaign. Payment happens in
// Checkout.
func (a *App) Donate(ctx context.Context, raw string) error {
	u, err := a.requireRole(models.RoleDonor)
	if err != nil {
		return err
	}
	c, err := a.findCampaign(raw)
	if err != nil {
		return err
	}
	if !c.IsActive() {
		return fmt.Errorf("campaign %q is not accepting donations", c.Title)
	}

	rawAmount, err := getSimpleText(a.reader, "Amount", a.out)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return fmt.Errorf("amount must be a number, got %q", rawAmount)
	}

	anonymous, err := getConfirmation(a.reader, "Donate anonymously?", a.out)
	if err != nil {
		return err
	}

	a.checkout.Draft(ctx, models.Draft{
		CampaignRef:      c.Key(),
		CampaignTitle:    c.Title,
		OrganizationName: c.OrganizationName,
		Amount:           amount,
		DonorName:        u.Name,
		DonorEmail:       u.Email,
		Anonymous:        anonymous,
	})

	fmt.Fprintf(a.out, "Donation of %s to %q ready. Run 'checkout' to pay.\n", money(amount), c.Title)
	return nil
}

func (a *App) Checkout(ctx context.Context) error {
	if _, err := a.requireRole(models.RoleDonor); err != nil {
		return err
	}
	draft, ok := a.checkout.Current()
	if !ok {
		return services.ErrNoDraft
	}

	fmt.Fprintf(a.out, "Donating %s to %q (%s)\n", money(draft.Amount), draft.CampaignTitle, draft.OrganizationName)

	proceed, err := getConfirmation(a.reader, "Proceed to payment?", a.out)
	if err != nil {
		return err
	}
	if !proceed {
		a.checkout.Cancel(ctx)
		fmt.Fprintln(a.out, "Donation cancelled.")
		return nil
	}

	var p models.Payment
	if p.CardNumber, err = getSimpleText(a.reader, "Card number", a.out); err != nil {
		return err
	}
	if p.CardHolder, err = getSimpleText(a.reader, "Card holder", a.out); err != nil {
		return err
	}

	d, err := a.checkout.Finalize(ctx, p)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(a.out, "Your donation is kept, run 'checkout' again after fixing the details.")
		}
		return err
	}

	fmt.Fprintf(a.out, "Thank you! Donation %s of %s recorded.\n", d.ID, money(d.Amount))
	return nil
}

func (a *App) donationPoller(fetch services.DonationFetch) *poller.Poller[[]models.Donation] {
	return poller.New[[]models.Donation]("donations", a.config.DonationRefreshInterval, fetch,
		func(ctx context.Context, v []models.Donation) { a.donations.Reconcile(ctx, v) },
		a.log, poller.WithResultHook[[]models.Donation](a.trackConnectivity))
}

// History shows the donations the user may see: their own for donors,
// received ones for NGOs and all of them for admins.
func (a *App) History(ctx context.Context) error {
	u := a.currentUser()
	fetch, err := a.donations.Fetcher(u)
	if err != nil {
		return err
	}

	if len(a.donations.List()) == 0 {
		err := a.donations.Refresh(ctx, fetch)
		a.trackConnectivity(err)
		if err != nil {
			fmt.Fprintln(a.out, describe(err))
		}
	}

	if u.Role == models.RoleDonor {
		printDonations(a.out, a.donations.ForDonor(u.ID))
		fmt.Fprintf(a.out, "Total donated: %s\n", money(a.donations.TotalFor(u.ID)))
	} else {
		printDonations(a.out, a.donations.List())
	}

	a.mount(ctx, a.donationPoller(fetch))
	return nil
}

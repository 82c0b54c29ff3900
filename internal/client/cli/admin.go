package cli

import (
	"context"
	"fmt"

	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/client/poller"
)

func (a *App) contactPoller() *poller.Poller[[]models.ContactMessage] {
	return poller.New[[]models.ContactMessage]("contacts", a.config.ContactRefreshInterval, a.contacts.Fetch, a.contacts.Apply,
		a.log, poller.WithResultHook[[]models.ContactMessage](a.trackConnectivity))
}

// Admin opens the admin dashboard: NGO applications, campaigns waiting
// for review and contact messages. Campaigns and messages keep refreshing
// while the dashboard is the current view.
func (a *App) Admin(ctx context.Context) error {
	u, err := a.requireRole(models.RoleAdmin)
	if err != nil {
		return err
	}

	if err := a.ngos.Refresh(ctx); err != nil {
		a.trackConnectivity(err)
		fmt.Fprintln(a.out, describe(err))
	}
	fetch := a.campaigns.Fetcher(u)
	if err := a.campaigns.Refresh(ctx, fetch); err != nil {
		fmt.Fprintln(a.out, describe(err))
	}
	if msgs, err := a.contacts.Fetch(ctx); err == nil {
		a.contacts.Apply(ctx, msgs)
	}

	printNGOs(a.out, "Pending NGOs", a.ngos.Pending())
	printNGOs(a.out, "Active NGOs", a.ngos.Active())

	var pending []models.Campaign
	for _, c := range a.campaigns.List() {
		if c.Status == models.CampaignPending {
			pending = append(pending, c)
		}
	}
	fmt.Fprintln(a.out, "Campaigns waiting for review:")
	printCampaigns(a.out, pending)

	printContacts(a.out, a.contacts.Messages())

	a.mount(ctx, a.campaignPoller(fetch), a.contactPoller())
	return nil
}

func (a *App) ApproveNGO(ctx context.Context, id string) error {
	if _, err := a.requireRole(models.RoleAdmin); err != nil {
		return err
	}
	if err := a.ngos.Approve(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "NGO %s approved.\n", id)
	return nil
}

func (a *App) RejectNGO(ctx context.Context, id string) error {
	if _, err := a.requireRole(models.RoleAdmin); err != nil {
		return err
	}
	if err := a.ngos.Reject(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "NGO %s rejected.\n", id)
	return nil
}

// NGOs lists the public directory of verified organizations, falling back
// to the cached active list when the backend cannot be reached.
func (a *App) NGOs(ctx context.Context) error {
	list, err := a.ngos.Directory(ctx)
	if err != nil {
		fmt.Fprintln(a.out, describe(err))
		list = a.ngos.Active()
	}
	printNGOs(a.out, "Organizations", list)
	return nil
}

func (a *App) Contact(ctx context.Context) error {
	var (
		m   models.ContactMessage
		err error
	)
	if u := a.currentUser(); u != nil {
		m.Name, m.Email = u.Name, u.Email
	} else {
		if m.Name, err = getSimpleText(a.reader, "Your name", a.out); err != nil {
			return err
		}
		if m.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
			return err
		}
	}
	if m.Subject, err = getSimpleText(a.reader, "Subject", a.out); err != nil {
		return err
	}
	if m.Message, err = getMultiline(a.reader, "Message", a.out); err != nil {
		return err
	}

	if _, err := a.contacts.Submit(ctx, m); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Message sent, we will get back to you soon.")
	return nil
}

func (a *App) AttendContact(ctx context.Context, id string) error {
	if _, err := a.requireRole(models.RoleAdmin); err != nil {
		return err
	}
	if err := a.contacts.MarkAttended(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Message %s marked as attended.\n", id)
	return nil
}

func (a *App) DeleteContact(ctx context.Context, id string) error {
	if _, err := a.requireRole(models.RoleAdmin); err != nil {
		return err
	}
	if err := a.contacts.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Message %s deleted.\n", id)
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/WAVY91/front-project/internal/client/client"
	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/client/services"
	"github.com/WAVY91/front-project/internal/common"
)

// describe turns an error into the line shown to the user.
func describe(err error) string {
	var verr *services.ValidationError
	var apiErr *client.APIError

	switch {
	case errors.As(err, &verr):
		parts := make([]string, 0, len(verr.Problems))
		for _, p := range verr.Problems {
			parts = append(parts, p.Field+" "+p.Reason)
		}
		return "please fix: " + strings.Join(parts, ", ")
	case errors.Is(err, services.ErrNotAuthorized):
		return "Access denied"
	case errors.Is(err, services.ErrNoDraft):
		return "no donation in progress, use 'donate <id>' first"
	case errors.Is(err, client.ErrUnavailable):
		return "backend unavailable, showing cached data"
	case errors.Is(err, client.ErrUnauthorized):
		return "session rejected by the backend, please sign in again"
	case errors.Is(err, client.ErrNotFound), errors.Is(err, common.ErrorNotFound):
		return "not found"
	case errors.As(err, &apiErr):
		return apiErr.Message
	}
	return err.Error()
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func progressBar(p float64, width int) string {
	filled := int(p*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func printCampaigns(w io.Writer, list []models.Campaign) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No campaigns.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tORGANIZATION\tRAISED\tGOAL\tPROGRESS\tSTATUS")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s %3.0f%%\t%s\n",
			c.Key(), c.Title, c.OrganizationName, money(c.RaisedAmount), money(c.GoalAmount),
			progressBar(c.Progress(), 10), c.Progress()*100, c.Status)
	}
	tw.Flush()
}

func printCampaign(w io.Writer, c models.Campaign, donations []models.Donation) {
	fmt.Fprintf(w, "%s  [%s]\n", c.Title, c.Status)
	fmt.Fprintf(w, "ID:           %s\n", c.Key())
	fmt.Fprintf(w, "Organization: %s\n", c.OrganizationName)
	fmt.Fprintf(w, "Category:     %s\n", c.Category)
	fmt.Fprintf(w, "Raised:       %s of %s %s\n", money(c.RaisedAmount), money(c.GoalAmount), progressBar(c.Progress(), 20))
	fmt.Fprintf(w, "Donors:       %d\n", c.DonorCount)
	fmt.Fprintf(w, "Days left:    %d\n", c.DaysRemaining)
	fmt.Fprintf(w, "Image:        %s\n", c.ImageURL())
	if c.Description != "" {
		fmt.Fprintf(w, "\n%s\n", c.Description)
	}

	if len(donations) > 0 {
		fmt.Fprintln(w, "\nRecent donations:")
		for _, d := range donations {
			fmt.Fprintf(w, "  %s  %s  %s\n", d.CreatedAt.Local().Format("2006-01-02"), d.DisplayName(), money(d.Amount))
		}
	}
}

func printDonations(w io.Writer, list []models.Donation) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No donations yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCAMPAIGN\tDONOR\tAMOUNT\tCARD\tSTATUS")
	for _, d := range list {
		card := ""
		if d.CardLast4 != "" {
			card = "**** " + d.CardLast4
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.CreatedAt.Local().Format("2006-01-02 15:04"), d.CampaignTitle, d.DisplayName(), money(d.Amount), card, d.Status)
	}
	tw.Flush()
}

func printNGOs(w io.Writer, title string, list []models.NGO) {
	fmt.Fprintf(w, "%s (%d)\n", title, len(list))
	for _, n := range list {
		fmt.Fprintf(w, "  %s  %s  <%s>\n", n.ID, n.OrganizationName, n.Email)
	}
}

func printContacts(w io.Writer, list []models.ContactMessage) {
	fmt.Fprintf(w, "Contact messages (%d)\n", len(list))
	for _, m := range list {
		fmt.Fprintf(w, "  %s  [%s]  %s <%s>: %s\n", m.ID, m.Status, m.Name, m.Email, m.Subject)
	}
}

package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CampaignStatus string

const (
	CampaignPending  CampaignStatus = "pending"
	CampaignActive   CampaignStatus = "active"
	CampaignApproved CampaignStatus = "approved"
	CampaignRejected CampaignStatus = "rejected"
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignPending, CampaignActive, CampaignApproved, CampaignRejected:
		return true
	}
	return false
}

const defaultImage = "https://images.unsplash.com/photo-1488521787991-ed7bbaae773c?w=800"

var categoryImages = map[string]string{
	"health":      "https://images.unsplash.com/photo-1576091160399-112ba8d25d1d?w=800",
	"education":   "https://images.unsplash.com/photo-1497486751825-1233686d5d80?w=800",
	"environment": "https://images.unsplash.com/photo-1542601906990-b4d3fb778b09?w=800",
	"food":        "https://images.unsplash.com/photo-1488459716781-31db52582fe9?w=800",
	"water":       "https://images.unsplash.com/photo-1541252260730-0412e8e2108e?w=800",
	"housing":     "https://images.unsplash.com/photo-1582407947304-fd86f028f716?w=800",
}

type Campaign struct {
	DurableID        string          `json:"durableId,omitempty"`
	LocalID          int64           `json:"localId,omitempty"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	OrganizationName string          `json:"organizationName"`
	OrganizationRef  string          `json:"organizationRef,omitempty"`
	GoalAmount       decimal.Decimal `json:"goalAmount"`
	RaisedAmount     decimal.Decimal `json:"raisedAmount"`
	Image            string          `json:"imageUrl,omitempty"`
	Category         string          `json:"category"`
	DaysRemaining    int             `json:"daysRemaining"`
	DonorCount       int             `json:"donorCount"`
	DonorRefs        []string        `json:"donorRefs,omitempty"`
	Status           CampaignStatus  `json:"status"`
	Verified         bool            `json:"verified"`
}

func (c Campaign) Key() Identity {
	return IdentityOf(c.DurableID, c.LocalID)
}

// Matches reports whether id names c. A local identity only names a
// campaign the backend has not confirmed yet.
func (c Campaign) Matches(id Identity) bool {
	switch id.Kind {
	case IdentityDurable:
		return c.DurableID != "" && c.DurableID == id.Durable
	case IdentityLocal:
		return c.DurableID == "" && c.LocalID != 0 && c.LocalID == id.Local
	}
	return false
}

func (c Campaign) IsActive() bool {
	return c.Status == CampaignActive || c.Status == CampaignApproved
}

var one = decimal.NewFromInt(1)

// Progress is raised/max(goal,1), clamped to [0,1].
func (c Campaign) Progress() float64 {
	goal := c.GoalAmount
	if goal.LessThan(one) {
		goal = one
	}
	p := c.RaisedAmount.Div(goal).InexactFloat64()
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// ImageURL returns the campaign image or a default picked by category.
func (c Campaign) ImageURL() string {
	if c.Image != "" {
		return c.Image
	}
	if u, ok := categoryImages[strings.ToLower(c.Category)]; ok {
		return u
	}
	return defaultImage
}

// CampaignPatch carries the fields an edit or an optimistic create sets.
// Nil fields are left as they are.
type CampaignPatch struct {
	DurableID        string
	LocalID          int64
	Title            *string
	Description      *string
	OrganizationName *string
	OrganizationRef  *string
	GoalAmount       *decimal.Decimal
	Image            *string
	Category         *string
	DaysRemaining    *int
	Status           *CampaignStatus
}

func (p CampaignPatch) Key() Identity {
	return IdentityOf(p.DurableID, p.LocalID)
}

// Apply returns c with every non-nil field of p written over it.
func (p CampaignPatch) Apply(c Campaign) Campaign {
	if p.DurableID != "" {
		c.DurableID = p.DurableID
	}
	if p.LocalID != 0 {
		c.LocalID = p.LocalID
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.OrganizationName != nil {
		c.OrganizationName = *p.OrganizationName
	}
	if p.OrganizationRef != nil {
		c.OrganizationRef = *p.OrganizationRef
	}
	if p.GoalAmount != nil {
		c.GoalAmount = *p.GoalAmount
	}
	if p.Image != nil {
		c.Image = *p.Image
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.DaysRemaining != nil {
		c.DaysRemaining = *p.DaysRemaining
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	return c
}

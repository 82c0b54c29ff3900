package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DonationStatus string

const DonationCompleted DonationStatus = "completed"

const AnonymousName = "Anonymous"

type Donation struct {
	ID               string          `json:"id"`
	DurableID        string          `json:"durableId,omitempty"`
	CampaignRef      Identity        `json:"campaignRef"`
	CampaignTitle    string          `json:"campaignTitle"`
	DonorRef         string          `json:"donorRef"`
	Amount           decimal.Decimal `json:"amount"`
	DonorName        string          `json:"donorName"`
	DonorEmail       string          `json:"donorEmail"`
	OrganizationName string          `json:"organizationName"`
	Anonymous        bool            `json:"anonymous"`
	PaymentMethod    string          `json:"paymentMethod"`
	CardLast4        string          `json:"cardLast4,omitempty"`
	Status           DonationStatus  `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Key prefers the backend ID. The client token is a UUID and never
// collides with a backend ID, so both share the durable namespace.
func (d Donation) Key() Identity {
	if d.DurableID != "" {
		return DurableID(d.DurableID)
	}
	return IdentityOf(d.ID, 0)
}

// DisplayName hides the donor name of anonymous donations. DonorRef is kept.
func (d Donation) DisplayName() string {
	if d.Anonymous || d.DonorName == "" {
		return AnonymousName
	}
	return d.DonorName
}

// Draft is a donation intent that has not been paid yet.
type Draft struct {
	CampaignRef      Identity        `json:"campaignRef"`
	CampaignTitle    string          `json:"campaignTitle"`
	OrganizationName string          `json:"organizationName"`
	Amount           decimal.Decimal `json:"amount"`
	DonorName        string          `json:"donorName"`
	DonorEmail       string          `json:"donorEmail"`
	Anonymous        bool            `json:"anonymous"`
}

// Payment holds card details entered at checkout. Only the last four
// digits of the card number are ever stored or sent.
type Payment struct {
	Method     string
	CardNumber string
	CardHolder string
}

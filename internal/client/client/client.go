package client

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/WAVY91/front-project/internal/client/models"
)

// AuthResult is a successful sign-in.
type AuthResult struct {
	User  models.User
	Token string
}

// DonationRequest is the body of POST /donation/submit.
type DonationRequest struct {
	CampaignID       string
	CampaignTitle    string
	DonorID          string
	DonorName        string
	DonorEmail       string
	OrganizationName string
	Amount           decimal.Decimal
	Anonymous        bool
	PaymentMethod    string
	CardLast4        string
}

type Client interface {
	SignUp(ctx context.Context, role models.Role, form models.SignUpForm) (models.User, error)
	SignIn(ctx context.Context, role models.Role, email, password string) (AuthResult, error)

	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
	ListActiveCampaigns(ctx context.Context) ([]models.Campaign, error)
	ListCampaignsByNGO(ctx context.Context, ngoID string) ([]models.Campaign, error)
	GetCampaign(ctx context.Context, id string) (models.Campaign, error)
	CreateCampaign(ctx context.Context, c models.Campaign) (models.Campaign, error)
	UpdateCampaign(ctx context.Context, id string, c models.Campaign) error
	DeleteCampaign(ctx context.Context, id string) error
	ApproveCampaign(ctx context.Context, id string) error
	RejectCampaign(ctx context.Context, id string) error

	SubmitDonation(ctx context.Context, req DonationRequest) (string, error)
	ListDonations(ctx context.Context) ([]models.Donation, error)
	ListDonationsByDonor(ctx context.Context, donorID string) ([]models.Donation, error)
	ListDonationsByNGO(ctx context.Context, ngoID string) ([]models.Donation, error)
	NotifyDonation(ctx context.Context, d models.Donation) error

	ListNGOs(ctx context.Context) ([]models.NGO, error)
	ListPendingNGOs(ctx context.Context) ([]models.NGO, error)
	ListActiveNGOs(ctx context.Context) ([]models.NGO, error)
	ApproveNGO(ctx context.Context, id string) error
	RejectNGO(ctx context.Context, id string) error

	SubmitContact(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error)
	ListContacts(ctx context.Context) ([]models.ContactMessage, error)
	MarkContactAttended(ctx context.Context, id string) error
	DeleteContact(ctx context.Context, id string) error
	NotifyAdmin(ctx context.Context, m models.ContactMessage) error
	SendContactConfirmation(ctx context.Context, m models.ContactMessage) error
}

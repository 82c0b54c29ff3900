package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WAVY91/front-project/internal/client/client"
	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/common"
	"github.com/WAVY91/front-project/internal/logging"
)

const defaultPaymentMethod = "card"

// CheckoutService holds at most one donation draft.
//
// States: Empty -> Drafted -> (Finalized | Empty). Finalize succeeds only
// from Drafted and only after the backend accepted the donation; on any
// failure the draft is kept for a retry. One Finalize runs at a time.
type CheckoutService interface {
	Draft(ctx context.Context, d models.Draft)
	Current() (models.Draft, bool)
	Cancel(ctx context.Context)
	Finalize(ctx context.Context, p models.Payment) (models.Donation, error)
}

type checkoutService struct {
	mu         sync.Mutex
	draft      *models.Draft
	submitting bool

	client    client.Client
	session   SessionManager
	campaigns CampaignService
	donations DonationService
	tasks     *Tasks
	log       logging.Logger

	now   func() time.Time
	newID func() string
}

func NewCheckoutService(c client.Client, session SessionManager, campaigns CampaignService, donations DonationService, tasks *Tasks, log logging.Logger) CheckoutService {
	return &checkoutService{
		client:    c,
		session:   session,
		campaigns: campaigns,
		donations: donations,
		tasks:     tasks,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Draft replaces any unfinished draft.
func (s *checkoutService) Draft(ctx context.Context, d models.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft != nil {
		s.log.Debug(ctx, "replacing unfinished donation draft", "campaign", s.draft.CampaignRef.String())
	}
	s.draft = &d
}

func (s *checkoutService) Current() (models.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return models.Draft{}, false
	}
	return *s.draft, true
}

func (s *checkoutService) Cancel(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft != nil {
		s.log.Debug(ctx, "donation draft cancelled")
	}
	s.draft = nil
}

func (s *checkoutService) validate(d models.Draft, p models.Payment) (models.Campaign, models.User, error) {
	verr := &ValidationError{}

	if !d.Amount.IsPositive() {
		verr.add("amount", "must be greater than zero")
	}

	campaign, ok := models.Campaign{}, false
	if !d.CampaignRef.IsZero() {
		campaign, ok = s.campaigns.Get(d.CampaignRef)
	}
	if !ok {
		verr.add("campaign", "unknown campaign")
	}

	donor, signedIn := s.session.Current()
	if !signedIn || !s.session.IsAuthorized(models.RoleDonor) {
		verr.add("donor", "sign in as a donor to donate")
	}

	if !d.Anonymous {
		if strings.TrimSpace(d.DonorName) == "" {
			verr.add("donorName", "required unless anonymous")
		}
		if strings.TrimSpace(d.DonorEmail) == "" {
			verr.add("donorEmail", "required unless anonymous")
		}
	}

	if len(common.LastDigits(p.CardNumber, 4)) < 4 {
		verr.add("cardNumber", "at least 4 digits required")
	}

	return campaign, donor, verr.orNil()
}

// begin claims the current draft for submission.
func (s *checkoutService) begin() (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return nil, ErrCheckoutInProgress
	}
	if s.draft == nil {
		return nil, ErrNoDraft
	}
	s.submitting = true
	return s.draft, nil
}

// finish releases the submission claim. When cleared is set the draft is
// dropped, unless it was replaced while the request was in flight.
func (s *checkoutService) finish(submitted *models.Draft, cleared bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submitting = false
	if cleared && s.draft == submitted {
		s.draft = nil
	}
}

// Finalize validates the draft, submits it and, on success, appends the
// donation to history, funds the campaign and clears the draft.
func (s *checkoutService) Finalize(ctx context.Context, p models.Payment) (models.Donation, error) {
	submitted, err := s.begin()
	if err != nil {
		return models.Donation{}, err
	}
	cleared := false
	defer func() { s.finish(submitted, cleared) }()
	d := *submitted

	campaign, donor, err := s.validate(d, p)
	if err != nil {
		return models.Donation{}, err
	}

	method := p.Method
	if method == "" {
		method = defaultPaymentMethod
	}
	organization := d.OrganizationName
	if organization == "" {
		organization = campaign.OrganizationName
	}
	title := d.CampaignTitle
	if title == "" {
		title = campaign.Title
	}

	donation := models.Donation{
		ID:               s.newID(),
		CampaignRef:      campaign.Key(),
		CampaignTitle:    title,
		DonorRef:         donor.ID,
		Amount:           d.Amount,
		DonorName:        d.DonorName,
		DonorEmail:       d.DonorEmail,
		OrganizationName: organization,
		Anonymous:        d.Anonymous,
		PaymentMethod:    method,
		CardLast4:        common.LastDigits(p.CardNumber, 4),
		Status:           models.DonationCompleted,
	}

	backendID, err := s.client.SubmitDonation(ctx, client.DonationRequest{
		CampaignID:       campaign.Key().String(),
		CampaignTitle:    donation.CampaignTitle,
		DonorID:          donation.DonorRef,
		DonorName:        donation.DonorName,
		DonorEmail:       donation.DonorEmail,
		OrganizationName: donation.OrganizationName,
		Amount:           donation.Amount,
		Anonymous:        donation.Anonymous,
		PaymentMethod:    donation.PaymentMethod,
		CardLast4:        donation.CardLast4,
	})
	if err != nil {
		s.log.Warn(ctx, "donation submit failed, draft kept", "campaign", campaign.Key().String(), "error", err)
		return models.Donation{}, fmt.Errorf("submit donation: %w", err)
	}
	donation.DurableID = backendID
	donation.CreatedAt = s.now()
	cleared = true

	s.donations.Append(ctx, donation)
	s.campaigns.ApplyFunding(ctx, campaign.Key(), donation.Amount)
	s.log.Info(ctx, "donation completed", "donation", donation.ID, "campaign", campaign.Key().String(), "amount", donation.Amount.String())

	s.tasks.Go("donation-notify", func(ctx context.Context) error {
		return s.client.NotifyDonation(ctx, donation)
	})

	return donation, nil
}

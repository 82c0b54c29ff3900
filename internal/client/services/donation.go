package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/WAVY91/front-project/internal/client/cache"
	"github.com/WAVY91/front-project/internal/client/client"
	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/client/reconcile"
	"github.com/WAVY91/front-project/internal/common"
	"github.com/WAVY91/front-project/internal/logging"
)

// DonationFetch loads an authoritative donation history.
type DonationFetch func(ctx context.Context) ([]models.Donation, error)

// DonationService owns the donation history. History is append-only:
// records are added by checkout or by reconciliation, never edited.
type DonationService interface {
	Load(ctx context.Context) int
	Reset(ctx context.Context)

	Reconcile(ctx context.Context, incoming []models.Donation) []models.Donation
	Append(ctx context.Context, d models.Donation)

	Fetcher(user *models.User) (DonationFetch, error)
	Refresh(ctx context.Context, fetch DonationFetch) error

	List() []models.Donation
	ForDonor(donorRef string) []models.Donation
	ForCampaign(c models.Campaign) []models.Donation
	TotalFor(donorRef string) decimal.Decimal
}

type donationService struct {
	mu        sync.Mutex
	donations []models.Donation

	client client.Client
	store  *cache.Store
	log    logging.Logger
}

func NewDonationService(c client.Client, store *cache.Store, log logging.Logger) DonationService {
	return &donationService{client: c, store: store, log: log}
}

func (s *donationService) save(ctx context.Context) {
	s.store.Save(ctx, common.CacheKeyDonations, s.donations)
}

func (s *donationService) Load(ctx context.Context) int {
	var cached []models.Donation
	if !s.store.Load(ctx, common.CacheKeyDonations, &cached) {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.donations = cached
	return len(cached)
}

func (s *donationService) Reset(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donations = nil
}

func (s *donationService) Reconcile(ctx context.Context, incoming []models.Donation) []models.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.donations = reconcile.Merge(incoming, s.donations)
	s.save(ctx)
	return append([]models.Donation(nil), s.donations...)
}

func (s *donationService) Append(ctx context.Context, d models.Donation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.donations = append(s.donations, d)
	s.save(ctx)
}

// Fetcher picks the history the user may see. Signed-out users have none.
func (s *donationService) Fetcher(user *models.User) (DonationFetch, error) {
	if user == nil || user.ID == "" {
		return nil, ErrNotAuthorized
	}
	id := user.ID
	switch user.Role {
	case models.RoleAdmin:
		return s.client.ListDonations, nil
	case models.RoleNGO:
		return func(ctx context.Context) ([]models.Donation, error) {
			return s.client.ListDonationsByNGO(ctx, id)
		}, nil
	default:
		return func(ctx context.Context) ([]models.Donation, error) {
			return s.client.ListDonationsByDonor(ctx, id)
		}, nil
	}
}

func (s *donationService) Refresh(ctx context.Context, fetch DonationFetch) error {
	incoming, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh donations: %w", err)
	}
	s.Reconcile(ctx, incoming)
	return nil
}

func (s *donationService) List() []models.Donation {
	return s.filter(func(models.Donation) bool { return true })
}

func (s *donationService) ForDonor(donorRef string) []models.Donation {
	return s.filter(func(d models.Donation) bool { return d.DonorRef == donorRef })
}

// ForCampaign includes donations recorded against c's local ID before the
// backend confirmed it.
func (s *donationService) ForCampaign(c models.Campaign) []models.Donation {
	return s.filter(func(d models.Donation) bool {
		ref := d.CampaignRef
		if ref.Kind == models.IdentityLocal {
			return c.LocalID != 0 && c.LocalID == ref.Local
		}
		return c.Matches(ref)
	})
}

func (s *donationService) TotalFor(donorRef string) decimal.Decimal {
	total := decimal.Zero
	for _, d := range s.ForDonor(donorRef) {
		total = total.Add(d.Amount)
	}
	return total
}

func (s *donationService) filter(keep func(models.Donation) bool) []models.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Donation, 0, len(s.donations))
	for _, d := range s.donations {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/WAVY91/front-project/internal/client/cache"
	"github.com/WAVY91/front-project/internal/client/client"
	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/client/reconcile"
	"github.com/WAVY91/front-project/internal/common"
	"github.com/WAVY91/front-project/internal/logging"
)

// CampaignFetch loads an authoritative campaign collection.
type CampaignFetch func(ctx context.Context) ([]models.Campaign, error)

// CampaignService owns the campaign collection.
//
// The local reducers (Reconcile, AddLocal, Confirm, Update, ApplyFunding,
// SetStatus, Remove) change memory first and then save the snapshot under
// campaigns_cache; a failed save never undoes the change.
// The remote commands (Refresh, Create, Edit, Delete, Approve, Reject) call
// the backend and leave state untouched when the call fails, except Create,
// which keeps its optimistic local copy.
type CampaignService interface {
	Load(ctx context.Context) int
	Reset(ctx context.Context)

	Reconcile(ctx context.Context, incoming []models.Campaign) []models.Campaign
	AddLocal(ctx context.Context, patch models.CampaignPatch) models.Campaign
	Confirm(ctx context.Context, local int64, durable string) bool
	Update(ctx context.Context, id models.Identity, patch models.CampaignPatch) (models.Campaign, error)
	ApplyFunding(ctx context.Context, id models.Identity, amount decimal.Decimal) bool
	SetStatus(ctx context.Context, id models.Identity, status models.CampaignStatus) error
	Remove(ctx context.Context, id models.Identity) error

	Fetcher(user *models.User) CampaignFetch
	Refresh(ctx context.Context, fetch CampaignFetch) error
	Create(ctx context.Context, patch models.CampaignPatch) (models.Campaign, error)
	Edit(ctx context.Context, id models.Identity, patch models.CampaignPatch) (models.Campaign, error)
	Delete(ctx context.Context, id models.Identity) error
	Approve(ctx context.Context, id models.Identity) error
	Reject(ctx context.Context, id models.Identity) error

	List() []models.Campaign
	Active() []models.Campaign
	ByOrganization(name string) []models.Campaign
	Get(id models.Identity) (models.Campaign, bool)
}

type campaignService struct {
	mu        sync.Mutex
	campaigns []models.Campaign

	client client.Client
	store  *cache.Store
	log    logging.Logger
}

func NewCampaignService(c client.Client, store *cache.Store, log logging.Logger) CampaignService {
	return &campaignService{client: c, store: store, log: log}
}

// save must be called with s.mu held.
func (s *campaignService) save(ctx context.Context) {
	s.store.Save(ctx, common.CacheKeyCampaigns, s.campaigns)
}

func (s *campaignService) snapshot() []models.Campaign {
	out := make([]models.Campaign, len(s.campaigns))
	copy(out, s.campaigns)
	return out
}

func (s *campaignService) indexOf(id models.Identity) int {
	for i, c := range s.campaigns {
		if c.Matches(id) {
			return i
		}
	}
	return -1
}

// Load replaces memory with the cached snapshot and returns its size.
func (s *campaignService) Load(ctx context.Context) int {
	var cached []models.Campaign
	if !s.store.Load(ctx, common.CacheKeyCampaigns, &cached) {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns = cached
	return len(cached)
}

// Reset drops memory without touching the cache.
func (s *campaignService) Reset(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns = nil
}

func (s *campaignService) Reconcile(ctx context.Context, incoming []models.Campaign) []models.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.campaigns = reconcile.Merge(incoming, s.campaigns)
	s.save(ctx)
	return s.snapshot()
}

// AddLocal field-merges patch into the campaign with the same identity, or
// appends a new pending campaign. A patch without identity gets the next
// local ID.
func (s *campaignService) AddLocal(ctx context.Context, patch models.CampaignPatch) models.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Key().IsZero() {
		patch.LocalID = reconcile.NextLocalID(s.campaigns, func(c models.Campaign) int64 { return c.LocalID })
	}
	patch = s.resolve(patch)

	entity := patch.Apply(models.Campaign{Status: models.CampaignPending})
	merged, updated := reconcile.Upsert(s.campaigns, entity, func(old, _ models.Campaign) models.Campaign {
		return patch.Apply(old)
	})
	s.campaigns = merged
	s.save(ctx)

	if updated {
		return s.campaigns[s.indexOf(patch.Key())]
	}
	return entity
}

// resolve gives a patch carrying only a local ID the durable ID of the
// campaign it was confirmed as, if any.
func (s *campaignService) resolve(patch models.CampaignPatch) models.CampaignPatch {
	if patch.DurableID != "" || patch.LocalID == 0 || s.indexOf(models.LocalID(patch.LocalID)) >= 0 {
		return patch
	}
	for _, c := range s.campaigns {
		if c.LocalID == patch.LocalID && c.DurableID != "" {
			patch.DurableID = c.DurableID
			break
		}
	}
	return patch
}

// Confirm records the durable ID the backend assigned to a local-only
// campaign.
func (s *campaignService) Confirm(ctx context.Context, local int64, durable string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(models.LocalID(local))
	if i < 0 {
		return false
	}
	s.campaigns[i].DurableID = durable
	s.save(ctx)
	return true
}

func (s *campaignService) Update(ctx context.Context, id models.Identity, patch models.CampaignPatch) (models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Campaign{}, fmt.Errorf("campaign %s: %w", id, common.ErrorNotFound)
	}
	patch.DurableID, patch.LocalID = "", 0
	s.campaigns[i] = patch.Apply(s.campaigns[i])
	s.save(ctx)
	return s.campaigns[i], nil
}

// ApplyFunding adds amount to the raised total and counts one more donor.
// Non-positive amounts and unknown campaigns are ignored. Donor reference
// lists are never extended.
func (s *campaignService) ApplyFunding(ctx context.Context, id models.Identity, amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Warn(ctx, "funding for unknown campaign ignored", "campaign", id.String())
		return false
	}
	s.campaigns[i].RaisedAmount = s.campaigns[i].RaisedAmount.Add(amount)
	s.campaigns[i].DonorCount++
	s.save(ctx)
	return true
}

func (s *campaignService) SetStatus(ctx context.Context, id models.Identity, status models.CampaignStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("campaign %s: %w", id, common.ErrorNotFound)
	}
	s.campaigns[i].Status = status
	s.campaigns[i].Verified = status == models.CampaignActive || status == models.CampaignApproved
	s.save(ctx)
	return nil
}

func (s *campaignService) Remove(ctx context.Context, id models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rest, n := reconcile.Remove(s.campaigns, func(c models.Campaign) bool { return c.Matches(id) })
	if n == 0 {
		return fmt.Errorf("campaign %s: %w", id, common.ErrorNotFound)
	}
	s.campaigns = rest
	s.save(ctx)
	return nil
}

// Fetcher picks the collection the user is entitled to see: everything for
// admins, the organization's own campaigns for NGOs, active campaigns for
// everyone else.
func (s *campaignService) Fetcher(user *models.User) CampaignFetch {
	switch {
	case user != nil && user.Role == models.RoleAdmin:
		return s.client.ListCampaigns
	case user != nil && user.Role == models.RoleNGO:
		id := user.ID
		return func(ctx context.Context) ([]models.Campaign, error) {
			return s.client.ListCampaignsByNGO(ctx, id)
		}
	default:
		return s.client.ListActiveCampaigns
	}
}

func (s *campaignService) Refresh(ctx context.Context, fetch CampaignFetch) error {
	incoming, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh campaigns: %w", err)
	}
	s.Reconcile(ctx, incoming)
	return nil
}

// Create adds the campaign locally first and then publishes it. On failure
// the local copy stays so that it can be published again.
func (s *campaignService) Create(ctx context.Context, patch models.CampaignPatch) (models.Campaign, error) {
	local := s.AddLocal(ctx, patch)

	created, err := s.client.CreateCampaign(ctx, local)
	if err != nil {
		s.log.Warn(ctx, "campaign kept locally, publish failed", "campaign", local.Key().String(), "error", err)
		return local, fmt.Errorf("publish campaign: %w", err)
	}

	if local.LocalID != 0 {
		s.Confirm(ctx, local.LocalID, created.DurableID)
	}
	if got, ok := s.Get(models.DurableID(created.DurableID)); ok {
		return got, nil
	}
	return created, nil
}

func (s *campaignService) Edit(ctx context.Context, id models.Identity, patch models.CampaignPatch) (models.Campaign, error) {
	current, ok := s.Get(id)
	if !ok {
		return models.Campaign{}, fmt.Errorf("campaign %s: %w", id, common.ErrorNotFound)
	}
	if current.DurableID != "" {
		if err := s.client.UpdateCampaign(ctx, current.DurableID, patch.Apply(current)); err != nil {
			return models.Campaign{}, fmt.Errorf("update campaign: %w", err)
		}
	}
	return s.Update(ctx, id, patch)
}

func (s *campaignService) Delete(ctx context.Context, id models.Identity) error {
	current, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("campaign %s: %w", id, common.ErrorNotFound)
	}
	if current.DurableID != "" {
		err := s.client.DeleteCampaign(ctx, current.DurableID)
		if err != nil && !errors.Is(err, client.ErrNotFound) {
			return fmt.Errorf("delete campaign: %w", err)
		}
	}
	return s.Remove(ctx, id)
}

func (s *campaignService) Approve(ctx context.Context, id models.Identity) error {
	return s.review(ctx, id, s.client.ApproveCampaign, models.CampaignActive)
}

func (s *campaignService) Reject(ctx context.Context, id models.Identity) error {
	return s.review(ctx, id, s.client.RejectCampaign, models.CampaignRejected)
}

func (s *campaignService) review(ctx context.Context, id models.Identity, call func(context.Context, string) error, status models.CampaignStatus) error {
	current, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("campaign %s: %w", id, common.ErrorNotFound)
	}
	if current.DurableID == "" {
		return fmt.Errorf("campaign %s is not published yet", id)
	}
	if err := call(ctx, current.DurableID); err != nil {
		return fmt.Errorf("review campaign: %w", err)
	}
	return s.SetStatus(ctx, id, status)
}

func (s *campaignService) List() []models.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *campaignService) Active() []models.Campaign {
	return s.filter(models.Campaign.IsActive)
}

func (s *campaignService) ByOrganization(name string) []models.Campaign {
	return s.filter(func(c models.Campaign) bool {
		return strings.EqualFold(c.OrganizationName, name)
	})
}

func (s *campaignService) filter(keep func(models.Campaign) bool) []models.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Campaign
	for _, c := range s.campaigns {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s *campaignService) Get(id models.Identity) (models.Campaign, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.campaigns[i], true
	}
	return models.Campaign{}, false
}

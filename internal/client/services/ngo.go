package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/WAVY91/front-project/internal/client/cache"
	"github.com/WAVY91/front-project/internal/client/client"
	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/client/reconcile"
	"github.com/WAVY91/front-project/internal/common"
	"github.com/WAVY91/front-project/internal/logging"
)

// NGOService tracks NGO applications for the admin dashboard. The backend
// lists replace the local ones on every successful refresh.
type NGOService interface {
	Load(ctx context.Context) bool
	Reset(ctx context.Context)
	Refresh(ctx context.Context) error
	Register(ctx context.Context, n models.NGO)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	Pending() []models.NGO
	Active() []models.NGO
	Directory(ctx context.Context) ([]models.NGO, error)
}

type ngoSnapshot struct {
	Pending []models.NGO `json:"pending"`
	Active  []models.NGO `json:"active"`
}

type ngoService struct {
	mu    sync.Mutex
	state ngoSnapshot

	client client.Client
	store  *cache.Store
	log    logging.Logger
}

func NewNGOService(c client.Client, store *cache.Store, log logging.Logger) NGOService {
	return &ngoService{client: c, store: store, log: log}
}

func (s *ngoService) save(ctx context.Context) {
	s.store.Save(ctx, common.CacheKeyNGOs, s.state)
}

func (s *ngoService) Load(ctx context.Context) bool {
	var cached ngoSnapshot
	if !s.store.Load(ctx, common.CacheKeyNGOs, &cached) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cached
	return true
}

func (s *ngoService) Reset(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ngoSnapshot{}
}

// Refresh fetches both lists. If either request fails the cached lists are
// kept and the error is returned.
func (s *ngoService) Refresh(ctx context.Context) error {
	pending, perr := s.client.ListPendingNGOs(ctx)
	active, aerr := s.client.ListActiveNGOs(ctx)
	if err := errors.Join(perr, aerr); err != nil {
		return fmt.Errorf("refresh ngos: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ngoSnapshot{Pending: pending, Active: active}
	s.save(ctx)
	return nil
}

// Register records a new pending application locally.
func (s *ngoService) Register(ctx context.Context, n models.NGO) {
	n.Status = models.NGOPending

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pending, _ = reconcile.Upsert(s.state.Pending, n, func(_, n models.NGO) models.NGO { return n })
	s.save(ctx)
}

func (s *ngoService) Approve(ctx context.Context, id string) error {
	if err := s.client.ApproveNGO(ctx, id); err != nil {
		return fmt.Errorf("approve ngo: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var approved []models.NGO
	s.state.Pending, _ = reconcile.Remove(s.state.Pending, func(n models.NGO) bool {
		if n.ID == id {
			approved = append(approved, n)
			return true
		}
		return false
	})
	for _, n := range approved {
		n.Status = models.NGOActive
		s.state.Active, _ = reconcile.Upsert(s.state.Active, n, func(_, n models.NGO) models.NGO { return n })
	}
	s.save(ctx)
	return nil
}

func (s *ngoService) Reject(ctx context.Context, id string) error {
	if err := s.client.RejectNGO(ctx, id); err != nil {
		return fmt.Errorf("reject ngo: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Pending, _ = reconcile.Remove(s.state.Pending, func(n models.NGO) bool { return n.ID == id })
	s.save(ctx)
	return nil
}

func (s *ngoService) Pending() []models.NGO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.NGO(nil), s.state.Pending...)
}

func (s *ngoService) Active() []models.NGO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.NGO(nil), s.state.Active...)
}

// Directory lists the verified NGOs shown to donors. It is not cached.
func (s *ngoService) Directory(ctx context.Context) ([]models.NGO, error) {
	list, err := s.client.ListNGOs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ngos: %w", err)
	}
	return list, nil
}

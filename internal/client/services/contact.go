package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/WAVY91/front-project/internal/client/client"
	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/client/reconcile"
	"github.com/WAVY91/front-project/internal/common"
	"github.com/WAVY91/front-project/internal/logging"
)

// ContactService submits contact-form messages and lets the admin work
// through them. Messages are kept in memory only.
type ContactService interface {
	Submit(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error)
	Fetch(ctx context.Context) ([]models.ContactMessage, error)
	Apply(ctx context.Context, msgs []models.ContactMessage)
	Messages() []models.ContactMessage
	MarkAttended(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Reset(ctx context.Context)
}

type contactService struct {
	mu       sync.Mutex
	messages []models.ContactMessage

	client client.Client
	tasks  *Tasks
	log    logging.Logger
}

func NewContactService(c client.Client, tasks *Tasks, log logging.Logger) ContactService {
	return &contactService{client: c, tasks: tasks, log: log}
}

func (s *contactService) Submit(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	verr := &ValidationError{}
	for _, f := range []struct{ name, value string }{{"name", m.Name}, {"email", m.Email}, {"message", m.Message}} {
		if strings.TrimSpace(f.value) == "" {
			verr.add(f.name, "required")
		}
	}
	if err := verr.orNil(); err != nil {
		return models.ContactMessage{}, err
	}

	saved, err := s.client.SubmitContact(ctx, m)
	if err != nil {
		return models.ContactMessage{}, fmt.Errorf("submit contact message: %w", err)
	}

	s.tasks.Go("contact-notify-admin", func(ctx context.Context) error {
		return s.client.NotifyAdmin(ctx, saved)
	})
	s.tasks.Go("contact-confirmation", func(ctx context.Context) error {
		return s.client.SendContactConfirmation(ctx, saved)
	})
	return saved, nil
}

func (s *contactService) Fetch(ctx context.Context) ([]models.ContactMessage, error) {
	return s.client.ListContacts(ctx)
}

// Apply replaces the message list with msgs.
func (s *contactService) Apply(_ context.Context, msgs []models.ContactMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = msgs
}

func (s *contactService) Messages() []models.ContactMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ContactMessage(nil), s.messages...)
}

func (s *contactService) MarkAttended(ctx context.Context, id string) error {
	if err := s.client.MarkContactAttended(ctx, id); err != nil {
		return fmt.Errorf("mark message attended: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Status = models.ContactAttended
			return nil
		}
	}
	return fmt.Errorf("message %s: %w", id, common.ErrorNotFound)
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteContact(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages, _ = reconcile.Remove(s.messages, func(m models.ContactMessage) bool { return m.ID == id })
	return nil
}

func (s *contactService) Reset(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

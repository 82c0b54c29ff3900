package services

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/WAVY91/front-project/internal/client/cache"
	"github.com/WAVY91/front-project/internal/client/client"
	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/logging"
)

// ---- helpers ----

func newStore(t *testing.T) (*cache.Store, *bytes.Buffer) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := client.InitDatabase(context.Background(), "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	buf := &bytes.Buffer{}
	return cache.NewStore(db, logging.New(buf, "debug")), buf
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

// ---- fake client ----

// fakeClient implements client.Client for service tests. Methods a test
// does not configure panic through the embedded nil interface.
type fakeClient struct {
	client.Client

	mu    sync.Mutex
	calls []string

	SignUpRet models.User
	SignUpErr error
	SignInRet client.AuthResult
	SignInErr error

	CampaignsRet []models.Campaign
	CampaignsErr error
	CreateRet    models.Campaign
	CreateErr    error
	UpdateErr    error
	DeleteErr    error
	ReviewErr    error

	SubmitRet    string
	SubmitErr    error
	LastSubmit   client.DonationRequest
	SubmitGate   chan struct{}
	NotifyErr    error
	DonationsRet []models.Donation
	DonationsErr error

	PendingRet []models.NGO
	PendingErr error
	ActiveRet  []models.NGO
	ActiveErr  error
	NGOErr     error

	ContactRet     models.ContactMessage
	ContactErr     error
	ContactsRet    []models.ContactMessage
	ContactsErr    error
	NotifyAdminErr error
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) SignUp(_ context.Context, role models.Role, _ models.SignUpForm) (models.User, error) {
	f.record("SignUp " + string(role))
	return f.SignUpRet, f.SignUpErr
}

func (f *fakeClient) SignIn(_ context.Context, role models.Role, _, _ string) (client.AuthResult, error) {
	f.record("SignIn " + string(role))
	return f.SignInRet, f.SignInErr
}

func (f *fakeClient) ListCampaigns(context.Context) ([]models.Campaign, error) {
	f.record("ListCampaigns")
	return f.CampaignsRet, f.CampaignsErr
}

func (f *fakeClient) ListActiveCampaigns(context.Context) ([]models.Campaign, error) {
	f.record("ListActiveCampaigns")
	return f.CampaignsRet, f.CampaignsErr
}

func (f *fakeClient) ListCampaignsByNGO(_ context.Context, id string) ([]models.Campaign, error) {
	f.record("ListCampaignsByNGO " + id)
	return f.CampaignsRet, f.CampaignsErr
}

func (f *fakeClient) CreateCampaign(_ context.Context, c models.Campaign) (models.Campaign, error) {
	f.record("CreateCampaign " + c.Title)
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) UpdateCampaign(_ context.Context, id string, _ models.Campaign) error {
	f.record("UpdateCampaign " + id)
	return f.UpdateErr
}

func (f *fakeClient) DeleteCampaign(_ context.Context, id string) error {
	f.record("DeleteCampaign " + id)
	return f.DeleteErr
}

func (f *fakeClient) ApproveCampaign(_ context.Context, id string) error {
	f.record("ApproveCampaign " + id)
	return f.ReviewErr
}

func (f *fakeClient) RejectCampaign(_ context.Context, id string) error {
	f.record("RejectCampaign " + id)
	return f.ReviewErr
}

func (f *fakeClient) SubmitDonation(_ context.Context, r client.DonationRequest) (string, error) {
	f.record("SubmitDonation " + r.CampaignID)
	f.mu.Lock()
	f.LastSubmit = r
	gate := f.SubmitGate
	f.mu.Unlock()
	if gate != nil {
		gate <- struct{}{}
		<-gate
	}
	return f.SubmitRet, f.SubmitErr
}

func (f *fakeClient) NotifyDonation(_ context.Context, d models.Donation) error {
	f.record("NotifyDonation " + d.ID)
	return f.NotifyErr
}

func (f *fakeClient) ListDonations(context.Context) ([]models.Donation, error) {
	f.record("ListDonations")
	return f.DonationsRet, f.DonationsErr
}

func (f *fakeClient) ListDonationsByDonor(_ context.Context, id string) ([]models.Donation, error) {
	f.record("ListDonationsByDonor " + id)
	return f.DonationsRet, f.DonationsErr
}

func (f *fakeClient) ListDonationsByNGO(_ context.Context, id string) ([]models.Donation, error) {
	f.record("ListDonationsByNGO " + id)
	return f.DonationsRet, f.DonationsErr
}

func (f *fakeClient) ListNGOs(context.Context) ([]models.NGO, error) {
	f.record("ListNGOs")
	return f.ActiveRet, f.ActiveErr
}

func (f *fakeClient) ListPendingNGOs(context.Context) ([]models.NGO, error) {
	f.record("ListPendingNGOs")
	return f.PendingRet, f.PendingErr
}

func (f *fakeClient) ListActiveNGOs(context.Context) ([]models.NGO, error) {
	f.record("ListActiveNGOs")
	return f.ActiveRet, f.ActiveErr
}

func (f *fakeClient) ApproveNGO(_ context.Context, id string) error {
	f.record("ApproveNGO " + id)
	return f.NGOErr
}

func (f *fakeClient) RejectNGO(_ context.Context, id string) error {
	f.record("RejectNGO " + id)
	return f.NGOErr
}

func (f *fakeClient) SubmitContact(_ context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	f.record("SubmitContact " + m.Subject)
	return f.ContactRet, f.ContactErr
}

func (f *fakeClient) ListContacts(context.Context) ([]models.ContactMessage, error) {
	f.record("ListContacts")
	return f.ContactsRet, f.ContactsErr
}

func (f *fakeClient) MarkContactAttended(_ context.Context, id string) error {
	f.record("MarkContactAttended " + id)
	return f.ContactErr
}

func (f *fakeClient) DeleteContact(_ context.Context, id string) error {
	f.record("DeleteContact " + id)
	return f.ContactErr
}

func (f *fakeClient) NotifyAdmin(_ context.Context, m models.ContactMessage) error {
	f.record("NotifyAdmin " + m.ID)
	return f.NotifyAdminErr
}

func (f *fakeClient) SendContactConfirmation(_ context.Context, m models.ContactMessage) error {
	f.record("SendContactConfirmation " + m.ID)
	return nil
}

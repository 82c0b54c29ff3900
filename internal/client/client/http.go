package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/common"
	"github.com/WAVY91/front-project/internal/logging"
)

// TokenSource returns the current bearer token, or "" when signed out.
type TokenSource func() string

type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	log     logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, token TokenSource, log logging.Logger) *HTTPClient {
	if token == nil {
		token = func() string { return "" }
	}
	if log == nil {
		log = logging.Discard()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
		log:     log,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (envelope, error) {
	var env envelope

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return env, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return env, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return env, ctx.Err()
		}
		return env, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, fmt.Errorf("%w: read %s %s: %v", ErrUnavailable, method, path, err)
	}
	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = json.Unmarshal(raw, &env)
	}

	if err := mapStatus(resp.StatusCode, env.Message); err != nil {
		c.log.Debug(ctx, "api request failed", "method", method, "path", path, "status", resp.StatusCode)
		return env, err
	}
	if decodeErr != nil {
		return env, fmt.Errorf("%w: %s %s: %v", models.ErrMalformedPayload, method, path, decodeErr)
	}
	if !env.ok() {
		return env, &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	return env, nil
}

func mapStatus(code int, msg string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	default:
		return &APIError{Status: code, Message: msg}
	}
}

func listOf[T any](ctx context.Context, c *HTTPClient, path string, parse func([]byte) (T, error)) ([]T, error) {
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if !hasPayload(env.Data) {
		return []T{}, nil
	}
	items, errs := models.ParseAll(env.Data, parse)
	for _, e := range errs {
		c.log.Warn(ctx, "dropping malformed record", "path", path, "error", e)
	}
	if items == nil {
		return nil, errors.Join(errs...)
	}
	return items, nil
}

func escape(id string) string {
	return url.PathEscape(id)
}

func (c *HTTPClient) SignUp(ctx context.Context, role models.Role, form models.SignUpForm) (models.User, error) {
	body := signUpBody{Name: form.Name, Email: form.Email, Password: form.Password}
	if role == models.RoleNGO {
		body.NGOName = form.OrganizationName
		body.Description = form.Description
	}

	env, err := c.do(ctx, http.MethodPost, "/"+string(role)+"/signup", body)
	if err != nil {
		return models.User{}, err
	}

	if hasPayload(env.User) {
		if u, err := models.ParseUser(env.User, role); err == nil {
			return u, nil
		}
	}
	return models.User{Name: form.Name, Email: form.Email, Role: role, OrganizationName: form.OrganizationName}, nil
}

func (c *HTTPClient) SignIn(ctx context.Context, role models.Role, email, password string) (AuthResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/"+string(role)+"/signin", signInBody{Email: email, Password: password})
	if err != nil {
		return AuthResult{}, err
	}

	raw := env.User
	if !hasPayload(raw) {
		raw = env.Data
	}
	u, err := models.ParseUser(raw, role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, Token: env.Token}, nil
}

func (c *HTTPClient) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	return listOf(ctx, c, "/campaign/all", models.ParseCampaign)
}

func (c *HTTPClient) ListActiveCampaigns(ctx context.Context) ([]models.Campaign, error) {
	return listOf(ctx, c, "/donor/campaigns/active", models.ParseCampaign)
}

func (c *HTTPClient) ListCampaignsByNGO(ctx context.Context, ngoID string) ([]models.Campaign, error) {
	return listOf(ctx, c, "/campaign/ngo/"+escape(ngoID), models.ParseCampaign)
}

func (c *HTTPClient) GetCampaign(ctx context.Context, id string) (models.Campaign, error) {
	env, err := c.do(ctx, http.MethodGet, "/campaign/"+escape(id), nil)
	if err != nil {
		return models.Campaign{}, err
	}
	return models.ParseCampaign(env.Data)
}

// CreateCampaign posts the campaign and returns it with the durable ID the
// backend assigned. The local ID of the argument is carried over.
func (c *HTTPClient) CreateCampaign(ctx context.Context, cm models.Campaign) (models.Campaign, error) {
	env, err := c.do(ctx, http.MethodPost, "/campaign/create", newCampaignBody(cm))
	if err != nil {
		return models.Campaign{}, err
	}

	if hasPayload(env.Data) {
		if created, err := models.ParseCampaign(env.Data); err == nil {
			if created.DurableID != "" {
				created.LocalID = cm.LocalID
				return created, nil
			}
		}
	}
	id := createdID(env.Data)
	if id == "" {
		return models.Campaign{}, fmt.Errorf("%w: create campaign returned no id", models.ErrMalformedPayload)
	}
	cm.DurableID = id
	return cm, nil
}

func (c *HTTPClient) UpdateCampaign(ctx context.Context, id string, cm models.Campaign) error {
	_, err := c.do(ctx, http.MethodPatch, "/campaign/"+escape(id), newCampaignBody(cm))
	return err
}

func (c *HTTPClient) DeleteCampaign(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/campaign/"+escape(id), nil)
	return err
}

func (c *HTTPClient) ApproveCampaign(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPatch, "/campaign/"+escape(id)+"/approve", nil)
	return err
}

func (c *HTTPClient) RejectCampaign(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPatch, "/campaign/"+escape(id)+"/reject", nil)
	return err
}

// SubmitDonation returns the backend ID of the stored donation, or "" when
// the backend did not report one.
func (c *HTTPClient) SubmitDonation(ctx context.Context, r DonationRequest) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/donation/submit", newDonationBody(r))
	if err != nil {
		return "", err
	}
	return createdID(env.Data), nil
}

func (c *HTTPClient) ListDonations(ctx context.Context) ([]models.Donation, error) {
	return listOf(ctx, c, "/donation/all", models.ParseDonation)
}

func (c *HTTPClient) ListDonationsByDonor(ctx context.Context, donorID string) ([]models.Donation, error) {
	return listOf(ctx, c, "/donation/donor/"+escape(donorID), models.ParseDonation)
}

func (c *HTTPClient) ListDonationsByNGO(ctx context.Context, ngoID string) ([]models.Donation, error) {
	return listOf(ctx, c, "/donation/ngo/"+escape(ngoID), models.ParseDonation)
}

func (c *HTTPClient) NotifyDonation(ctx context.Context, d models.Donation) error {
	_, err := c.do(ctx, http.MethodPost, "/donation/notify", donationNotifyBody{
		DonationID:    d.ID,
		CampaignTitle: d.CampaignTitle,
		DonorName:     d.DisplayName(),
		DonorEmail:    d.DonorEmail,
		Amount:        number(d.Amount),
	})
	return err
}

func (c *HTTPClient) ListNGOs(ctx context.Context) ([]models.NGO, error) {
	return listOf(ctx, c, "/ngo/all", models.ParseNGO)
}

func (c *HTTPClient) ListPendingNGOs(ctx context.Context) ([]models.NGO, error) {
	return listOf(ctx, c, "/admin/pending-ngos", models.ParseNGO)
}

func (c *HTTPClient) ListActiveNGOs(ctx context.Context) ([]models.NGO, error) {
	return listOf(ctx, c, "/admin/all-ngos", models.ParseNGO)
}

func (c *HTTPClient) ApproveNGO(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPatch, "/admin/approve-ngo/"+escape(id), nil)
	return err
}

func (c *HTTPClient) RejectNGO(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPatch, "/admin/reject-ngo/"+escape(id), nil)
	return err
}

func (c *HTTPClient) SubmitContact(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	env, err := c.do(ctx, http.MethodPost, "/contact/submit", newContactBody(m))
	if err != nil {
		return models.ContactMessage{}, err
	}
	if hasPayload(env.Data) {
		if saved, err := models.ParseContactMessage(env.Data); err == nil {
			return saved, nil
		}
	}
	m.ID = createdID(env.Data)
	return m, nil
}

func (c *HTTPClient) ListContacts(ctx context.Context) ([]models.ContactMessage, error) {
	return listOf(ctx, c, "/contact/all", models.ParseContactMessage)
}

func (c *HTTPClient) MarkContactAttended(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPatch, "/contact/"+escape(id)+"/mark-attended", nil)
	return err
}

func (c *HTTPClient) DeleteContact(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/contact/"+escape(id), nil)
	return err
}

func (c *HTTPClient) NotifyAdmin(ctx context.Context, m models.ContactMessage) error {
	_, err := c.do(ctx, http.MethodPost, "/contact/notify-admin", newContactBody(m))
	return err
}

func (c *HTTPClient) SendContactConfirmation(ctx context.Context, m models.ContactMessage) error {
	_, err := c.do(ctx, http.MethodPost, "/contact/send-confirmation", newContactBody(m))
	return err
}

var _ Client = (*HTTPClient)(nil)

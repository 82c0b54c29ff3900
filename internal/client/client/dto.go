package client

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/WAVY91/front-project/internal/client/models"
)

// envelope is the common shape of every backend response.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Token   string          `json:"token"`
}

func (e envelope) ok() bool {
	return e.Success == nil || *e.Success
}

func hasPayload(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

type signInBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpBody struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	NGOName     string `json:"ngoName,omitempty"`
	Description string `json:"description,omitempty"`
}

type campaignBody struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	GoalAmount  json.Number `json:"goalAmount"`
	Image       string      `json:"image,omitempty"`
	Category    string      `json:"category"`
	DaysLeft    int         `json:"daysLeft"`
	NGOName     string      `json:"ngoName,omitempty"`
	NGOID       string      `json:"ngoId,omitempty"`
	Status      string      `json:"status,omitempty"`
}

func newCampaignBody(c models.Campaign) campaignBody {
	return campaignBody{
		Title:       c.Title,
		Description: c.Description,
		GoalAmount:  number(c.GoalAmount),
		Image:       c.Image,
		Category:    c.Category,
		DaysLeft:    c.DaysRemaining,
		NGOName:     c.OrganizationName,
		NGOID:       c.OrganizationRef,
		Status:      string(c.Status),
	}
}

type donationBody struct {
	CampaignID    string      `json:"campaignId"`
	DonorID       string      `json:"donorId"`
	Amount        json.Number `json:"amount"`
	CampaignTitle string      `json:"campaignTitle"`
	DonorName     string      `json:"donorName"`
	DonorEmail    string      `json:"donorEmail"`
	NGOName       string      `json:"ngoName"`
	IsAnonymous   bool        `json:"isAnonymous"`
	PaymentMethod string      `json:"paymentMethod"`
	CardLast4     string      `json:"cardLast4"`
	Status        string      `json:"status"`
}

func newDonationBody(r DonationRequest) donationBody {
	return donationBody{
		CampaignID:    r.CampaignID,
		DonorID:       r.DonorID,
		Amount:        number(r.Amount),
		CampaignTitle: r.CampaignTitle,
		DonorName:     r.DonorName,
		DonorEmail:    r.DonorEmail,
		NGOName:       r.OrganizationName,
		IsAnonymous:   r.Anonymous,
		PaymentMethod: r.PaymentMethod,
		CardLast4:     r.CardLast4,
		Status:        string(models.DonationCompleted),
	}
}

type donationNotifyBody struct {
	DonationID    string      `json:"donationId"`
	CampaignTitle string      `json:"campaignTitle"`
	DonorName     string      `json:"donorName"`
	DonorEmail    string      `json:"donorEmail"`
	Amount        json.Number `json:"amount"`
}

type contactBody struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func newContactBody(m models.ContactMessage) contactBody {
	return contactBody{Name: m.Name, Email: m.Email, Subject: m.Subject, Message: m.Message}
}

// createdID reads "_id" or "id" from a create response payload.
func createdID(raw json.RawMessage) string {
	var v struct {
		UID string          `json:"_id"`
		ID  json.RawMessage `json:"id"`
	}
	if json.Unmarshal(raw, &v) != nil {
		return ""
	}
	if v.UID != "" {
		return v.UID
	}
	var s string
	if json.Unmarshal(v.ID, &s) == nil {
		return s
	}
	return ""
}

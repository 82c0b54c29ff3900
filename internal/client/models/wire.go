package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrMalformedPayload = errors.New("malformed payload")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}

// flexID accepts a JSON number or string. The backend sends "_id" as a
// string while some endpoints carry a numeric "id".
type flexID struct {
	num int64
	str string
}

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &f.str)
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("id %s is neither integer nor string", b)
	}
	f.num = n
	return nil
}

// identity resolves the "_id"/"id" pair into one durable string. Local IDs
// are only ever synthesized by the client, so a numeric backend id is
// durable too.
func identity(underscore string, id flexID) string {
	switch {
	case underscore != "":
		return underscore
	case id.str != "":
		return id.str
	case id.num != 0:
		return strconv.FormatInt(id.num, 10)
	}
	return ""
}

// donorField accepts either a counter or a list of donor references.
type donorField struct {
	set   bool
	count int
	refs  []string
}

func (d *donorField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		d.set, d.count = true, len(items)
		for _, it := range items {
			if ref := donorRef(it); ref != "" {
				d.refs = append(d.refs, ref)
			}
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("donors must be a number or a list: %w", err)
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("donors must be an integer: %w", err)
	}
	d.set, d.count = true, int(v)
	return nil
}

func donorRef(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		UID string `json:"_id"`
		ID  string `json:"id"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		if obj.UID != "" {
			return obj.UID
		}
		return obj.ID
	}
	return ""
}

type campaignWire struct {
	UID              string              `json:"_id"`
	ID               flexID              `json:"id"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	NGOName          string              `json:"ngoName"`
	NGOID            flexID              `json:"ngoId"`
	GoalAmount       decimal.NullDecimal `json:"goalAmount"`
	RaisedAmount     decimal.NullDecimal `json:"raisedAmount"`
	Image            string              `json:"image"`
	Category         string              `json:"category"`
	DaysLeft         *int                `json:"daysLeft"`
	Donors           donorField          `json:"donors"`
	TotalDonorsCount *int                `json:"totalDonorsCount"`
	Status           string              `json:"status"`
	Verified         bool                `json:"verified"`
	IsVerified       bool                `json:"isVerified"`
}

// ParseCampaign decodes one backend campaign record.
func ParseCampaign(data []byte) (Campaign, error) {
	var w campaignWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Campaign{}, malformed("campaign: %v", err)
	}

	c := Campaign{
		DurableID:        identity(w.UID, w.ID),
		Title:            w.Title,
		Description:      w.Description,
		OrganizationName: w.NGOName,
		OrganizationRef:  w.NGOID.str,
		Image:            w.Image,
		Category:         w.Category,
		Verified:         w.Verified || w.IsVerified,
		Status:           CampaignStatus(strings.ToLower(w.Status)),
	}
	if c.Key().IsZero() {
		return Campaign{}, malformed("campaign %q has no id", w.Title)
	}
	if c.OrganizationRef == "" && w.NGOID.num != 0 {
		c.OrganizationRef = strconv.FormatInt(w.NGOID.num, 10)
	}

	if w.GoalAmount.Valid {
		if w.GoalAmount.Decimal.IsNegative() {
			return Campaign{}, malformed("campaign %s: negative goal", c.Key())
		}
		c.GoalAmount = w.GoalAmount.Decimal
	}
	if w.RaisedAmount.Valid {
		if w.RaisedAmount.Decimal.IsNegative() {
			return Campaign{}, malformed("campaign %s: negative raised amount", c.Key())
		}
		c.RaisedAmount = w.RaisedAmount.Decimal
	}

	if w.DaysLeft != nil && *w.DaysLeft > 0 {
		c.DaysRemaining = *w.DaysLeft
	}

	c.DonorCount = w.Donors.count
	c.DonorRefs = w.Donors.refs
	if w.TotalDonorsCount != nil && *w.TotalDonorsCount > c.DonorCount {
		c.DonorCount = *w.TotalDonorsCount
	}
	if c.DonorCount < 0 {
		return Campaign{}, malformed("campaign %s: negative donor count", c.Key())
	}

	if c.Status == "" {
		c.Status = CampaignPending
	}
	if !c.Status.Valid() {
		return Campaign{}, malformed("campaign %s: unknown status %q", c.Key(), w.Status)
	}

	return c, nil
}

type donationWire struct {
	UID           string              `json:"_id"`
	ID            flexID              `json:"id"`
	CampaignID    flexID              `json:"campaignId"`
	CampaignTitle string              `json:"campaignTitle"`
	DonorID       flexID              `json:"donorId"`
	Amount        decimal.NullDecimal `json:"amount"`
	DonorName     string              `json:"donorName"`
	DonorEmail    string              `json:"donorEmail"`
	NGOName       string              `json:"ngoName"`
	IsAnonymous   bool                `json:"isAnonymous"`
	PaymentMethod string              `json:"paymentMethod"`
	CardLast4     string              `json:"cardLast4"`
	CreatedAt     *time.Time          `json:"createdAt"`
	Timestamp     *time.Time          `json:"timestamp"`
}

// ParseDonation decodes one backend donation record.
func ParseDonation(data []byte) (Donation, error) {
	var w donationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Donation{}, malformed("donation: %v", err)
	}

	d := Donation{
		ID:               w.ID.str,
		DurableID:        w.UID,
		CampaignRef:      IdentityOf(w.CampaignID.str, w.CampaignID.num),
		CampaignTitle:    w.CampaignTitle,
		DonorRef:         w.DonorID.str,
		DonorName:        w.DonorName,
		DonorEmail:       w.DonorEmail,
		OrganizationName: w.NGOName,
		Anonymous:        w.IsAnonymous,
		PaymentMethod:    w.PaymentMethod,
		CardLast4:        w.CardLast4,
		Status:           DonationCompleted,
	}
	if d.ID == "" && w.ID.num != 0 {
		d.ID = strconv.FormatInt(w.ID.num, 10)
	}
	if d.DonorRef == "" && w.DonorID.num != 0 {
		d.DonorRef = strconv.FormatInt(w.DonorID.num, 10)
	}
	if d.Key().IsZero() {
		return Donation{}, malformed("donation has no id")
	}
	if !w.Amount.Valid || !w.Amount.Decimal.IsPositive() {
		return Donation{}, malformed("donation %s: amount must be positive", d.Key())
	}
	d.Amount = w.Amount.Decimal

	switch {
	case w.CreatedAt != nil:
		d.CreatedAt = *w.CreatedAt
	case w.Timestamp != nil:
		d.CreatedAt = *w.Timestamp
	}

	return d, nil
}

type userWire struct {
	UID     string `json:"_id"`
	ID      flexID `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	NGOName string `json:"ngoName"`
}

// ParseUser decodes the "user" object of a sign-in response. fallback is
// used when the record carries no role.
func ParseUser(data []byte, fallback Role) (User, error) {
	var w userWire
	if err := json.Unmarshal(data, &w); err != nil {
		return User{}, malformed("user: %v", err)
	}

	u := User{
		Name:             w.Name,
		Email:            w.Email,
		Role:             Role(strings.ToLower(w.Role)),
		OrganizationName: w.NGOName,
	}
	u.ID = identity(w.UID, w.ID)
	if u.ID == "" && w.ID.num != 0 {
		u.ID = strconv.FormatInt(w.ID.num, 10)
	}
	if u.ID == "" {
		return User{}, malformed("user %q has no id", w.Email)
	}
	if u.Role == "" {
		u.Role = fallback
	}
	if !u.Role.Valid() {
		return User{}, malformed("user %s: unknown role %q", u.ID, w.Role)
	}
	return u, nil
}

type ngoWire struct {
	UID            string `json:"_id"`
	ID             flexID `json:"id"`
	NGOName        string `json:"ngoName"`
	Name           string `json:"name"`
	ContactName    string `json:"contactName"`
	Email          string `json:"email"`
	NGODescription string `json:"ngoDescription"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	Verified       bool   `json:"verified"`
}

// ParseNGO decodes one NGO application record.
func ParseNGO(data []byte) (NGO, error) {
	var w ngoWire
	if err := json.Unmarshal(data, &w); err != nil {
		return NGO{}, malformed("ngo: %v", err)
	}

	n := NGO{
		OrganizationName: firstNonEmpty(w.NGOName, w.Name),
		ContactName:      firstNonEmpty(w.ContactName, w.Name),
		Email:            w.Email,
		Description:      firstNonEmpty(w.NGODescription, w.Description),
		Status:           NGOStatus(strings.ToLower(w.Status)),
	}
	n.ID = identity(w.UID, w.ID)
	if n.ID == "" {
		return NGO{}, malformed("ngo %q has no id", n.OrganizationName)
	}

	switch n.Status {
	case NGOPending, NGOActive, NGORejected:
	case "":
		n.Status = NGOPending
		if w.Verified {
			n.Status = NGOActive
		}
	default:
		return NGO{}, malformed("ngo %s: unknown status %q", n.ID, w.Status)
	}
	return n, nil
}

type contactWire struct {
	UID       string     `json:"_id"`
	ID        flexID     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"createdAt"`
}

// ParseContactMessage decodes one contact form submission.
func ParseContactMessage(data []byte) (ContactMessage, error) {
	var w contactWire
	if err := json.Unmarshal(data, &w); err != nil {
		return ContactMessage{}, malformed("contact message: %v", err)
	}

	m := ContactMessage{
		Name:    w.Name,
		Email:   w.Email,
		Subject: w.Subject,
		Message: w.Message,
		Status:  ContactStatus(strings.ToLower(w.Status)),
	}
	m.ID = identity(w.UID, w.ID)
	if m.ID == "" {
		return ContactMessage{}, malformed("contact message from %q has no id", w.Email)
	}
	if m.Status == "" {
		m.Status = ContactNew
	}
	if w.CreatedAt != nil {
		m.CreatedAt = *w.CreatedAt
	}
	return m, nil
}

// ParseAll decodes a JSON array with parse, skipping malformed records.
// The returned errors describe the skipped records; a non-array payload
// yields a single ErrMalformedPayload error and no records.
func ParseAll[T any](data []byte, parse func([]byte) (T, error)) ([]T, []error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, []error{malformed("expected a list: %v", err)}
	}

	out := make([]T, 0, len(raws))
	var errs []error
	for _, raw := range raws {
		v, err := parse(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, v)
	}
	return out, errs
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

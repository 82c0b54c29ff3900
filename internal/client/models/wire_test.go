package models

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCampaign_Full(t *testing.T) {
	raw := `{
		"_id": "66a1",
		"title": "Clean Water",
		"description": "wells",
		"ngoName": "Aqua",
		"ngoId": "ngo-1",
		"goalAmount": 5000,
		"raisedAmount": "1250.50",
		"category": "Water",
		"daysLeft": 12,
		"donors": 7,
		"status": "Active",
		"isVerified": true
	}`

	got, err := ParseCampaign([]byte(raw))
	require.NoError(t, err)

	want := Campaign{
		DurableID:        "66a1",
		Title:            "Clean Water",
		Description:      "wells",
		OrganizationName: "Aqua",
		OrganizationRef:  "ngo-1",
		GoalAmount:       decimal.NewFromInt(5000),
		RaisedAmount:     decimal.RequireFromString("1250.50"),
		Category:         "Water",
		DaysRemaining:    12,
		DonorCount:       7,
		Status:           CampaignActive,
		Verified:         true,
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("ParseCampaign mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCampaign_NumericIDIsDurable(t *testing.T) {
	got, err := ParseCampaign([]byte(`{"id": 4, "title": "t", "goalAmount": 10}`))
	require.NoError(t, err)
	assert.Equal(t, DurableID("4"), got.Key())
	assert.Zero(t, got.LocalID)
	assert.Equal(t, CampaignPending, got.Status)
}

func TestParseCampaign_DonorListBecomesCount(t *testing.T) {
	got, err := ParseCampaign([]byte(`{"_id":"a","donors":["u1",{"_id":"u2"},{"name":"x"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 3, got.DonorCount)
	assert.Equal(t, []string{"u1", "u2"}, got.DonorRefs)
}

func TestParseCampaign_TotalDonorsCountWins(t *testing.T) {
	got, err := ParseCampaign([]byte(`{"_id":"a","donors":["u1"],"totalDonorsCount":9}`))
	require.NoError(t, err)
	assert.Equal(t, 9, got.DonorCount)
}

func TestParseCampaign_Malformed(t *testing.T) {
	tests := map[string]string{
		"no id":          `{"title":"t"}`,
		"negative goal":  `{"_id":"a","goalAmount":-1}`,
		"negative raise": `{"_id":"a","raisedAmount":-5}`,
		"bad amount":     `{"_id":"a","goalAmount":"lots"}`,
		"bad status":     `{"_id":"a","status":"archived"}`,
		"float id":       `{"id":1.5}`,
		"not an object":  `[1]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCampaign([]byte(raw))
			require.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestParseDonation(t *testing.T) {
	raw := `{"_id":"d1","campaignId":"66a1","donorId":"u1","amount":50,"donorName":"Ann",
		"isAnonymous":true,"cardLast4":"4242","timestamp":"2024-05-01T10:00:00Z"}`

	got, err := ParseDonation([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, DurableID("d1"), got.Key())
	assert.Equal(t, DurableID("66a1"), got.CampaignRef)
	assert.Equal(t, "u1", got.DonorRef)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, AnonymousName, got.DisplayName())
	assert.Equal(t, DonationCompleted, got.Status)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), got.CreatedAt.UTC())
}

func TestParseDonation_RejectsNonPositiveAmount(t *testing.T) {
	for _, raw := range []string{`{"_id":"d"}`, `{"_id":"d","amount":0}`, `{"_id":"d","amount":-3}`} {
		_, err := ParseDonation([]byte(raw))
		require.ErrorIs(t, err, ErrMalformedPayload, raw)
	}
}

func TestParseUser(t *testing.T) {
	got, err := ParseUser([]byte(`{"id":"u1","name":"Ngo","email":"n@x.org","ngoName":"Aqua"}`), RoleNGO)
	require.NoError(t, err)
	assert.Equal(t, User{ID: "u1", Name: "Ngo", Email: "n@x.org", Role: RoleNGO, OrganizationName: "Aqua"}, got)

	got, err = ParseUser([]byte(`{"_id":"u2","role":"ADMIN"}`), RoleDonor)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, got.Role)

	_, err = ParseUser([]byte(`{"name":"nobody"}`), RoleDonor)
	require.ErrorIs(t, err, ErrMalformedPayload)

	_, err = ParseUser([]byte(`{"id":"u3","role":"root"}`), RoleDonor)
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestParseNGO(t *testing.T) {
	got, err := ParseNGO([]byte(`{"_id":"n1","ngoName":"Aqua","name":"Jo","email":"jo@aqua.org","ngoDescription":"wells"}`))
	require.NoError(t, err)
	assert.Equal(t, NGO{ID: "n1", OrganizationName: "Aqua", ContactName: "Jo", Email: "jo@aqua.org", Description: "wells", Status: NGOPending}, got)

	got, err = ParseNGO([]byte(`{"_id":"n2","verified":true}`))
	require.NoError(t, err)
	assert.Equal(t, NGOActive, got.Status)
}

func TestParseContactMessage(t *testing.T) {
	got, err := ParseContactMessage([]byte(`{"_id":"m1","name":"Bo","subject":"Hi","message":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, ContactNew, got.Status)
	assert.Equal(t, "m1", got.ID)
}

func TestParseAll_SkipsMalformed(t *testing.T) {
	raw := `[{"_id":"a"},{"title":"no id"},{"id":2}]`

	got, errs := ParseAll([]byte(raw), ParseCampaign)
	require.Len(t, got, 2)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMalformedPayload)
	assert.Equal(t, DurableID("a"), got[0].Key())
	assert.Equal(t, DurableID("2"), got[1].Key())
}

func TestParseAll_NotAList(t *testing.T) {
	got, errs := ParseAll([]byte(`{"_id":"a"}`), ParseCampaign)
	assert.Nil(t, got)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMalformedPayload)
}

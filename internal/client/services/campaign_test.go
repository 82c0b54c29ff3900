package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WAVY91/front-project/internal/client/cache"
	"github.com/WAVY91/front-project/internal/client/client"
	"github.com/WAVY91/front-project/internal/client/models"
	"github.com/WAVY91/front-project/internal/common"
	"github.com/WAVY91/front-project/internal/logging"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func seedCampaigns(t *testing.T, svc CampaignService, list ...models.Campaign) {
	t.Helper()
	svc.Reconcile(context.Background(), list)
}

func TestCampaigns_ReconcileScenario(t *testing.T) {
	store, _ := newStore(t)
	svc := NewCampaignService(&fakeClient{}, store, logging.Discard())
	ctx := context.Background()

	svc.AddLocal(ctx, models.CampaignPatch{LocalID: 1})
	svc.ApplyFunding(ctx, models.LocalID(1), dec("100"))

	merged := svc.Reconcile(ctx, []models.Campaign{{DurableID: "a", RaisedAmount: dec("100")}})
	require.Len(t, merged, 2)
	assert.Equal(t, models.DurableID("a"), merged[0].Key())
	assert.Equal(t, models.LocalID(1), merged[1].Key())

	require.True(t, svc.ApplyFunding(ctx, models.DurableID("a"), dec("50")))

	got, ok := svc.Get(models.DurableID("a"))
	require.True(t, ok)
	assert.True(t, got.RaisedAmount.Equal(dec("150")))
	assert.Equal(t, 1, got.DonorCount)
}

func TestCampaigns_ReconcileIsIdempotentAndPersisted(t *testing.T) {
	store, _ := newStore(t)
	svc := NewCampaignService(&fakeClient{}, store, logging.Discard())
	ctx := context.Background()

	svc.AddLocal(ctx, models.CampaignPatch{Title: ptr("draft")})
	incoming := []models.Campaign{{DurableID: "a", Title: "A"}, {DurableID: "b", Title: "B"}}

	first := svc.Reconcile(ctx, incoming)
	second := svc.Reconcile(ctx, incoming)
	if diff := cmp.Diff(first, second, decimalEqual); diff != "" {
		t.Fatalf("second reconcile differs (-first +second):\n%s", diff)
	}

	var cached []models.Campaign
	require.True(t, store.Load(ctx, common.CacheKeyCampaigns, &cached))
	if diff := cmp.Diff(second, cached, decimalEqual); diff != "" {
		t.Errorf("cache mismatch (-memory +cache):\n%s", diff)
	}
}

func TestCampaigns_LocalDroppedOnceConfirmed(t *testing.T) {
	store, _ := newStore(t)
	svc := NewCampaignService(&fakeClient{}, store, logging.Discard())
	ctx := context.Background()

	local := svc.AddLocal(ctx, models.CampaignPatch{Title: ptr("Wells")})
	require.Equal(t, int64(1), local.LocalID)

	require.Len(t, svc.Reconcile(ctx, []models.Campaign{{DurableID: "x"}}), 2)

	require.True(t, svc.Confirm(ctx, local.LocalID, "srv-9"))
	merged := svc.Reconcile(ctx, []models.Campaign{{DurableID: "x"}, {DurableID: "srv-9", Title: "Wells (server)"}})

	require.Len(t, merged, 2)
	assert.Equal(t, "Wells (server)", merged[1].Title)
}

func TestCampaigns_LocalIDNeverReachesConfirmedCampaign(t *testing.T) {
	store, _ := newStore(t)
	svc := NewCampaignService(&fakeClient{}, store, logging.Discard())
	ctx := context.Background()

	mine := svc.AddLocal(ctx, models.CampaignPatch{Title: ptr("Mine")})
	require.Equal(t, models.LocalID(1), mine.Key())
	svc.Reconcile(ctx, []models.Campaign{{DurableID: "other", LocalID: 1, Title: "Theirs"}})

	require.True(t, svc.ApplyFunding(ctx, models.LocalID(1), dec("10")))
	require.True(t, svc.Confirm(ctx, 1, "mine-durable"))

	got, ok := svc.Get(models.DurableID("mine-durable"))
	require.True(t, ok)
	assert.Equal(t, "Mine", got.Title)
	assert.True(t, got.RaisedAmount.Equal(dec("10")))

	theirs, ok := svc.Get(models.DurableID("other"))
	require.True(t, ok)
	assert.Equal(t, "Theirs", theirs.Title)
	assert.True(t, theirs.RaisedAmount.IsZero())

	assert.False(t, svc.Confirm(ctx, 1, "again"), "no local-only campaign left")
	assert.False(t, svc.ApplyFunding(ctx, models.LocalID(1), dec("5")))
	_, err := svc.Edit(ctx, models.LocalID(1), models.CampaignPatch{Title: ptr("x")})
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Len(t, svc.List(), 2)
}

func TestCampaigns_AddLocalAfterConfirmMergesIntoDurable(t *testing.T) {
	store, _ := newStore(t)
	svc := NewCampaignService(&fakeClient{}, store, logging.Discard())
	ctx := context.Background()

	svc.AddLocal(ctx, models.CampaignPatch{Title: ptr("Wells")})
	require.True(t, svc.Confirm(ctx, 1, "srv-1"))

	got := svc.AddLocal(ctx, models.CampaignPatch{LocalID: 1, Description: ptr("deep")})
	assert.Equal(t, models.DurableID("srv-1"), got.Key())
	assert.Equal(t, "Wells", got.Title)
	assert.Equal(t, "deep", got.Description)
	assert.Len(t, svc.List(), 1)
}

func TestCampaigns_AddLocalSynthesizesIDAndMergesFields(t *testing.T) {
	store, _ := newStore(t)
	svc := NewCampaignService(&fakeClient{}, store, logging.Discard())
	ctx := context.Background()

	seedCampaigns(t, svc, models.Campaign{LocalID: 4, Title: "old"})

	added := svc.AddLocal(ctx, models.CampaignPatch{Title: ptr("new one"), GoalAmount: ptr(dec("300"))})
	assert.Equal(t, int64(5), added.LocalID)
	assert.Equal(t, models.CampaignPending, added.Status)

	merged := svc.AddLocal(ctx, models.CampaignPatch{LocalID: 5, Description: ptr("details")})
	assert.Equal(t, "new one", merged.Title)
	assert.Equal(t, "details", merged.Description)
	assert.True(t, merged.GoalAmount.Equal(dec("300")))
	assert.Len(t, svc.List(), 2)
}

func TestCampaigns_ApplyFundingMonotonic(t *testing.T) {
	store, _ := newStore(t)
	svc := NewCampaignService(&fakeClient{}, store, logging.Discard())
	ctx := context.Background()

	seedCampaigns(t, svc, models.Campaign{DurableID: "a", RaisedAmount: dec("10"), DonorCount: 2, DonorRefs: []string{"u1", "u2"}})

	amounts := []string{"5", "0", "-3", "2.50", "100"}
	applied := 0
	for _, a := range amounts {
		if svc.ApplyFunding(ctx, models.DurableID("a"), dec(a)) {
			applied++
		}
	}

	got, _ := svc.Get(models.DurableID("a"))
	assert.True(t, got.RaisedAmount.Equal(dec("117.50")), got.RaisedAmount.String())
	assert.Equal(t, 3, applied)
	assert.Equal(t, 5, got.DonorCount)
	assert.Equal(t, []string{"u1", "u2"}, got.DonorRefs)
}

func TestCampaigns_ApplyFundingUnknownIsNoop(t *testing.T) {
	store, buf := newStore(t)
	svc := NewCampaignService(&fakeClient{}, store, logging.New(buf, "debug"))

	assert.False(t, svc.ApplyFunding(context.Background(), models.DurableID("missing"), dec("5")))
	assert.Contains(t, buf.String(), "funding for unknown campaign")
}

func TestCampaigns_PersistenceFailureDoesNotAbortMutation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 2; i++ {
		mock.ExpectExec("INSERT INTO kv_cache").WillReturnError(errors.New("quota exceeded"))
	}

	svc := NewCampaignService(&fakeClient{}, cache.NewStore(db, logging.Discard()), logging.Discard())
	ctx := context.Background()

	svc.Reconcile(ctx, []models.Campaign{{DurableID: "a", RaisedAmount: dec("1")}})
	require.True(t, svc.ApplyFunding(ctx, models.DurableID("a"), dec("4")))

	got, ok := svc.Get(models.DurableID("a"))
	require.True(t, ok)
	assert.True(t, got.RaisedAmount.Equal(dec("5")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaigns_LoadFromCache(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	NewCampaignService(&fakeClient{}, store, logging.Discard()).Reconcile(ctx, []models.Campaign{{DurableID: "a"}, {DurableID: "b"}})

	svc := NewCampaignService(&fakeClient{}, store, logging.Discard())
	assert.Equal(t, 2, svc.Load(ctx))
	assert.Len(t, svc.List(), 2)
}

func TestCampaigns_RefreshFailureKeepsState(t *testing.T) {
	store, _ := newStore(t)
	fc := &fakeClient{CampaignsErr: client.ErrUnavailable}
	svc := NewCampaignService(fc, store, logging.Discard())
	ctx := context.Background()

	seedCampaigns(t, svc, models.Campaign{DurableID: "a"})

	err := svc.Refresh(ctx, svc.Fetcher(nil))
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Len(t, svc.List(), 1)
	assert.Equal(t, []string{"ListActiveCampaigns"}, fc.Calls())
}

func TestCampaigns_FetcherByRole(t *testing.T) {
	fc := &fakeClient{}
	svc := NewCampaignService(fc, nil, logging.Discard())
	ctx := context.Background()

	_, _ = svc.Fetcher(&models.User{ID: "a1", Role: models.RoleAdmin})(ctx)
	_, _ = svc.Fetcher(&models.User{ID: "n1", Role: models.RoleNGO})(ctx)
	_, _ = svc.Fetcher(&models.User{ID: "d1", Role: models.RoleDonor})(ctx)

	assert.Equal(t, []string{"ListCampaigns", "ListCampaignsByNGO n1", "ListActiveCampaigns"}, fc.Calls())
}

func TestCampaigns_CreateConfirmsDurableID(t *testing.T) {
	store, _ := newStore(t)
	fc := &fakeClient{CreateRet: models.Campaign{DurableID: "srv-1", LocalID: 1, Title: "Wells"}}
	svc := NewCampaignService(fc, store, logging.Discard())

	got, err := svc.Create(context.Background(), models.CampaignPatch{Title: ptr("Wells"), OrganizationName: ptr("Aqua")})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", got.DurableID)
	assert.Equal(t, int64(1), got.LocalID)
	assert.Equal(t, "Aqua", got.OrganizationName)
	assert.Len(t, svc.List(), 1)
}

func TestCampaigns_CreateFailureKeepsLocalCopy(t *testing.T) {
	store, _ := newStore(t)
	fc := &fakeClient{CreateErr: client.ErrUnavailable}
	svc := NewCampaignService(fc, store, logging.Discard())

	got, err := svc.Create(context.Background(), models.CampaignPatch{Title: ptr("Wells")})
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, models.LocalID(1), got.Key())
	assert.Len(t, svc.List(), 1)
}

func TestCampaigns_EditLocalOnlySkipsBackend(t *testing.T) {
	store, _ := newStore(t)
	fc := &fakeClient{}
	svc := NewCampaignService(fc, store, logging.Discard())
	ctx := context.Background()

	seedCampaigns(t, svc, models.Campaign{LocalID: 1, Title: "old"}, models.Campaign{DurableID: "a", Title: "old"})

	_, err := svc.Edit(ctx, models.LocalID(1), models.CampaignPatch{Title: ptr("new")})
	require.NoError(t, err)
	got, err := svc.Edit(ctx, models.DurableID("a"), models.CampaignPatch{Title: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, []string{"UpdateCampaign a"}, fc.Calls())
}

func TestCampaigns_EditFailureLeavesStateUnchanged(t *testing.T) {
	store, _ := newStore(t)
	svc := NewCampaignService(&fakeClient{UpdateErr: client.ErrUnauthorized}, store, logging.Discard())
	seedCampaigns(t, svc, models.Campaign{DurableID: "a", Title: "old"})

	_, err := svc.Edit(context.Background(), models.DurableID("a"), models.CampaignPatch{Title: ptr("new")})
	require.ErrorIs(t, err, client.ErrUnauthorized)

	got, _ := svc.Get(models.DurableID("a"))
	assert.Equal(t, "old", got.Title)
}

func TestCampaigns_DeleteAndReview(t *testing.T) {
	store, _ := newStore(t)
	fc := &fakeClient{}
	svc := NewCampaignService(fc, store, logging.Discard())
	ctx := context.Background()

	seedCampaigns(t, svc,
		models.Campaign{DurableID: "a", Status: models.CampaignPending},
		models.Campaign{DurableID: "b", Status: models.CampaignPending},
		models.Campaign{DurableID: "c", Status: models.CampaignActive},
	)

	require.NoError(t, svc.Approve(ctx, models.DurableID("a")))
	require.NoError(t, svc.Reject(ctx, models.DurableID("b")))
	require.NoError(t, svc.Delete(ctx, models.DurableID("c")))

	a, _ := svc.Get(models.DurableID("a"))
	assert.Equal(t, models.CampaignActive, a.Status)
	assert.True(t, a.Verified)
	b, _ := svc.Get(models.DurableID("b"))
	assert.Equal(t, models.CampaignRejected, b.Status)
	_, ok := svc.Get(models.DurableID("c"))
	assert.False(t, ok)

	assert.Equal(t, []string{"ApproveCampaign a", "RejectCampaign b", "DeleteCampaign c"}, fc.Calls())
	assert.Len(t, svc.Active(), 1)
}

func TestCampaigns_DeleteAlreadyGoneRemotely(t *testing.T) {
	store, _ := newStore(t)
	svc := NewCampaignService(&fakeClient{DeleteErr: client.ErrNotFound}, store, logging.Discard())
	seedCampaigns(t, svc, models.Campaign{DurableID: "a"})

	require.NoError(t, svc.Delete(context.Background(), models.DurableID("a")))
	assert.Empty(t, svc.List())
}

func TestCampaigns_ReviewRequiresPublished(t *testing.T) {
	store, _ := newStore(t)
	fc := &fakeClient{}
	svc := NewCampaignService(fc, store, logging.Discard())
	ctx := context.Background()
	svc.AddLocal(ctx, models.CampaignPatch{Title: ptr("draft")})

	require.Error(t, svc.Approve(ctx, models.LocalID(1)))
	require.ErrorIs(t, svc.Approve(ctx, models.LocalID(9)), common.ErrorNotFound)
	assert.Empty(t, fc.Calls())
}

func TestCampaigns_ByOrganization(t *testing.T) {
	store, _ := newStore(t)
	svc := NewCampaignService(&fakeClient{}, store, logging.Discard())
	seedCampaigns(t, svc,
		models.Campaign{DurableID: "a", OrganizationName: "Aqua"},
		models.Campaign{DurableID: "b", OrganizationName: "Terra"},
		models.Campaign{DurableID: "c", OrganizationName: "aqua"},
	)

	got := svc.ByOrganization("AQUA")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].DurableID)
	assert.Equal(t, "c", got[1].DurableID)
}

package pricedrop

import (
	"context"
	"errors"
	"testing"
	"time"

	"darbFilters/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePriceDropRepo struct {
	campaigns    map[uint64]domain.PriceDropCampaign
	targets      map[uint64]domain.PriceDropTarget
	funnelEvents []domain.PriceDropFunnelEvent
	nextTargetID uint64
	updates      []map[string]interface{}
}

func newFakePriceDropRepo() *fakePriceDropRepo {
	return &fakePriceDropRepo{
		campaigns:    make(map[uint64]domain.PriceDropCampaign),
		targets:      make(map[uint64]domain.PriceDropTarget),
		nextTargetID: 1,
	}
}

func (f *fakePriceDropRepo) CreateCampaign(_ context.Context, c *domain.PriceDropCampaign) error {
	c.CampaignID = uint64(len(f.campaigns) + 1)
	f.campaigns[c.CampaignID] = *c
	return nil
}

func (f *fakePriceDropRepo) FindCampaignByID(_ context.Context, storeID, campaignID uint64) (domain.PriceDropCampaign, error) {
	c, ok := f.campaigns[campaignID]
	if !ok || c.StoreID != storeID {
		return domain.PriceDropCampaign{}, errors.New("campaign not found")
	}
	return c, nil
}

func (f *fakePriceDropRepo) FindCampaigns(_ context.Context, storeID uint64) ([]domain.PriceDropCampaign, error) {
	var out []domain.PriceDropCampaign
	for _, c := range f.campaigns {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakePriceDropRepo) UpdateCampaign(_ context.Context, campaign *domain.PriceDropCampaign, fields map[string]interface{}) error {
	c, ok := f.campaigns[campaign.CampaignID]
	if !ok {
		return errors.New("campaign not found")
	}
	f.updates = append(f.updates, fields)
	if v, ok := fields["new_price"]; ok {
		c.NewPrice = v.(float64)
	}
	if v, ok := fields["discount_percent"]; ok {
		c.DiscountPercent = v.(int)
	}
	if v, ok := fields["salla_sync_status"]; ok {
		c.SallaSyncStatus = v.(string)
	}
	if v, ok := fields["salla_coupon_id"]; ok {
		c.SallaCouponID = v.(string)
	}
	if v, ok := fields["status"]; ok {
		c.Status = v.(string)
	}
	f.campaigns[campaign.CampaignID] = c
	return nil
}

func (f *fakePriceDropRepo) DeleteCampaign(_ context.Context, storeID, campaignID uint64) error {
	delete(f.campaigns, campaignID)
	return nil
}

func (f *fakePriceDropRepo) FindTargetCustomerIDs(_ context.Context, campaignID uint64) ([]string, error) {
	var ids []string
	for _, t := range f.targets {
		if t.CampaignID == campaignID {
			ids = append(ids, t.CustomerID)
		}
	}
	return ids, nil
}

func (f *fakePriceDropRepo) BulkInsertTargets(_ context.Context, targets []domain.PriceDropTarget) (int64, error) {
	var added int64
	for _, t := range targets {
		dup := false
		for _, existing := range f.targets {
			if existing.CampaignID == t.CampaignID && existing.CustomerID == t.CustomerID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		t.TargetID = f.nextTargetID
		f.nextTargetID++
		f.targets[t.TargetID] = t
		added++
	}
	return added, nil
}

func (f *fakePriceDropRepo) FindTargets(_ context.Context, campaignID uint64, limit, offset int) ([]domain.PriceDropTarget, int64, error) {
	var out []domain.PriceDropTarget
	for _, t := range f.targets {
		if t.CampaignID == campaignID {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePriceDropRepo) FindPendingEmailTargets(_ context.Context, campaignID uint64) ([]domain.PriceDropTarget, error) {
	var out []domain.PriceDropTarget
	for _, t := range f.targets {
		if t.CampaignID == campaignID && t.Status == domain.TargetStatusPending && t.CustomerEmail != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakePriceDropRepo) FindLatestTargetForCustomer(_ context.Context, storeID uint64, customerID string) (domain.PriceDropTarget, domain.PriceDropCampaign, error) {
	for _, t := range f.targets {
		if t.StoreID == storeID && t.CustomerID == customerID {
			return t, f.campaigns[t.CampaignID], nil
		}
	}
	return domain.PriceDropTarget{}, domain.PriceDropCampaign{}, errors.New("target not found")
}

func (f *fakePriceDropRepo) FindTargetByID(_ context.Context, targetID uint64) (domain.PriceDropTarget, error) {
	t, ok := f.targets[targetID]
	if !ok {
		return domain.PriceDropTarget{}, errors.New("target not found")
	}
	return t, nil
}

func (f *fakePriceDropRepo) MarkTargetNotified(_ context.Context, targetID uint64, seenAt time.Time) (bool, error) {
	t, ok := f.targets[targetID]
	if !ok || t.Status != domain.TargetStatusPending {
		return false, nil
	}
	t.Status = domain.TargetStatusNotified
	t.OnsiteSeenAt = &seenAt
	f.targets[targetID] = t
	return true, nil
}

func (f *fakePriceDropRepo) CreateFunnelEvent(_ context.Context, event *domain.PriceDropFunnelEvent) error {
	f.funnelEvents = append(f.funnelEvents, *event)
	return nil
}

func (f *fakePriceDropRepo) FunnelTotals(_ context.Context, campaignID uint64) (domain.FunnelTotals, error) {
	var totals domain.FunnelTotals
	for _, e := range f.funnelEvents {
		if e.CampaignID != campaignID {
			continue
		}
		switch e.EventType {
		case domain.FunnelImpression:
			totals.Impressions++
		case domain.FunnelClick:
			totals.Clicks++
		case domain.FunnelClose:
			totals.Closes++
		}
	}
	return totals, nil
}

type fakeViewRepo struct {
	views []domain.ProductView
}

func (f *fakeViewRepo) Create(_ context.Context, view *domain.ProductView) error {
	f.views = append(f.views, *view)
	return nil
}

func (f *fakeViewRepo) DistinctViewers(_ context.Context, storeID uint64, productID string) ([]domain.ProductView, error) {
	seen := make(map[string]bool)
	var out []domain.ProductView
	for _, v := range f.views {
		if v.StoreID == storeID && v.ProductID == productID && !seen[v.CustomerID] {
			seen[v.CustomerID] = true
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeStoreRepo struct{}

func (fakeStoreRepo) FindByID(_ context.Context, id uint64) (domain.Store, error) {
	return domain.Store{StoreID: id, Domain: "shop.example.com", SallaAccessToken: "token"}, nil
}

type fakeSallaRepo struct {
	priceErr    error
	couponErr   error
	priceCalls  int
	couponCalls int
}

func (f *fakeSallaRepo) UpdateProductPrice(_ context.Context, _, _ string, _, _ float64, _ time.Time) error {
	f.priceCalls++
	return f.priceErr
}

func (f *fakeSallaRepo) CreateCoupon(_ context.Context, _, _ string, _ int, _ time.Time) (string, error) {
	f.couponCalls++
	if f.couponErr != nil {
		return "", f.couponErr
	}
	return "987", nil
}

func (f *fakeSallaRepo) UpdateCoupon(_ context.Context, _, _, _ string, _ int, _ time.Time) error {
	f.couponCalls++
	return f.couponErr
}

type fakeNotifRepo struct {
	sent []string
	err  error
}

func (f *fakeNotifRepo) SendEmail(_, toEmail, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

func newService(repo *fakePriceDropRepo, views *fakeViewRepo, salla *fakeSallaRepo) *priceDropService {
	return NewPriceDropService(repo, views, fakeStoreRepo{}, salla, &fakeNotifRepo{})
}

func activeWindow() (time.Time, time.Time) {
	now := time.Now()
	return now.Add(-time.Hour), now.Add(24 * time.Hour)
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 25, DiscountPercent(100, 75))
	assert.Equal(t, 33, DiscountPercent(150, 100))
	assert.Equal(t, 0, DiscountPercent(0, 10))
}

func TestUpdateCampaignRecomputesPercent(t *testing.T) {
	repo := newFakePriceDropRepo()
	salla := &fakeSallaRepo{}
	svc := newService(repo, &fakeViewRepo{}, salla)

	starts, ends := activeWindow()
	created, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		StoreID:       7,
		ProductID:     "p1",
		ProductName:   "Oil Filter",
		DiscountType:  domain.DiscountTypePrice,
		OriginalPrice: 100,
		NewPrice:      80,
		StartsAt:      starts,
		EndsAt:        ends,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, created.DiscountPercent)

	newPrice := 75.0
	updated, err := svc.UpdateCampaign(context.Background(), 7, created.CampaignID, UpdateCampaignInput{NewPrice: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.DiscountPercent)
	assert.GreaterOrEqual(t, salla.priceCalls, 1)
}

func TestSallaFailureDoesNotAbortLocalUpdate(t *testing.T) {
	repo := newFakePriceDropRepo()
	salla := &fakeSallaRepo{priceErr: errors.New("salla down")}
	svc := newService(repo, &fakeViewRepo{}, salla)

	starts, ends := activeWindow()
	created, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		StoreID:       7,
		ProductID:     "p1",
		ProductName:   "Oil Filter",
		DiscountType:  domain.DiscountTypePrice,
		OriginalPrice: 100,
		NewPrice:      80,
		StartsAt:      starts,
		EndsAt:        ends,
	})
	require.NoError(t, err, "local create survives a failed sync")

	stored := repo.campaigns[created.CampaignID]
	assert.Equal(t, 80.0, stored.NewPrice)
	assert.Equal(t, domain.SyncStatusFailed, stored.SallaSyncStatus)
}

func TestCouponCampaignSyncsCouponPath(t *testing.T) {
	repo := newFakePriceDropRepo()
	salla := &fakeSallaRepo{}
	svc := newService(repo, &fakeViewRepo{}, salla)

	starts, ends := activeWindow()
	created, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		StoreID:       7,
		ProductID:     "p2",
		ProductName:   "Brake Pad",
		DiscountType:  domain.DiscountTypeCoupon,
		OriginalPrice: 200,
		NewPrice:      150,
		CouponCode:    "SAVE25",
		StartsAt:      starts,
		EndsAt:        ends,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, salla.priceCalls, "coupon campaigns never hit the price endpoint")
	assert.Equal(t, 1, salla.couponCalls)
	assert.Equal(t, "987", repo.campaigns[created.CampaignID].SallaCouponID)
}

func TestAttachNewViewersIsIdempotent(t *testing.T) {
	repo := newFakePriceDropRepo()
	views := &fakeViewRepo{views: []domain.ProductView{
		{StoreID: 7, ProductID: "p1", CustomerID: "c1", CustomerEmail: "c1@x.com"},
		{StoreID: 7, ProductID: "p1", CustomerID: "c2"},
		{StoreID: 7, ProductID: "p1", CustomerID: "c1"}, // repeat view
		{StoreID: 7, ProductID: "other", CustomerID: "c3"},
	}}
	svc := newService(repo, views, &fakeSallaRepo{})

	starts, ends := activeWindow()
	created, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		StoreID:       7,
		ProductID:     "p1",
		ProductName:   "Oil Filter",
		DiscountType:  domain.DiscountTypePrice,
		OriginalPrice: 100,
		NewPrice:      80,
		StartsAt:      starts,
		EndsAt:        ends,
	})
	require.NoError(t, err)

	added, err := svc.AttachNewViewers(context.Background(), 7, created.CampaignID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), added)

	added, err = svc.AttachNewViewers(context.Background(), 7, created.CampaignID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), added, "second run with no new viewers adds nothing")

	views.views = append(views.views, domain.ProductView{StoreID: 7, ProductID: "p1", CustomerID: "c4"})
	added, err = svc.AttachNewViewers(context.Background(), 7, created.CampaignID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)
}

func TestFirstImpressionFlipsTargetOnce(t *testing.T) {
	repo := newFakePriceDropRepo()
	svc := newService(repo, &fakeViewRepo{}, &fakeSallaRepo{})

	repo.campaigns[1] = domain.PriceDropCampaign{CampaignID: 1, StoreID: 7, Status: domain.CampaignStatusActive}
	repo.targets[10] = domain.PriceDropTarget{TargetID: 10, CampaignID: 1, StoreID: 7, CustomerID: "c1", Status: domain.TargetStatusPending}

	require.NoError(t, svc.RecordFunnelEvent(context.Background(), 10, domain.FunnelImpression))

	flipped := repo.targets[10]
	assert.Equal(t, domain.TargetStatusNotified, flipped.Status)
	require.NotNil(t, flipped.OnsiteSeenAt)
	firstSeen := *flipped.OnsiteSeenAt

	require.NoError(t, svc.RecordFunnelEvent(context.Background(), 10, domain.FunnelImpression))

	again := repo.targets[10]
	assert.Equal(t, domain.TargetStatusNotified, again.Status)
	assert.Equal(t, firstSeen, *again.OnsiteSeenAt, "second impression must not re-stamp")

	totals, err := repo.FunnelTotals(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Impressions, "both impressions are still recorded")
}

func TestRecordFunnelEventRejectsUnknownType(t *testing.T) {
	repo := newFakePriceDropRepo()
	svc := newService(repo, &fakeViewRepo{}, &fakeSallaRepo{})

	err := svc.RecordFunnelEvent(context.Background(), 10, "hover")
	assert.EqualError(t, err, "unknown funnel event type")
}

func TestCreateCampaignValidation(t *testing.T) {
	svc := newService(newFakePriceDropRepo(), &fakeViewRepo{}, &fakeSallaRepo{})
	starts, ends := activeWindow()

	_, err := svc.CreateCampaign(context.Background(), CreateCampaignInput{
		StoreID: 7, ProductID: "p1", DiscountType: domain.DiscountTypePrice,
		OriginalPrice: 100, NewPrice: 120, StartsAt: starts, EndsAt: ends,
	})
	assert.Error(t, err, "new price above original is rejected")

	_, err = svc.CreateCampaign(context.Background(), CreateCampaignInput{
		StoreID: 7, ProductID: "p1", DiscountType: "bogus",
		OriginalPrice: 100, NewPrice: 50, StartsAt: starts, EndsAt: ends,
	})
	assert.Error(t, err, "unknown discount type is rejected")

	_, err = svc.CreateCampaign(context.Background(), CreateCampaignInput{
		StoreID: 7, ProductID: "p1", DiscountType: domain.DiscountTypePrice,
		OriginalPrice: 100, NewPrice: 50, StartsAt: ends, EndsAt: starts,
	})
	assert.Error(t, err, "inverted schedule is rejected")
}

func TestSendEmailBlastSkipsFailures(t *testing.T) {
	repo := newFakePriceDropRepo()
	notif := &fakeNotifRepo{}
	svc := NewPriceDropService(repo, &fakeViewRepo{}, fakeStoreRepo{}, &fakeSallaRepo{}, notif)

	starts, ends := activeWindow()
	repo.campaigns[1] = domain.PriceDropCampaign{
		CampaignID: 1, StoreID: 7, ProductID: "p1", ProductName: "Oil Filter",
		ChannelEmail: true, StartsAt: starts, EndsAt: ends, Status: domain.CampaignStatusActive,
	}
	repo.targets[1] = domain.PriceDropTarget{TargetID: 1, CampaignID: 1, CustomerID: "c1", CustomerEmail: "c1@x.com", Status: domain.TargetStatusPending}
	repo.targets[2] = domain.PriceDropTarget{TargetID: 2, CampaignID: 1, CustomerID: "c2", Status: domain.TargetStatusPending}

	sent, err := svc.SendEmailBlast(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, sent, "only targets with an address are emailed")
	assert.Equal(t, []string{"c1@x.com"}, notif.sent)
}

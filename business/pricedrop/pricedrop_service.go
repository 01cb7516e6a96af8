package pricedrop

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"darbFilters/domain"
	"darbFilters/pkg/logger"
	"darbFilters/pkg/metrics"

	"github.com/google/uuid"
)

// PriceDropRepository contract interface
type PriceDropRepository interface {
	CreateCampaign(ctx context.Context, campaign *domain.PriceDropCampaign) error
	FindCampaignByID(ctx context.Context, storeID, campaignID uint64) (domain.PriceDropCampaign, error)
	FindCampaigns(ctx context.Context, storeID uint64) ([]domain.PriceDropCampaign, error)
	UpdateCampaign(ctx context.Context, campaign *domain.PriceDropCampaign, fields map[string]interface{}) error
	DeleteCampaign(ctx context.Context, storeID, campaignID uint64) error

	FindTargetCustomerIDs(ctx context.Context, campaignID uint64) ([]string, error)
	BulkInsertTargets(ctx context.Context, targets []domain.PriceDropTarget) (int64, error)
	FindTargets(ctx context.Context, campaignID uint64, limit, offset int) ([]domain.PriceDropTarget, int64, error)
	FindPendingEmailTargets(ctx context.Context, campaignID uint64) ([]domain.PriceDropTarget, error)
	FindLatestTargetForCustomer(ctx context.Context, storeID uint64, customerID string) (domain.PriceDropTarget, domain.PriceDropCampaign, error)
	FindTargetByID(ctx context.Context, targetID uint64) (domain.PriceDropTarget, error)
	MarkTargetNotified(ctx context.Context, targetID uint64, seenAt time.Time) (bool, error)

	CreateFunnelEvent(ctx context.Context, event *domain.PriceDropFunnelEvent) error
	FunnelTotals(ctx context.Context, campaignID uint64) (domain.FunnelTotals, error)
}

// ProductViewRepository contract interface
type ProductViewRepository interface {
	Create(ctx context.Context, view *domain.ProductView) error
	DistinctViewers(ctx context.Context, storeID uint64, productID string) ([]domain.ProductView, error)
}

// StoreRepository contract interface
type StoreRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Store, error)
}

// SallaRepository contract interface
type SallaRepository interface {
	UpdateProductPrice(ctx context.Context, accessToken, productID string, regularPrice, salePrice float64, saleEndsAt time.Time) error
	CreateCoupon(ctx context.Context, accessToken, code string, percent int, expiresAt time.Time) (string, error)
	UpdateCoupon(ctx context.Context, accessToken, couponID, code string, percent int, expiresAt time.Time) error
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(toName, toEmail, subject, htmlBody string) error
}

type priceDropService struct {
	priceDropRepo PriceDropRepository
	viewRepo      ProductViewRepository
	storeRepo     StoreRepository
	sallaRepo     SallaRepository
	notifRepo     NotificationRepository
}

func NewPriceDropService(
	priceDropRepo PriceDropRepository,
	viewRepo ProductViewRepository,
	storeRepo StoreRepository,
	sallaRepo SallaRepository,
	notifRepo NotificationRepository,
) *priceDropService {
	return &priceDropService{
		priceDropRepo: priceDropRepo,
		viewRepo:      viewRepo,
		storeRepo:     storeRepo,
		sallaRepo:     sallaRepo,
		notifRepo:     notifRepo,
	}
}

const emailBodyPriceDrop = `السعر انخفض! %s الآن بخصم %d%%.<br/><br/><a href="https://%s/p/%s">اطلبه الآن</a>`

// DiscountPercent recomputes the percent from the stored original price.
func DiscountPercent(originalPrice, newPrice float64) int {
	if originalPrice <= 0 {
		return 0
	}

	return int(math.Round((originalPrice - newPrice) / originalPrice * 100))
}

type CreateCampaignInput struct {
	StoreID         uint64
	ProductID       string
	ProductName     string
	DiscountType    string
	OriginalPrice   float64
	NewPrice        float64
	CouponCode      string
	ChannelOnsite   bool
	ChannelEmail    bool
	ChannelWhatsapp bool
	StartsAt        time.Time
	EndsAt          time.Time
}

func (s *priceDropService) CreateCampaign(ctx context.Context, input CreateCampaignInput) (*domain.PriceDropCampaign, error) {
	if input.ProductID == "" {
		return nil, errors.New("product id is required")
	}
	if input.OriginalPrice <= 0 {
		return nil, errors.New("original price must be positive")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, errors.New("ends_at must be after starts_at")
	}

	campaign := domain.PriceDropCampaign{
		StoreID:         input.StoreID,
		ProductID:       input.ProductID,
		ProductName:     input.ProductName,
		DiscountType:    input.DiscountType,
		OriginalPrice:   input.OriginalPrice,
		ChannelOnsite:   input.ChannelOnsite,
		ChannelEmail:    input.ChannelEmail,
		ChannelWhatsapp: input.ChannelWhatsapp,
		StartsAt:        input.StartsAt,
		EndsAt:          input.EndsAt,
		Status:          domain.CampaignStatusActive,
		SallaSyncStatus: domain.SyncStatusPending,
	}

	switch input.DiscountType {
	case domain.DiscountTypePrice:
		if input.NewPrice <= 0 || input.NewPrice >= input.OriginalPrice {
			return nil, errors.New("new price must be positive and below the original price")
		}
		campaign.NewPrice = input.NewPrice
		campaign.DiscountPercent = DiscountPercent(input.OriginalPrice, input.NewPrice)
	case domain.DiscountTypeCoupon:
		if input.NewPrice > 0 {
			campaign.NewPrice = input.NewPrice
			campaign.DiscountPercent = DiscountPercent(input.OriginalPrice, input.NewPrice)
		}
		campaign.CouponCode = input.CouponCode
		if campaign.CouponCode == "" {
			campaign.CouponCode = "DARB-" + strings.ToUpper(uuid.NewString()[:8])
		}
	default:
		return nil, errors.New("discount type must be price or coupon")
	}

	if err := s.priceDropRepo.CreateCampaign(ctx, &campaign); err != nil {
		logger.Error("Failed to create campaign", err)
		return nil, err
	}

	// Local row is the source of truth; the Salla sync below is best effort
	// and its outcome is recorded on the row.
	s.syncCampaign(ctx, &campaign)

	return &campaign, nil
}

type UpdateCampaignInput struct {
	NewPrice        *float64
	CouponCode      *string
	ChannelOnsite   *bool
	ChannelEmail    *bool
	ChannelWhatsapp *bool
	EndsAt          *time.Time
	Status          *string
}

func (s *priceDropService) UpdateCampaign(ctx context.Context, storeID, campaignID uint64, input UpdateCampaignInput) (*domain.PriceDropCampaign, error) {
	campaign, err := s.priceDropRepo.FindCampaignByID(ctx, storeID, campaignID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"updated_at": time.Now(),
	}

	if input.NewPrice != nil {
		if *input.NewPrice <= 0 || *input.NewPrice >= campaign.OriginalPrice {
			return nil, errors.New("new price must be positive and below the original price")
		}
		campaign.NewPrice = *input.NewPrice
		campaign.DiscountPercent = DiscountPercent(campaign.OriginalPrice, *input.NewPrice)
		fields["new_price"] = campaign.NewPrice
		fields["discount_percent"] = campaign.DiscountPercent
	}
	if input.CouponCode != nil {
		if campaign.DiscountType != domain.DiscountTypeCoupon {
			return nil, errors.New("coupon code only applies to coupon campaigns")
		}
		campaign.CouponCode = *input.CouponCode
		fields["coupon_code"] = campaign.CouponCode
	}
	if input.ChannelOnsite != nil {
		campaign.ChannelOnsite = *input.ChannelOnsite
		fields["channel_onsite"] = campaign.ChannelOnsite
	}
	if input.ChannelEmail != nil {
		campaign.ChannelEmail = *input.ChannelEmail
		fields["channel_email"] = campaign.ChannelEmail
	}
	if input.ChannelWhatsapp != nil {
		campaign.ChannelWhatsapp = *input.ChannelWhatsapp
		fields["channel_whatsapp"] = campaign.ChannelWhatsapp
	}
	if input.EndsAt != nil {
		if !input.EndsAt.After(campaign.StartsAt) {
			return nil, errors.New("ends_at must be after starts_at")
		}
		campaign.EndsAt = *input.EndsAt
		fields["ends_at"] = campaign.EndsAt
	}
	if input.Status != nil {
		switch *input.Status {
		case domain.CampaignStatusActive, domain.CampaignStatusPaused, domain.CampaignStatusEnded:
		default:
			return nil, errors.New("invalid campaign status")
		}
		campaign.Status = *input.Status
		fields["status"] = campaign.Status
	}

	// Local update first. A failed Salla sync must never roll this back.
	if err := s.priceDropRepo.UpdateCampaign(ctx, &campaign, fields); err != nil {
		logger.Error("Failed to update campaign", err)
		return nil, err
	}

	s.syncCampaign(ctx, &campaign)

	return &campaign, nil
}

// syncCampaign pushes the campaign's discount state to Salla and records the
// outcome. Failures are logged, never propagated.
func (s *priceDropService) syncCampaign(ctx context.Context, campaign *domain.PriceDropCampaign) {
	store, err := s.storeRepo.FindByID(ctx, campaign.StoreID)
	if err != nil {
		logger.Error("Failed to resolve store for salla sync", err)
		s.recordSync(ctx, campaign, domain.SyncStatusFailed)
		return
	}

	switch campaign.DiscountType {
	case domain.DiscountTypePrice:
		err = s.sallaRepo.UpdateProductPrice(ctx, store.SallaAccessToken, campaign.ProductID, campaign.OriginalPrice, campaign.NewPrice, campaign.EndsAt)
		if err != nil {
			logger.Error("SALLA_PRICE_SYNC_FAILED", err, "campaign_id", campaign.CampaignID)
			metrics.SallaSyncAttempts.WithLabelValues("price", "failed").Inc()
			s.recordSync(ctx, campaign, domain.SyncStatusFailed)
			return
		}
		metrics.SallaSyncAttempts.WithLabelValues("price", "success").Inc()
	case domain.DiscountTypeCoupon:
		if campaign.SallaCouponID == "" {
			couponID, err := s.sallaRepo.CreateCoupon(ctx, store.SallaAccessToken, campaign.CouponCode, campaign.DiscountPercent, campaign.EndsAt)
			if err != nil {
				logger.Error("SALLA_COUPON_CREATE_FAILED", err, "campaign_id", campaign.CampaignID)
				metrics.SallaSyncAttempts.WithLabelValues("coupon", "failed").Inc()
				s.recordSync(ctx, campaign, domain.SyncStatusFailed)
				return
			}
			campaign.SallaCouponID = couponID
			if err := s.priceDropRepo.UpdateCampaign(ctx, campaign, map[string]interface{}{"salla_coupon_id": couponID}); err != nil {
				logger.Error("Failed to store salla coupon id", err)
			}
		} else {
			err = s.sallaRepo.UpdateCoupon(ctx, store.SallaAccessToken, campaign.SallaCouponID, campaign.CouponCode, campaign.DiscountPercent, campaign.EndsAt)
			if err != nil {
				logger.Error("SALLA_COUPON_UPDATE_FAILED", err, "campaign_id", campaign.CampaignID)
				metrics.SallaSyncAttempts.WithLabelValues("coupon", "failed").Inc()
				s.recordSync(ctx, campaign, domain.SyncStatusFailed)
				return
			}
		}
		metrics.SallaSyncAttempts.WithLabelValues("coupon", "success").Inc()
	}

	s.recordSync(ctx, campaign, domain.SyncStatusSynced)
}

func (s *priceDropService) recordSync(ctx context.Context, campaign *domain.PriceDropCampaign, status string) {
	now := time.Now()
	campaign.SallaSyncStatus = status
	campaign.SallaSyncedAt = &now

	err := s.priceDropRepo.UpdateCampaign(ctx, campaign, map[string]interface{}{
		"salla_sync_status": status,
		"salla_synced_at":   now,
	})
	if err != nil {
		logger.Error("Failed to record salla sync status", err)
	}
}

func (s *priceDropService) GetCampaign(ctx context.Context, storeID, campaignID uint64) (domain.PriceDropCampaign, error) {
	return s.priceDropRepo.FindCampaignByID(ctx, storeID, campaignID)
}

func (s *priceDropService) GetCampaigns(ctx context.Context, storeID uint64) ([]domain.PriceDropCampaign, error) {
	return s.priceDropRepo.FindCampaigns(ctx, storeID)
}

func (s *priceDropService) DeleteCampaign(ctx context.Context, storeID, campaignID uint64) error {
	return s.priceDropRepo.DeleteCampaign(ctx, storeID, campaignID)
}

// AttachNewViewers inserts a pending target for every customer who viewed
// the campaign's product but is not targeted yet. Safe to call repeatedly;
// a rerun with no new viewers reports zero added.
func (s *priceDropService) AttachNewViewers(ctx context.Context, storeID, campaignID uint64) (int64, error) {
	campaign, err := s.priceDropRepo.FindCampaignByID(ctx, storeID, campaignID)
	if err != nil {
		return 0, err
	}

	viewers, err := s.viewRepo.DistinctViewers(ctx, storeID, campaign.ProductID)
	if err != nil {
		logger.Error("Failed to load product viewers", err)
		return 0, err
	}

	existing, err := s.priceDropRepo.FindTargetCustomerIDs(ctx, campaignID)
	if err != nil {
		logger.Error("Failed to load existing targets", err)
		return 0, err
	}

	targeted := make(map[string]bool, len(existing))
	for _, id := range existing {
		targeted[id] = true
	}

	var fresh []domain.PriceDropTarget
	for _, v := range viewers {
		if targeted[v.CustomerID] {
			continue
		}
		fresh = append(fresh, domain.PriceDropTarget{
			CampaignID:    campaignID,
			StoreID:       storeID,
			CustomerID:    v.CustomerID,
			CustomerName:  v.CustomerName,
			CustomerEmail: v.CustomerEmail,
			Status:        domain.TargetStatusPending,
		})
	}

	added, err := s.priceDropRepo.BulkInsertTargets(ctx, fresh)
	if err != nil {
		return 0, err
	}

	logger.Info("attached new viewers", "campaign_id", campaignID, "added", added)

	return added, nil
}

func (s *priceDropService) GetTargets(ctx context.Context, storeID, campaignID uint64, limit, offset int) ([]domain.PriceDropTarget, int64, error) {
	if _, err := s.priceDropRepo.FindCampaignByID(ctx, storeID, campaignID); err != nil {
		return nil, 0, err
	}

	return s.priceDropRepo.FindTargets(ctx, campaignID, limit, offset)
}

// SendEmailBlast emails every pending target that has an address, when the
// campaign's email channel is on. Individual failures are logged and
// skipped.
func (s *priceDropService) SendEmailBlast(ctx context.Context, storeID, campaignID uint64) (int, error) {
	campaign, err := s.priceDropRepo.FindCampaignByID(ctx, storeID, campaignID)
	if err != nil {
		return 0, err
	}
	if !campaign.ChannelEmail {
		return 0, errors.New("email channel is disabled for this campaign")
	}

	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return 0, err
	}

	targets, err := s.priceDropRepo.FindPendingEmailTargets(ctx, campaignID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, target := range targets {
		body := fmt.Sprintf(emailBodyPriceDrop, campaign.ProductName, campaign.DiscountPercent, store.Domain, campaign.ProductID)
		if err := s.notifRepo.SendEmail(target.CustomerName, target.CustomerEmail, campaign.ProductName, body); err != nil {
			logger.Warn("Failed to send price drop email", err, "target_id", target.TargetID)
			continue
		}
		sent++
	}

	return sent, nil
}

// PopupForCustomer returns the most recent actionable target with its
// campaign for the storefront popup.
func (s *priceDropService) PopupForCustomer(ctx context.Context, storeID uint64, customerID string) (domain.PriceDropTarget, domain.PriceDropCampaign, error) {
	if customerID == "" {
		return domain.PriceDropTarget{}, domain.PriceDropCampaign{}, errors.New("customer id is required")
	}

	return s.priceDropRepo.FindLatestTargetForCustomer(ctx, storeID, customerID)
}

// RecordFunnelEvent appends an impression/click/close against a target. The
// first impression flips the target pending -> notified and stamps
// onsite_seen_at; later impressions leave it untouched.
func (s *priceDropService) RecordFunnelEvent(ctx context.Context, targetID uint64, eventType string) error {
	if !domain.ValidFunnelEventTypes[eventType] {
		return errors.New("unknown funnel event type")
	}

	target, err := s.priceDropRepo.FindTargetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if eventType == domain.FunnelImpression {
		flipped, err := s.priceDropRepo.MarkTargetNotified(ctx, targetID, time.Now())
		if err != nil {
			logger.Error("Failed to mark target notified", err)
		} else if flipped {
			logger.Debug("target notified", "target_id", targetID)
		}
	}

	event := domain.PriceDropFunnelEvent{
		TargetID:   targetID,
		CampaignID: target.CampaignID,
		EventType:  eventType,
	}

	if err := s.priceDropRepo.CreateFunnelEvent(ctx, &event); err != nil {
		logger.Warn("Failed to persist funnel event", err)
		return nil
	}

	return nil
}

// TrackProductView records one (store, product, customer) view.
func (s *priceDropService) TrackProductView(ctx context.Context, view *domain.ProductView) error {
	if view.ProductID == "" || view.CustomerID == "" {
		return errors.New("product id and customer id are required")
	}

	if err := s.viewRepo.Create(ctx, view); err != nil {
		logger.Warn("Failed to persist product view", err)
		return nil
	}

	return nil
}

func (s *priceDropService) GetFunnelTotals(ctx context.Context, storeID, campaignID uint64) (domain.FunnelTotals, error) {
	if _, err := s.priceDropRepo.FindCampaignByID(ctx, storeID, campaignID); err != nil {
		return domain.FunnelTotals{}, err
	}

	return s.priceDropRepo.FunnelTotals(ctx, campaignID)
}

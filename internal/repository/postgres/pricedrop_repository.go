package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"darbFilters/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PriceDropRepository struct {
	DB *gorm.DB
}

func NewPriceDropRepository(db *gorm.DB) *PriceDropRepository {
	return &PriceDropRepository{
		DB: db,
	}
}

// Campaigns

func (r *PriceDropRepository) CreateCampaign(ctx context.Context, campaign *domain.PriceDropCampaign) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(campaign).Error; err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

func (r *PriceDropRepository) FindCampaignByID(ctx context.Context, storeID, campaignID uint64) (domain.PriceDropCampaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.PriceDropCampaign{}, fmt.Errorf("context error: %w", err)
	}

	var campaign domain.PriceDropCampaign

	err := r.DB.WithContext(ctx).
		Where("campaign_id = ? AND store_id = ?", campaignID, storeID).
		First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PriceDropCampaign{}, errors.New("campaign not found")
		}
		return domain.PriceDropCampaign{}, fmt.Errorf("failed to find campaign: %w", err)
	}

	return campaign, nil
}

func (r *PriceDropRepository) FindCampaigns(ctx context.Context, storeID uint64) ([]domain.PriceDropCampaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var campaigns []domain.PriceDropCampaign
	err := r.DB.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&campaigns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find campaigns: %w", err)
	}

	return campaigns, nil
}

func (r *PriceDropRepository) UpdateCampaign(ctx context.Context, campaign *domain.PriceDropCampaign, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.PriceDropCampaign{}).
		Where("campaign_id = ? AND store_id = ?", campaign.CampaignID, campaign.StoreID).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update campaign: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("campaign not found")
	}

	return nil
}

func (r *PriceDropRepository) DeleteCampaign(ctx context.Context, storeID, campaignID uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("campaign_id = ? AND store_id = ?", campaignID, storeID).
		Delete(&domain.PriceDropCampaign{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete campaign: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("campaign not found")
	}

	return nil
}

// Targets

func (r *PriceDropRepository) FindTargetCustomerIDs(ctx context.Context, campaignID uint64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []string
	err := r.DB.WithContext(ctx).Model(&domain.PriceDropTarget{}).
		Where("campaign_id = ?", campaignID).
		Pluck("customer_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find target customer ids: %w", err)
	}

	return ids, nil
}

// BulkInsertTargets skips rows whose (campaign_id, customer_id) already
// exists, which keeps attach-new-viewers idempotent.
func (r *PriceDropRepository) BulkInsertTargets(ctx context.Context, targets []domain.PriceDropTarget) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	if len(targets) == 0 {
		return 0, nil
	}

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "campaign_id"}, {Name: "customer_id"}},
		DoNothing: true,
	}).Create(&targets)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert targets: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *PriceDropRepository) FindTargets(ctx context.Context, campaignID uint64, limit, offset int) ([]domain.PriceDropTarget, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&domain.PriceDropTarget{}).Where("campaign_id = ?", campaignID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count targets: %w", err)
	}

	var targets []domain.PriceDropTarget
	err := r.DB.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&targets).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find targets: %w", err)
	}

	return targets, total, nil
}

func (r *PriceDropRepository) FindPendingEmailTargets(ctx context.Context, campaignID uint64) ([]domain.PriceDropTarget, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var targets []domain.PriceDropTarget
	err := r.DB.WithContext(ctx).
		Where("campaign_id = ? AND status = ? AND customer_email <> ''", campaignID, domain.TargetStatusPending).
		Find(&targets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending email targets: %w", err)
	}

	return targets, nil
}

// FindLatestTargetForCustomer returns the most recent pending/notified target
// for a (store, customer) pair whose campaign is still active and in window.
func (r *PriceDropRepository) FindLatestTargetForCustomer(ctx context.Context, storeID uint64, customerID string) (domain.PriceDropTarget, domain.PriceDropCampaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.PriceDropTarget{}, domain.PriceDropCampaign{}, fmt.Errorf("context error: %w", err)
	}

	var target domain.PriceDropTarget

	now := time.Now()
	err := r.DB.WithContext(ctx).
		Joins("JOIN price_drop_campaigns ON price_drop_campaigns.campaign_id = price_drop_targets.campaign_id").
		Where("price_drop_targets.store_id = ? AND price_drop_targets.customer_id = ?", storeID, customerID).
		Where("price_drop_targets.status IN ?", []string{domain.TargetStatusPending, domain.TargetStatusNotified}).
		Where("price_drop_campaigns.status = ?", domain.CampaignStatusActive).
		Where("price_drop_campaigns.channel_onsite = TRUE").
		Where("price_drop_campaigns.starts_at <= ? AND price_drop_campaigns.ends_at > ?", now, now).
		Order("price_drop_targets.created_at DESC").
		First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PriceDropTarget{}, domain.PriceDropCampaign{}, errors.New("target not found")
		}
		return domain.PriceDropTarget{}, domain.PriceDropCampaign{}, fmt.Errorf("failed to find target: %w", err)
	}

	var campaign domain.PriceDropCampaign
	err = r.DB.WithContext(ctx).Where("campaign_id = ?", target.CampaignID).First(&campaign).Error
	if err != nil {
		return domain.PriceDropTarget{}, domain.PriceDropCampaign{}, fmt.Errorf("failed to find target campaign: %w", err)
	}

	return target, campaign, nil
}

func (r *PriceDropRepository) FindTargetByID(ctx context.Context, targetID uint64) (domain.PriceDropTarget, error) {
	if err := ctx.Err(); err != nil {
		return domain.PriceDropTarget{}, fmt.Errorf("context error: %w", err)
	}

	var target domain.PriceDropTarget

	err := r.DB.WithContext(ctx).Where("target_id = ?", targetID).First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PriceDropTarget{}, errors.New("target not found")
		}
		return domain.PriceDropTarget{}, fmt.Errorf("failed to find target: %w", err)
	}

	return target, nil
}

// MarkTargetNotified flips a pending target to notified and stamps
// onsite_seen_at. The conditional WHERE makes a second impression a no-op.
func (r *PriceDropRepository) MarkTargetNotified(ctx context.Context, targetID uint64, seenAt time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.PriceDropTarget{}).
		Where("target_id = ? AND status = ?", targetID, domain.TargetStatusPending).
		Updates(map[string]interface{}{
			"status":         domain.TargetStatusNotified,
			"onsite_seen_at": seenAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark target notified: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// Funnel events

func (r *PriceDropRepository) CreateFunnelEvent(ctx context.Context, event *domain.PriceDropFunnelEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create funnel event: %w", err)
	}

	return nil
}

func (r *PriceDropRepository) FunnelTotals(ctx context.Context, campaignID uint64) (domain.FunnelTotals, error) {
	if err := ctx.Err(); err != nil {
		return domain.FunnelTotals{}, fmt.Errorf("context error: %w", err)
	}

	var totals domain.FunnelTotals

	err := r.DB.WithContext(ctx).Model(&domain.PriceDropFunnelEvent{}).
		Select(`COUNT(*) FILTER (WHERE event_type = 'impression') AS impressions,
		        COUNT(*) FILTER (WHERE event_type = 'click') AS clicks,
		        COUNT(*) FILTER (WHERE event_type = 'close') AS closes`).
		Where("campaign_id = ?", campaignID).
		Scan(&totals).Error
	if err != nil {
		return domain.FunnelTotals{}, fmt.Errorf("failed to aggregate funnel events: %w", err)
	}

	if err := r.DB.WithContext(ctx).Model(&domain.PriceDropTarget{}).Where("campaign_id = ?", campaignID).Count(&totals.Targets).Error; err != nil {
		return domain.FunnelTotals{}, fmt.Errorf("failed to count targets: %w", err)
	}

	if err := r.DB.WithContext(ctx).Model(&domain.PriceDropTarget{}).
		Where("campaign_id = ? AND status = ?", campaignID, domain.TargetStatusNotified).
		Count(&totals.Notified).Error; err != nil {
		return domain.FunnelTotals{}, fmt.Errorf("failed to count notified targets: %w", err)
	}

	return totals, nil
}

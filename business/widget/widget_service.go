package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"darbFilters/business/selector"
	"darbFilters/domain"
	"darbFilters/pkg/logger"
	"darbFilters/pkg/metrics"
)

// EventRepository contract interface
type EventRepository interface {
	Create(ctx context.Context, event *domain.WidgetEvent) error
}

// CatalogRepository contract interface
type CatalogRepository interface {
	FindKeywordsForSelection(ctx context.Context, storeID, modelID, sectionID uint64) ([]domain.Keyword, error)
}

// StoreRepository contract interface
type StoreRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Store, error)
}

// SnapshotProvider contract interface
type SnapshotProvider interface {
	Get(ctx context.Context, storeID uint64) (*domain.Snapshot, error)
}

type widgetService struct {
	eventRepo   EventRepository
	catalogRepo CatalogRepository
	storeRepo   StoreRepository
	snapshots   SnapshotProvider
}

func NewWidgetService(eventRepo EventRepository, catalogRepo CatalogRepository, storeRepo StoreRepository, snapshots SnapshotProvider) *widgetService {
	return &widgetService{
		eventRepo:   eventRepo,
		catalogRepo: catalogRepo,
		storeRepo:   storeRepo,
		snapshots:   snapshots,
	}
}

type EventInput struct {
	StoreID    uint64
	SessionKey string
	EventType  string
	BrandID    *uint64
	ModelID    *uint64
	YearID     *uint64
	SectionID  *uint64
	KeywordIDs []uint64
	Meta       map[string]interface{}
}

// LogEvent validates and persists one widget interaction. The storefront
// never sees ingestion failures, so persistence errors are logged and
// swallowed after validation passes.
func (s *widgetService) LogEvent(ctx context.Context, input EventInput) error {
	if input.StoreID == 0 {
		return errors.New("store id is required")
	}
	if input.SessionKey == "" {
		return errors.New("session key is required")
	}
	if !domain.ValidEventTypes[input.EventType] {
		return errors.New("unknown event type")
	}

	event := domain.WidgetEvent{
		StoreID:    input.StoreID,
		SessionKey: input.SessionKey,
		EventType:  input.EventType,
		BrandID:    input.BrandID,
		ModelID:    input.ModelID,
		YearID:     input.YearID,
		SectionID:  input.SectionID,
	}

	if len(input.KeywordIDs) > 0 {
		raw, err := json.Marshal(input.KeywordIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal keyword ids: %w", err)
		}
		event.KeywordIDs = string(raw)
	}

	if len(input.Meta) > 0 {
		raw, err := json.Marshal(input.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal meta: %w", err)
		}
		event.Meta = string(raw)
	}

	if err := s.eventRepo.Create(ctx, &event); err != nil {
		logger.Warn("Failed to persist widget event", err)
		return nil
	}

	metrics.WidgetEventsIngested.WithLabelValues(input.EventType).Inc()

	return nil
}

// Keywords is the live keyword lookup serving the widget's freshest-first
// keyword step.
func (s *widgetService) Keywords(ctx context.Context, storeID, modelID, sectionID uint64) ([]domain.Keyword, error) {
	if storeID == 0 || modelID == 0 || sectionID == 0 {
		return nil, errors.New("store, model and section ids are required")
	}

	keywords, err := s.catalogRepo.FindKeywordsForSelection(ctx, storeID, modelID, sectionID)
	if err != nil {
		logger.Error("Failed to find keywords", err)
		return nil, err
	}

	return keywords, nil
}

// StoreDomain resolves the storefront domain the widget redirects to.
func (s *widgetService) StoreDomain(ctx context.Context, storeID uint64) (string, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return "", err
	}

	return store.Domain, nil
}

// BuildSearchURL replays the storefront cascade server-side and returns the
// category URL the widget should navigate to.
func (s *widgetService) BuildSearchURL(ctx context.Context, storeID uint64, sessionKey string, brandID, modelID, yearID, sectionID uint64, keywordIDs []uint64) (string, error) {
	snap, err := s.snapshots.Get(ctx, storeID)
	if err != nil {
		return "", err
	}

	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return "", err
	}

	sel := selector.New(snap, sessionKey,
		selector.WithEventSink(sinkFunc(func(ctx context.Context, event domain.WidgetEvent) {
			// Best effort; the redirect must not depend on telemetry.
			if err := s.LogEvent(ctx, EventInput{
				StoreID:    event.StoreID,
				SessionKey: event.SessionKey,
				EventType:  event.EventType,
				BrandID:    event.BrandID,
				ModelID:    event.ModelID,
				YearID:     event.YearID,
				SectionID:  event.SectionID,
			}); err != nil {
				logger.Warn("widget event dropped", err)
			}
		})),
		selector.WithKeywordLoader(selector.WithFallback(liveKeywordSource{service: s, snapshot: snap})),
	)

	if err := sel.ChooseBrand(ctx, brandID); err != nil {
		return "", err
	}
	if err := sel.ChooseModel(ctx, modelID); err != nil {
		return "", err
	}
	if err := sel.ChooseYear(ctx, yearID); err != nil {
		return "", err
	}
	if err := sel.ChooseSection(ctx, sectionID); err != nil {
		return "", err
	}
	for _, id := range keywordIDs {
		if err := sel.ToggleKeyword(ctx, id); err != nil {
			return "", err
		}
	}

	return sel.Submit(ctx, store.Domain)
}

type sinkFunc func(ctx context.Context, event domain.WidgetEvent)

func (f sinkFunc) Log(ctx context.Context, event domain.WidgetEvent) {
	f(ctx, event)
}

// liveKeywordSource prefers the Postgres lookup and lets the fallback
// combinator degrade to the snapshot filter when it fails.
type liveKeywordSource struct {
	service  *widgetService
	snapshot *domain.Snapshot
}

func (l liveKeywordSource) FetchLive(ctx context.Context, q selector.Query) ([]selector.Option, error) {
	keywords, err := l.service.catalogRepo.FindKeywordsForSelection(ctx, q.StoreID, q.ModelID, q.SectionID)
	if err != nil {
		return nil, err
	}

	options := make([]selector.Option, 0, len(keywords))
	for _, kw := range keywords {
		options = append(options, selector.Option{ID: kw.KeywordID, Label: kw.Label, SallaCategoryID: kw.SallaCategoryID})
	}

	return options, nil
}

func (l liveKeywordSource) FetchFromCache(ctx context.Context, q selector.Query) ([]selector.Option, error) {
	return selector.SnapshotSource{Snapshot: l.snapshot}.FetchFromCache(ctx, q)
}

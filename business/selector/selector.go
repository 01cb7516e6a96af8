package selector

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"darbFilters/domain"
	"darbFilters/pkg/logger"
)

// Step indexes the five dependent dropdowns in cascade order.
type Step int

const (
	StepBrand Step = iota
	StepModel
	StepYear
	StepSection
	StepKeyword
)

const MaxKeywords = 5

var (
	ErrStepDisabled    = errors.New("step is disabled until upstream steps are chosen")
	ErrUnknownOption   = errors.New("option does not exist for this step")
	ErrTooManyKeywords = fmt.Errorf("at most %d keywords can be selected", MaxKeywords)
	ErrNotSubmittable  = errors.New("brand, model, year and section must all be chosen")
)

// EventSink receives telemetry for each successful transition. Delivery is
// best effort; implementations swallow their own failures.
type EventSink interface {
	Log(ctx context.Context, event domain.WidgetEvent)
}

// Selector drives the brand -> model -> year -> section -> keyword cascade
// over one store snapshot. Choosing a step clears everything downstream of
// it. Zero ids mean "not chosen".
type Selector struct {
	snapshot   *domain.Snapshot
	sessionKey string
	sink       EventSink
	keywords   LoadFunc

	brandID    uint64
	modelID    uint64
	yearID     uint64
	sectionID  uint64
	keywordIDs []uint64
}

type SelectorOption func(*Selector)

// WithEventSink attaches a telemetry sink.
func WithEventSink(sink EventSink) SelectorOption {
	return func(s *Selector) { s.sink = sink }
}

// WithKeywordLoader overrides the keyword step's loader, typically
// WithFallback over a live API source.
func WithKeywordLoader(load LoadFunc) SelectorOption {
	return func(s *Selector) { s.keywords = load }
}

func New(snapshot *domain.Snapshot, sessionKey string, opts ...SelectorOption) *Selector {
	s := &Selector{
		snapshot:   snapshot,
		sessionKey: sessionKey,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.keywords == nil {
		s.keywords = CacheOnly(SnapshotSource{Snapshot: snapshot})
	}

	return s
}

// SnapshotSource serves keyword options from the snapshot by exact
// (model_id, section_id) match. It has no live side.
type SnapshotSource struct {
	Snapshot *domain.Snapshot
}

func (s SnapshotSource) FetchLive(ctx context.Context, q Query) ([]Option, error) {
	return nil, errors.New("snapshot source has no live backend")
}

func (s SnapshotSource) FetchFromCache(ctx context.Context, q Query) ([]Option, error) {
	var options []Option
	for _, kw := range s.Snapshot.Keywords {
		if kw.ModelID == q.ModelID && kw.SectionID == q.SectionID {
			options = append(options, Option{ID: kw.KeywordID, Label: kw.Label, SallaCategoryID: kw.SallaCategoryID})
		}
	}

	return options, nil
}

// Option listings. Each list is already filtered by the chosen parent; a
// disabled step returns nil.

func (s *Selector) BrandOptions() []Option {
	options := make([]Option, 0, len(s.snapshot.Brands))
	for _, b := range s.snapshot.Brands {
		options = append(options, Option{ID: b.BrandID, Label: b.Name, SallaCategoryID: b.SallaCategoryID})
	}

	return options
}

func (s *Selector) ModelOptions() []Option {
	if s.brandID == 0 {
		return nil
	}

	var options []Option
	for _, m := range s.snapshot.Models {
		if m.BrandID == s.brandID {
			options = append(options, Option{ID: m.ModelID, Label: m.Name, SallaCategoryID: m.SallaCategoryID})
		}
	}

	return options
}

func (s *Selector) YearOptions() []Option {
	if s.modelID == 0 {
		return nil
	}

	var options []Option
	for _, y := range s.snapshot.Years {
		if y.ModelID == s.modelID {
			options = append(options, Option{ID: y.YearID, Label: y.Label, SallaCategoryID: y.SallaCategoryID})
		}
	}

	return options
}

func (s *Selector) SectionOptions() []Option {
	if s.yearID == 0 {
		return nil
	}

	options := make([]Option, 0, len(s.snapshot.Sections))
	for _, sec := range s.snapshot.Sections {
		options = append(options, Option{ID: sec.SectionID, Label: sec.Name, SallaCategoryID: sec.SallaCategoryID})
	}

	return options
}

func (s *Selector) KeywordOptions(ctx context.Context) ([]Option, error) {
	if s.modelID == 0 || s.sectionID == 0 {
		return nil, nil
	}

	return s.keywords(ctx, Query{StoreID: s.snapshot.Config.StoreID, ModelID: s.modelID, SectionID: s.sectionID})
}

// StepEnabled reports whether a step's control should accept input.
func (s *Selector) StepEnabled(step Step) bool {
	switch step {
	case StepBrand:
		return true
	case StepModel:
		return s.brandID != 0
	case StepYear:
		return s.modelID != 0
	case StepSection:
		return s.yearID != 0
	case StepKeyword:
		return s.sectionID != 0
	default:
		return false
	}
}

// Transitions. Every forward transition clears all downstream choices before
// installing the new one, then reports telemetry.

func (s *Selector) ChooseBrand(ctx context.Context, brandID uint64) error {
	if !s.optionExists(s.BrandOptions(), brandID) {
		return ErrUnknownOption
	}

	s.brandID = brandID
	s.modelID, s.yearID, s.sectionID = 0, 0, 0
	s.keywordIDs = nil

	s.log(ctx, domain.EventBrandSelect)

	return nil
}

func (s *Selector) ChooseModel(ctx context.Context, modelID uint64) error {
	if !s.StepEnabled(StepModel) {
		return ErrStepDisabled
	}
	if !s.optionExists(s.ModelOptions(), modelID) {
		return ErrUnknownOption
	}

	s.modelID = modelID
	s.yearID, s.sectionID = 0, 0
	s.keywordIDs = nil

	s.log(ctx, domain.EventModelSelect)

	return nil
}

func (s *Selector) ChooseYear(ctx context.Context, yearID uint64) error {
	if !s.StepEnabled(StepYear) {
		return ErrStepDisabled
	}
	if !s.optionExists(s.YearOptions(), yearID) {
		return ErrUnknownOption
	}

	s.yearID = yearID
	s.sectionID = 0
	s.keywordIDs = nil

	s.log(ctx, domain.EventYearSelect)

	return nil
}

func (s *Selector) ChooseSection(ctx context.Context, sectionID uint64) error {
	if !s.StepEnabled(StepSection) {
		return ErrStepDisabled
	}
	if !s.optionExists(s.SectionOptions(), sectionID) {
		return ErrUnknownOption
	}

	s.sectionID = sectionID
	s.keywordIDs = nil

	s.log(ctx, domain.EventSectionSelect)

	return nil
}

// ToggleKeyword adds or removes one keyword. Keyword choice never gates
// submission and is capped at MaxKeywords.
func (s *Selector) ToggleKeyword(ctx context.Context, keywordID uint64) error {
	if !s.StepEnabled(StepKeyword) {
		return ErrStepDisabled
	}

	for i, id := range s.keywordIDs {
		if id == keywordID {
			s.keywordIDs = append(s.keywordIDs[:i], s.keywordIDs[i+1:]...)
			return nil
		}
	}

	options, err := s.KeywordOptions(ctx)
	if err != nil {
		return err
	}
	if !s.optionExists(options, keywordID) {
		return ErrUnknownOption
	}

	if len(s.keywordIDs) >= MaxKeywords {
		return ErrTooManyKeywords
	}

	s.keywordIDs = append(s.keywordIDs, keywordID)

	s.log(ctx, domain.EventKeywordClick)

	return nil
}

// CanSubmit requires brand, model, year and section. Keywords are optional.
func (s *Selector) CanSubmit() bool {
	return s.brandID != 0 && s.modelID != 0 && s.yearID != 0 && s.sectionID != 0
}

// Selection exposes the chosen ids, for persistence and telemetry.
func (s *Selector) Selection() (brandID, modelID, yearID, sectionID uint64, keywordIDs []uint64) {
	return s.brandID, s.modelID, s.yearID, s.sectionID, append([]uint64(nil), s.keywordIDs...)
}

// Submit resolves each chosen row's Salla category id and builds the
// storefront category URL, then logs the search submit.
func (s *Selector) Submit(ctx context.Context, storeDomain string) (string, error) {
	if !s.CanSubmit() {
		return "", ErrNotSubmittable
	}

	brand := s.findBrand(s.brandID)
	model := s.findModel(s.modelID)
	year := s.findYear(s.yearID)
	section := s.findSection(s.sectionID)
	if brand == nil || model == nil || year == nil || section == nil {
		return "", ErrUnknownOption
	}

	params := url.Values{}
	params.Set("brand", strconv.FormatUint(brand.SallaCategoryID, 10))
	params.Set("model", strconv.FormatUint(model.SallaCategoryID, 10))
	params.Set("year", strconv.FormatUint(year.SallaCategoryID, 10))

	var labels []string
	for _, id := range s.keywordIDs {
		if kw := s.findKeyword(id); kw != nil {
			params.Add("keyword", strconv.FormatUint(kw.SallaCategoryID, 10))
			labels = append(labels, kw.Label)
		}
	}

	target := fmt.Sprintf("https://%s/category/%d?%s", storeDomain, section.SallaCategoryID, params.Encode())

	s.logSubmit(ctx, strings.Join(labels, ","))

	return target, nil
}

func (s *Selector) optionExists(options []Option, id uint64) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}

	return false
}

func (s *Selector) findBrand(id uint64) *domain.Brand {
	for i := range s.snapshot.Brands {
		if s.snapshot.Brands[i].BrandID == id {
			return &s.snapshot.Brands[i]
		}
	}
	return nil
}

func (s *Selector) findModel(id uint64) *domain.CarModel {
	for i := range s.snapshot.Models {
		if s.snapshot.Models[i].ModelID == id {
			return &s.snapshot.Models[i]
		}
	}
	return nil
}

func (s *Selector) findYear(id uint64) *domain.ModelYear {
	for i := range s.snapshot.Years {
		if s.snapshot.Years[i].YearID == id {
			return &s.snapshot.Years[i]
		}
	}
	return nil
}

func (s *Selector) findSection(id uint64) *domain.Section {
	for i := range s.snapshot.Sections {
		if s.snapshot.Sections[i].SectionID == id {
			return &s.snapshot.Sections[i]
		}
	}
	return nil
}

func (s *Selector) findKeyword(id uint64) *domain.Keyword {
	for i := range s.snapshot.Keywords {
		if s.snapshot.Keywords[i].KeywordID == id {
			return &s.snapshot.Keywords[i]
		}
	}
	return nil
}

func (s *Selector) log(ctx context.Context, eventType string) {
	if s.sink == nil {
		return
	}

	event := domain.WidgetEvent{
		StoreID:    s.snapshot.Config.StoreID,
		SessionKey: s.sessionKey,
		EventType:  eventType,
	}
	if s.brandID != 0 {
		event.BrandID = ptr(s.brandID)
	}
	if s.modelID != 0 {
		event.ModelID = ptr(s.modelID)
	}
	if s.yearID != 0 {
		event.YearID = ptr(s.yearID)
	}
	if s.sectionID != 0 {
		event.SectionID = ptr(s.sectionID)
	}

	s.sink.Log(ctx, event)
}

func (s *Selector) logSubmit(ctx context.Context, keywordLabels string) {
	if s.sink == nil {
		return
	}

	event := domain.WidgetEvent{
		StoreID:    s.snapshot.Config.StoreID,
		SessionKey: s.sessionKey,
		EventType:  domain.EventSearchSubmit,
		BrandID:    ptr(s.brandID),
		ModelID:    ptr(s.modelID),
		YearID:     ptr(s.yearID),
		SectionID:  ptr(s.sectionID),
	}
	if keywordLabels != "" {
		event.Meta = fmt.Sprintf(`{"keyword_labels":%q}`, keywordLabels)
	}

	s.sink.Log(ctx, event)
	logger.Debug("search_submit", "store_id", s.snapshot.Config.StoreID, "session", s.sessionKey)
}

func ptr(v uint64) *uint64 {
	return &v
}

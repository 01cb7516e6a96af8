package selector

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"darbFilters/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Brands: []domain.Brand{
			{BrandID: 1, Name: "Toyota", SallaCategoryID: 101},
			{BrandID: 2, Name: "Nissan", SallaCategoryID: 102},
		},
		Models: []domain.CarModel{
			{ModelID: 10, BrandID: 1, Name: "Camry", SallaCategoryID: 110},
			{ModelID: 11, BrandID: 1, Name: "Corolla", SallaCategoryID: 111},
			{ModelID: 20, BrandID: 2, Name: "Patrol", SallaCategoryID: 120},
		},
		Years: []domain.ModelYear{
			{YearID: 100, ModelID: 10, Label: "2020", SallaCategoryID: 1100},
			{YearID: 101, ModelID: 10, Label: "2021", SallaCategoryID: 1101},
			{YearID: 200, ModelID: 20, Label: "2019", SallaCategoryID: 1200},
		},
		Sections: []domain.Section{
			{SectionID: 1000, Name: "Engine", SallaCategoryID: 2000},
			{SectionID: 1001, Name: "Brakes", SallaCategoryID: 2001},
		},
		Keywords: []domain.Keyword{
			{KeywordID: 5000, ModelID: 10, SectionID: 1000, Label: "oil filter", SallaCategoryID: 3000},
			{KeywordID: 5001, ModelID: 10, SectionID: 1000, Label: "spark plug", SallaCategoryID: 3001},
			{KeywordID: 5002, ModelID: 10, SectionID: 1000, Label: "belt", SallaCategoryID: 3002},
			{KeywordID: 5003, ModelID: 10, SectionID: 1000, Label: "pump", SallaCategoryID: 3003},
			{KeywordID: 5004, ModelID: 10, SectionID: 1000, Label: "gasket", SallaCategoryID: 3004},
			{KeywordID: 5005, ModelID: 10, SectionID: 1000, Label: "mount", SallaCategoryID: 3005},
			{KeywordID: 5100, ModelID: 20, SectionID: 1001, Label: "brake pad", SallaCategoryID: 3100},
		},
		Config: domain.FilterConfig{StoreID: 7},
	}
}

func chooseAll(t *testing.T, s *Selector) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.ChooseBrand(ctx, 1))
	require.NoError(t, s.ChooseModel(ctx, 10))
	require.NoError(t, s.ChooseYear(ctx, 100))
	require.NoError(t, s.ChooseSection(ctx, 1000))
}

func TestModelOptionsNoCrossBrandLeakage(t *testing.T) {
	s := New(testSnapshot(), "sess")
	ctx := context.Background()

	require.NoError(t, s.ChooseBrand(ctx, 1))

	for _, opt := range s.ModelOptions() {
		assert.Contains(t, []uint64{10, 11}, opt.ID)
	}
	assert.Len(t, s.ModelOptions(), 2)

	require.NoError(t, s.ChooseModel(ctx, 10))
	for _, opt := range s.YearOptions() {
		assert.Contains(t, []uint64{100, 101}, opt.ID)
	}
	assert.Len(t, s.YearOptions(), 2)
}

func TestDownstreamStepsDisabledUntilChosen(t *testing.T) {
	s := New(testSnapshot(), "sess")

	assert.True(t, s.StepEnabled(StepBrand))
	assert.False(t, s.StepEnabled(StepModel))
	assert.False(t, s.StepEnabled(StepYear))
	assert.False(t, s.StepEnabled(StepSection))
	assert.False(t, s.StepEnabled(StepKeyword))

	assert.ErrorIs(t, s.ChooseModel(context.Background(), 10), ErrStepDisabled)
	assert.ErrorIs(t, s.ChooseYear(context.Background(), 100), ErrStepDisabled)
	assert.ErrorIs(t, s.ChooseSection(context.Background(), 1000), ErrStepDisabled)
}

func TestChoosingNewBrandResetsDownstream(t *testing.T) {
	s := New(testSnapshot(), "sess")
	ctx := context.Background()

	chooseAll(t, s)
	require.NoError(t, s.ToggleKeyword(ctx, 5000))
	require.True(t, s.CanSubmit())

	require.NoError(t, s.ChooseBrand(ctx, 2))

	_, modelID, yearID, sectionID, keywordIDs := s.Selection()
	assert.Zero(t, modelID)
	assert.Zero(t, yearID)
	assert.Zero(t, sectionID)
	assert.Empty(t, keywordIDs)

	assert.True(t, s.StepEnabled(StepModel))
	assert.False(t, s.StepEnabled(StepYear))
	assert.False(t, s.StepEnabled(StepSection))
	assert.False(t, s.StepEnabled(StepKeyword))
	assert.False(t, s.CanSubmit())
}

func TestSubmitRequiresAllFourSteps(t *testing.T) {
	s := New(testSnapshot(), "sess")
	ctx := context.Background()

	assert.False(t, s.CanSubmit())
	_, err := s.Submit(ctx, "shop.example.com")
	assert.ErrorIs(t, err, ErrNotSubmittable)

	require.NoError(t, s.ChooseBrand(ctx, 1))
	require.NoError(t, s.ChooseModel(ctx, 10))
	require.NoError(t, s.ChooseYear(ctx, 100))
	assert.False(t, s.CanSubmit())

	require.NoError(t, s.ChooseSection(ctx, 1000))
	assert.True(t, s.CanSubmit(), "submittable without any keyword")
}

func TestSubmitBuildsCategoryURL(t *testing.T) {
	s := New(testSnapshot(), "sess")
	ctx := context.Background()

	chooseAll(t, s)
	require.NoError(t, s.ToggleKeyword(ctx, 5000))

	target, err := s.Submit(ctx, "shop.example.com")
	require.NoError(t, err)

	parsed, err := url.Parse(target)
	require.NoError(t, err)
	assert.Equal(t, "shop.example.com", parsed.Host)
	assert.True(t, strings.HasSuffix(parsed.Path, "/2000"), "path carries the section salla id: %s", parsed.Path)
	assert.Equal(t, "101", parsed.Query().Get("brand"))
	assert.Equal(t, "110", parsed.Query().Get("model"))
	assert.Equal(t, "1100", parsed.Query().Get("year"))
	assert.Equal(t, []string{"3000"}, parsed.Query()["keyword"])
}

func TestKeywordCapAndToggle(t *testing.T) {
	s := New(testSnapshot(), "sess")
	ctx := context.Background()

	chooseAll(t, s)

	for _, id := range []uint64{5000, 5001, 5002, 5003, 5004} {
		require.NoError(t, s.ToggleKeyword(ctx, id))
	}
	assert.ErrorIs(t, s.ToggleKeyword(ctx, 5005), ErrTooManyKeywords)

	// toggling off makes room again
	require.NoError(t, s.ToggleKeyword(ctx, 5000))
	require.NoError(t, s.ToggleKeyword(ctx, 5005))
}

func TestKeywordScopedToModelAndSection(t *testing.T) {
	s := New(testSnapshot(), "sess")
	ctx := context.Background()

	chooseAll(t, s)

	// keyword 5100 belongs to (model 20, section 1001), not the current pair
	assert.ErrorIs(t, s.ToggleKeyword(ctx, 5100), ErrUnknownOption)

	options, err := s.KeywordOptions(ctx)
	require.NoError(t, err)
	for _, opt := range options {
		assert.NotEqual(t, uint64(5100), opt.ID)
	}
}

type recordingSink struct {
	events []domain.WidgetEvent
}

func (r *recordingSink) Log(_ context.Context, event domain.WidgetEvent) {
	r.events = append(r.events, event)
}

func TestTransitionsEmitTelemetry(t *testing.T) {
	sink := &recordingSink{}
	s := New(testSnapshot(), "sess-9", WithEventSink(sink))

	chooseAll(t, s)
	_, err := s.Submit(context.Background(), "shop.example.com")
	require.NoError(t, err)

	require.Len(t, sink.events, 5)
	assert.Equal(t, domain.EventBrandSelect, sink.events[0].EventType)
	assert.Equal(t, domain.EventModelSelect, sink.events[1].EventType)
	assert.Equal(t, domain.EventYearSelect, sink.events[2].EventType)
	assert.Equal(t, domain.EventSectionSelect, sink.events[3].EventType)
	assert.Equal(t, domain.EventSearchSubmit, sink.events[4].EventType)

	for _, ev := range sink.events {
		assert.Equal(t, uint64(7), ev.StoreID)
		assert.Equal(t, "sess-9", ev.SessionKey)
	}
}

type flakySource struct {
	liveErr   error
	liveOpts  []Option
	cacheOpts []Option
	liveCalls int
}

func (f *flakySource) FetchLive(_ context.Context, _ Query) ([]Option, error) {
	f.liveCalls++
	if f.liveErr != nil {
		return nil, f.liveErr
	}
	return f.liveOpts, nil
}

func (f *flakySource) FetchFromCache(_ context.Context, _ Query) ([]Option, error) {
	return f.cacheOpts, nil
}

func TestFallbackPrefersLive(t *testing.T) {
	src := &flakySource{
		liveOpts:  []Option{{ID: 1, Label: "live"}},
		cacheOpts: []Option{{ID: 2, Label: "cached"}},
	}

	options, err := WithFallback(src)(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, "live", options[0].Label)
	assert.Equal(t, 1, src.liveCalls)
}

func TestFallbackDegradesToCache(t *testing.T) {
	src := &flakySource{
		liveErr:   errors.New("upstream down"),
		cacheOpts: []Option{{ID: 2, Label: "cached"}},
	}

	options, err := WithFallback(src)(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, "cached", options[0].Label)
}

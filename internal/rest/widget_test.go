package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"darbFilters/business/widget"
	"darbFilters/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWidgetService struct {
	events []widget.EventInput
	url    string
	urlErr error
}

func (f *fakeWidgetService) LogEvent(_ context.Context, input widget.EventInput) error {
	if !domain.ValidEventTypes[input.EventType] {
		return errors.New("unknown event type")
	}
	f.events = append(f.events, input)
	return nil
}

func (f *fakeWidgetService) Keywords(_ context.Context, storeID, modelID, sectionID uint64) ([]domain.Keyword, error) {
	return []domain.Keyword{{KeywordID: 1, ModelID: modelID, SectionID: sectionID, Label: "فلتر زيت"}}, nil
}

func (f *fakeWidgetService) StoreDomain(_ context.Context, storeID uint64) (string, error) {
	return "darb.example.com", nil
}

func (f *fakeWidgetService) BuildSearchURL(_ context.Context, _ uint64, _ string, _, _, _, _ uint64, _ []uint64) (string, error) {
	return f.url, f.urlErr
}

type fakeSnapshotService struct{}

func (fakeSnapshotService) Get(_ context.Context, storeID uint64) (*domain.Snapshot, error) {
	if storeID == 404 {
		return nil, errors.New("store not found")
	}
	return &domain.Snapshot{Config: domain.DefaultFilterConfig(storeID)}, nil
}

type fakePopupService struct {
	hasPopup bool
}

func (f *fakePopupService) PopupForCustomer(_ context.Context, storeID uint64, customerID string) (domain.PriceDropTarget, domain.PriceDropCampaign, error) {
	if customerID == "" {
		return domain.PriceDropTarget{}, domain.PriceDropCampaign{}, errors.New("customer id is required")
	}
	if !f.hasPopup {
		return domain.PriceDropTarget{}, domain.PriceDropCampaign{}, errors.New("target not found")
	}
	return domain.PriceDropTarget{TargetID: 10},
		domain.PriceDropCampaign{ProductID: "p1", ProductName: "Oil Filter", DiscountPercent: 25},
		nil
}

func (f *fakePopupService) RecordFunnelEvent(_ context.Context, targetID uint64, eventType string) error {
	if !domain.ValidFunnelEventTypes[eventType] {
		return errors.New("unknown funnel event type")
	}
	return nil
}

func (f *fakePopupService) TrackProductView(_ context.Context, _ *domain.ProductView) error {
	return nil
}

func newWidgetTestHandler(popup *fakePopupService) (*WidgetHandler, *fakeWidgetService) {
	svc := &fakeWidgetService{url: "https://darb.example.com/category/200"}
	return NewWidgetHandler(svc, fakeSnapshotService{}, popup), svc
}

func doJSON(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLogEventAccepted(t *testing.T) {
	handler, svc := newWidgetTestHandler(&fakePopupService{})
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/api/widget/event",
		`{"store_id":7,"session_key":"s-1","event_type":"brand_select","brand_id":1}`)

	require.NoError(t, handler.LogEvent(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, svc.events, 1)
	assert.Equal(t, "brand_select", svc.events[0].EventType)
}

func TestLogEventRejectsUnknownType(t *testing.T) {
	handler, svc := newWidgetTestHandler(&fakePopupService{})
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/api/widget/event",
		`{"store_id":7,"session_key":"s-1","event_type":"hover"}`)

	require.NoError(t, handler.LogEvent(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.events)
}

func TestLogEventRequiresSessionKey(t *testing.T) {
	handler, _ := newWidgetTestHandler(&fakePopupService{})
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/api/widget/event",
		`{"store_id":7,"event_type":"brand_select"}`)

	require.NoError(t, handler.LogEvent(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWidgetData(t *testing.T) {
	handler, _ := newWidgetTestHandler(&fakePopupService{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/widget-data/7", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("store_id")
	c.SetParamValues("7")

	require.NoError(t, handler.GetWidgetData(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"brands"`)
}

func TestGetWidgetDataUnknownStore(t *testing.T) {
	handler, _ := newWidgetTestHandler(&fakePopupService{})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/widget-data/404", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("store_id")
	c.SetParamValues("404")

	require.NoError(t, handler.GetWidgetData(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPopupNoContentWhenNothingToShow(t *testing.T) {
	handler, _ := newWidgetTestHandler(&fakePopupService{hasPopup: false})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/widget/popup?store_id=7&customer_id=c1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.GetPopup(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetPopupReturnsPayload(t *testing.T) {
	handler, _ := newWidgetTestHandler(&fakePopupService{hasPopup: true})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/widget/popup?store_id=7&customer_id=c1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.GetPopup(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"discount_percent":25`)
}

func TestBuildSearchURL(t *testing.T) {
	handler, _ := newWidgetTestHandler(&fakePopupService{})
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/api/widget/search-url",
		`{"store_id":7,"session_key":"s-1","brand_id":1,"model_id":2,"year_id":3,"section_id":4}`)

	require.NoError(t, handler.BuildSearchURL(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://darb.example.com/category/200")
}

func TestBuildSearchURLMissingStep(t *testing.T) {
	handler, _ := newWidgetTestHandler(&fakePopupService{})
	e := echo.New()

	c, rec := doJSON(e, http.MethodPost, "/api/widget/search-url",
		`{"store_id":7,"session_key":"s-1","brand_id":1,"model_id":2}`)

	require.NoError(t, handler.BuildSearchURL(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePortfolio(t *testing.T, rec *httptest.ResponseRecorder) dto.PortfolioResponse {
	t.Helper()
	var p dto.PortfolioResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.NotNil(t, p.Valuation)
	return p
}

func TestPortfolioHoldingFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/portfolios", `{"name":"Long term"}`, sessionCookie())
	require.Equal(t, http.StatusCreated, rec.Code)
	p := decodePortfolio(t, rec)
	assert.Equal(t, "Long term", p.Name)
	base := fmt.Sprintf("/api/portfolios/%d", p.ID)

	rec = s.do(http.MethodPost, base+"/holdings", `{"asset_type":"stock","symbol":"TCS","quantity":10,"purchase_price":90}`, sessionCookie())
	require.Equal(t, http.StatusCreated, rec.Code)
	p = decodePortfolio(t, rec)
	require.Len(t, p.Valuation.Holdings, 1)
	holding := fmt.Sprintf("%s/holdings/%d", base, p.Valuation.Holdings[0].ID)

	rec = s.do(http.MethodPut, holding, `{"purchase_price":95}`, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 95, decodePortfolio(t, rec).Valuation.Holdings[0].PurchasePrice, 1e-9)

	rec = s.do(http.MethodPost, holding+"/sell", `{"quantity":4}`, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 6, decodePortfolio(t, rec).Valuation.Holdings[0].Quantity, 1e-9)

	rec = s.do(http.MethodPost, holding+"/sell", `{"quantity":7}`, sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot sell more than the held quantity", errorBody(t, rec))

	rec = s.do(http.MethodPost, holding+"/sell", `{"quantity":6}`, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodePortfolio(t, rec).Valuation.Holdings)

	rec = s.do(http.MethodGet, base+"/valuation", "", sessionCookie())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"holdings":[]`)

	rec = s.do(http.MethodPut, base, `{"name":"Renamed"}`, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decodePortfolio(t, rec).Name)

	rec = s.do(http.MethodDelete, base, "", sessionCookie())
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(http.MethodGet, base, "", sessionCookie())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Portfolio not found", errorBody(t, rec))
}

func TestPortfolioLiquidateHolding(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/portfolios", `{"name":"Funds"}`, sessionCookie())
	require.Equal(t, http.StatusCreated, rec.Code)
	base := fmt.Sprintf("/api/portfolios/%d", decodePortfolio(t, rec).ID)

	rec = s.do(http.MethodPost, base+"/holdings", `{"asset_type":"mutual_fund","symbol":"AXISBLUE","quantity":2.5}`, sessionCookie())
	require.Equal(t, http.StatusCreated, rec.Code)
	holding := fmt.Sprintf("%s/holdings/%d", base, decodePortfolio(t, rec).Valuation.Holdings[0].ID)

	rec = s.do(http.MethodDelete, holding, "", sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodePortfolio(t, rec).Valuation.Holdings)

	rec = s.do(http.MethodDelete, holding, "", sessionCookie())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Holding not found", errorBody(t, rec))
}

func TestPortfolioRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/portfolios", `{"name":"P"}`, sessionCookie())
	require.Equal(t, http.StatusCreated, rec.Code)
	base := fmt.Sprintf("/api/portfolios/%d", decodePortfolio(t, rec).ID)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   string
	}{
		{"non numeric id", http.MethodGet, "/api/portfolios/abc", "", "Invalid portfolio ID"},
		{"zero id", http.MethodGet, "/api/portfolios/0", "", "Invalid portfolio ID"},
		{"negative id", http.MethodDelete, "/api/portfolios/-1", "", "Invalid portfolio ID"},
		{"rename bad id", http.MethodPut, "/api/portfolios/x", `{"name":"n"}`, "Invalid portfolio ID"},
		{"valuation bad id", http.MethodGet, "/api/portfolios/x/valuation", "", "Invalid portfolio ID"},
		{"buy bad id", http.MethodPost, "/api/portfolios/x/holdings", `{"quantity":1}`, "Invalid portfolio ID"},
		{"sell bad holding id", http.MethodPost, base + "/holdings/abc/sell", `{"quantity":1}`, "Invalid portfolio or holding ID"},
		{"update bad holding id", http.MethodPut, base + "/holdings/0", `{"quantity":1}`, "Invalid portfolio or holding ID"},
		{"liquidate bad portfolio id", http.MethodDelete, "/api/portfolios/x/holdings/1", "", "Invalid portfolio or holding ID"},
		{"create malformed body", http.MethodPost, "/api/portfolios", `{"name":`, "Invalid request payload"},
		{"create blank name", http.MethodPost, "/api/portfolios", `{"name":"  "}`, "Portfolio name is required"},
		{"buy malformed body", http.MethodPost, base + "/holdings", `{"quantity":"ten"}`, "Invalid request payload"},
		{"buy zero quantity", http.MethodPost, base + "/holdings", `{"asset_type":"stock","symbol":"TCS","quantity":0}`, "Quantity must be greater than zero"},
		{"sell malformed body", http.MethodPost, base + "/holdings/1/sell", `[1]`, "Invalid request payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.body, sessionCookie())
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, errorBody(t, rec))
		})
	}
}

func TestPortfolioIsHiddenFromOtherUsers(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/portfolios", `{"name":"Mine"}`, sessionCookie())
	require.Equal(t, http.StatusCreated, rec.Code)
	base := fmt.Sprintf("/api/portfolios/%d", decodePortfolio(t, rec).ID)

	rec = s.do(http.MethodPost, base+"/holdings", `{"asset_type":"stock","symbol":"TCS","quantity":1}`, sessionCookie())
	require.Equal(t, http.StatusCreated, rec.Code)
	holding := fmt.Sprintf("%s/holdings/%d", base, decodePortfolio(t, rec).Valuation.Holdings[0].ID)

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, base, ""},
		{http.MethodPut, base, `{"name":"Theirs"}`},
		{http.MethodGet, base + "/valuation", ""},
		{http.MethodPost, base + "/holdings", `{"asset_type":"stock","symbol":"TCS","quantity":1}`},
		{http.MethodPut, holding, `{"quantity":3}`},
		{http.MethodPost, holding + "/sell", `{"quantity":1}`},
		{http.MethodDelete, holding, ""},
		{http.MethodDelete, base, ""},
	}
	for _, r := range requests {
		rec := s.do(r.method, r.path, r.body, otherUserCookie())
		assert.Equal(t, http.StatusNotFound, rec.Code, r.method+" "+r.path)
		assert.Equal(t, "Portfolio not found", errorBody(t, rec), r.method+" "+r.path)
	}

	rec = s.do(http.MethodGet, "/api/portfolios", "", otherUserCookie())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(http.MethodGet, base, "", sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodePortfolio(t, rec)
	assert.Equal(t, "Mine", p.Name)
	require.Len(t, p.Valuation.Holdings, 1)
	assert.InDelta(t, 1, p.Valuation.Holdings[0].Quantity, 1e-9)
}

func TestGoalRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/goals", `{"name":"House","target_amount":1000000,"current_amount":250000,"category":"home"}`, sessionCookie())
	require.Equal(t, http.StatusCreated, rec.Code)
	var goal entity.Goal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goal))
	assert.Equal(t, entity.GoalCategoryHome, goal.Category)
	assert.False(t, goal.Achieved)
	path := fmt.Sprintf("/api/goals/%d", goal.ID)

	rec = s.do(http.MethodPut, path, `{"current_amount":1000000}`, sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"achieved":true`)

	rec = s.do(http.MethodGet, path, "", otherUserCookie())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Goal not found", errorBody(t, rec))

	rec = s.do(http.MethodDelete, path, "", otherUserCookie())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/goals/abc", "", sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid goal ID", errorBody(t, rec))

	rec = s.do(http.MethodPut, path, `{"target_amount":"lots"}`, sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request payload", errorBody(t, rec))

	rec = s.do(http.MethodPost, "/api/goals", `{"name":""}`, sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/goals", "", sessionCookie())
	require.Equal(t, http.StatusOK, rec.Code)
	var goals []entity.Goal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goals))
	assert.Len(t, goals, 1)

	rec = s.do(http.MethodDelete, path, "", sessionCookie())
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, path, "", sessionCookie())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComparisonRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/comparisons", `{"kind":"stock","symbol_a":"TCS","symbol_b":"INFY"}`, sessionCookie())
	require.Equal(t, http.StatusCreated, rec.Code)
	var comparison entity.Comparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comparison))
	assert.Equal(t, []string{"TCS", "INFY"}, []string(comparison.Symbols))
	path := fmt.Sprintf("/api/comparisons/%d", comparison.ID)

	rec = s.do(http.MethodGet, path, "", sessionCookie())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, path, "", otherUserCookie())
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Comparison not found", errorBody(t, rec))

	rec = s.do(http.MethodPost, "/api/comparisons", `{"kind":"crypto","symbol_a":"A","symbol_b":"B"}`, sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/comparisons", `{"kind":`, sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request payload", errorBody(t, rec))

	rec = s.do(http.MethodDelete, "/api/comparisons/0", "", sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid comparison ID", errorBody(t, rec))

	rec = s.do(http.MethodGet, "/api/comparisons", "", otherUserCookie())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(http.MethodDelete, path, "", sessionCookie())
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

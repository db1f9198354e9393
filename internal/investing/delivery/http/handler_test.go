package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/service"
	"investing-backend/pkg/apperror"
	"investing-backend/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validToken     = "valid-token-user-1"
	otherUserToken = "valid-token-user-2"
)

var sessionUsers = map[string]uint{validToken: 1, otherUserToken: 2}

type fakeAuthService struct {
	loginErr error
}

func (f *fakeAuthService) Signup(_ context.Context, req *dto.SignupRequest) (*dto.AuthResult, error) {
	if req.Email == "taken@b.com" {
		return nil, apperror.New(apperror.KindAlreadyExists, "User already exists")
	}
	return &dto.AuthResult{User: dto.UserResponse{ID: 1, Email: req.Email}, Token: validToken, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.AuthResult{User: dto.UserResponse{ID: 1, Email: req.Email}, Token: validToken, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuthService) Identity(_ context.Context, token string) (*dto.UserResponse, error) {
	if token != validToken {
		return nil, apperror.New(apperror.KindUnauthenticated, "Not authenticated")
	}
	return &dto.UserResponse{ID: 1, Email: "a@b.com"}, nil
}

func (f *fakeAuthService) Authenticate(token string) (uint, error) {
	userID, ok := sessionUsers[token]
	if !ok {
		return 0, apperror.New(apperror.KindUnauthenticated, "Not authenticated")
	}
	return userID, nil
}

func (f *fakeAuthService) UpdateProfile(_ context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	resp := &dto.UserResponse{ID: userID}
	if req.Name != nil {
		resp.Name = *req.Name
	}
	return resp, nil
}

type fakeRecommendationService struct {
	err    error
	called int
}

func (f *fakeRecommendationService) Recommend(_ context.Context, userID uint) (*dto.RecommendationResult, error) {
	f.called++
	if f.err != nil {
		return nil, f.err
	}
	return &dto.RecommendationResult{
		RecommendedStocks:      []dto.RecommendationItem{{Symbol: "TCS", Reason: "steady"}},
		RecommendedMutualFunds: []dto.RecommendationItem{},
	}, nil
}

func (f *fakeRecommendationService) History(context.Context, uint) ([]entity.Recommendation, error) {
	return []entity.Recommendation{}, nil
}

type fakeMasterService struct {
	service.MasterService
}

func (fakeMasterService) ListStocks(_ context.Context, page dto.Page) ([]entity.StockMaster, error) {
	return []entity.StockMaster{{ID: 1, Symbol: "TCS"}}, nil
}

func (fakeMasterService) GetStock(_ context.Context, symbol string) (*entity.StockMaster, error) {
	if symbol != "TCS" {
		return nil, apperror.New(apperror.KindNotFound, "Stock not found")
	}
	return &entity.StockMaster{ID: 1, Symbol: "TCS", Name: "Tata Consultancy Services"}, nil
}

func (fakeMasterService) GetFund(_ context.Context, symbolOrISIN string) (*entity.MutualFundMaster, error) {
	if symbolOrISIN != "AXISBLUE" && symbolOrISIN != "INF846K01DP8" {
		return nil, apperror.New(apperror.KindNotFound, "Mutual fund not found")
	}
	return &entity.MutualFundMaster{ID: 1, Symbol: "AXISBLUE", ISIN: "INF846K01DP8", Name: "Axis Bluechip"}, nil
}

type fakeNewsService struct {
	err error
}

func (f fakeNewsService) TodayIndia(context.Context) ([]dto.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []dto.Article{{Title: "Sensex rallies"}}, nil
}

type testServer struct {
	echo      *echo.Echo
	auth      *fakeAuthService
	recommend *fakeRecommendationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logger.NewNop()
	auth := &fakeAuthService{}
	recommend := &fakeRecommendationService{}
	cookies := CookieConfig{Name: "token"}

	e := echo.New()
	RegisterRoutes(e, Handlers{
		User:       NewUserHandler(auth, cookies, log),
		Master:     NewMasterHandler(fakeMasterService{}, log),
		Portfolio:  NewPortfolioHandler(newFakePortfolioService(), log),
		Goal:       NewGoalHandler(newFakeGoalService(), log),
		Comparison: NewComparisonHandler(newFakeComparisonService(), log),
		Recommend:  NewRecommendHandler(recommend, log),
		News:       NewNewsHandler(fakeNewsService{err: apperror.Wrap(apperror.KindUpstream, "Failed to fetch Indian stock news", errors.New("dial tcp: timeout"))}, log),
	}, auth, cookies)
	return &testServer{echo: e, auth: auth, recommend: recommend}
}

func (s *testServer) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func sessionCookie() *http.Cookie {
	return &http.Cookie{Name: "token", Value: validToken}
}

func otherUserCookie() *http.Cookie {
	return &http.Cookie{Name: "token", Value: otherUserToken}
}

func TestSignupSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/user/signup", `{"email":"a@b.com","password":"secret123"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	header := rec.Header().Get(echo.HeaderSetCookie)
	assert.Contains(t, header, "token="+validToken)
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "SameSite=Lax")
	assert.Contains(t, header, "Path=/")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(http.MethodPost, "/api/user/signup", `{"email":"taken@b.com","password":"secret123"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists", errorBody(t, rec))
}

func TestSignupRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/user/signup", `{"email":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t)

	s.auth.loginErr = apperror.New(apperror.KindNotFound, "User not found")
	rec := s.do(http.MethodPost, "/api/user/login", `{"email":"x@b.com","password":"p"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", errorBody(t, rec))

	s.auth.loginErr = apperror.New(apperror.KindInvalidCredentials, "Invalid credentials")
	rec = s.do(http.MethodPost, "/api/user/login", `{"email":"x@b.com","password":"p"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", errorBody(t, rec))
	assert.Empty(t, rec.Header().Get(echo.HeaderSetCookie))
}

func TestLogoutIsIdempotent(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodPost, "/api/user/logout", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		header := rec.Header().Get(echo.HeaderSetCookie)
		assert.Contains(t, header, "token=;")
		assert.Contains(t, header, "Max-Age=0")
	}
}

func TestMe(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", errorBody(t, rec))

	rec = s.do(http.MethodGet, "/api/user/me", "", &http.Cookie{Name: "token", Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/user/me", "", sessionCookie())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@b.com"`)

	rec = s.do(http.MethodPut, "/api/user/me", `{"name":"Asha"}`, sessionCookie())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Asha"`)
}

func TestOwnedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/portfolios", "/api/goals", "/api/comparisons", "/api/recommendations", "/api/recommend/1"} {
		rec := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRecommend(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/recommend/1", "", sessionCookie())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recommendedStocks"`)

	rec = s.do(http.MethodGet, "/api/recommend/2", "", sessionCookie())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/recommend/abc", "", sessionCookie())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, s.recommend.called)
}

func TestRecommendFailureIsGeneric(t *testing.T) {
	s := newTestServer(t)
	s.recommend.err = apperror.Wrap(apperror.KindUpstream, "Recommendation service unavailable",
		errors.New("recommender process failed: exit status 1: Traceback (most recent call last)"))

	rec := s.do(http.MethodGet, "/api/recommend/1", "", sessionCookie())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Recommendation service unavailable", errorBody(t, rec))
	assert.NotContains(t, rec.Body.String(), "Traceback")
}

func TestMasterAndNews(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/master/stocks", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"TCS"`)

	rec = s.do(http.MethodGet, "/api/master/stocks?limit=ten", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/master/stocks/TCS", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Tata Consultancy Services"`)

	rec = s.do(http.MethodGet, "/api/master/stocks/NOPE", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Stock not found", errorBody(t, rec))

	rec = s.do(http.MethodGet, "/api/master/funds/INF846K01DP8", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"AXISBLUE"`)

	rec = s.do(http.MethodGet, "/api/master/funds/NOPE", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Mutual fund not found", errorBody(t, rec))

	rec = s.do(http.MethodGet, "/api/news/india", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch Indian stock news", errorBody(t, rec))

	rec = s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

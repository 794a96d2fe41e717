package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/irenerossetti/condominio-backend/internal/application/billing"
	"github.com/irenerossetti/condominio-backend/internal/application/catalog"
	appreport "github.com/irenerossetti/condominio-backend/internal/application/report"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/auth"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/config"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/export"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/dto"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/handler"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	dto.SetupValidator()
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	var seen bool
	r.Register(group)
	r.Setup(func(c *gin.Context) {
		seen = true
		c.Next()
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.True(t, seen)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("units", "/units")
		assert.Equal(t, "units", g.Name())
		assert.Equal(t, "/units", g.Prefix())
	})

	t.Run("registers each method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").
			GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) }).
			POST("/items", func(c *gin.Context) { c.Status(http.StatusCreated) }).
			PUT("/items/:id", func(c *gin.Context) { c.Status(http.StatusAccepted) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		for method, status := range map[string]int{
			http.MethodGet:  http.StatusOK,
			http.MethodPost: http.StatusCreated,
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(method, "/api/v1/test/items", nil))
			assert.Equal(t, status, w.Code, method)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/test/items/1", nil))
		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("applies middleware and subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "test")
			c.Next()
		})
		g.Group("nested", "/nested").GET("/leaf", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/nested/leaf", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "test", w.Header().Get("X-Group"))
	})
}

// stubLedger answers every handler interface with canned values and
// records the last caller it saw
type stubLedger struct {
	lastCaller identity.Caller
	lastQuery  appbilling.ListFeesQuery
	sweeps     int
}

func (s *stubLedger) IssueFees(_ context.Context, caller identity.Caller, cmd appbilling.IssueFeesCommand) (*appbilling.IssueFeesResult, error) {
	s.lastCaller = caller
	if !caller.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	return &appbilling.IssueFeesResult{Created: 2, Period: cmd.Period}, nil
}

func (s *stubLedger) RegisterPayment(_ context.Context, caller identity.Caller, cmd appbilling.RegisterPaymentCommand) (*appbilling.FeeBalanceResponse, error) {
	s.lastCaller = caller
	return &appbilling.FeeBalanceResponse{FeeID: cmd.FeeID}, nil
}

func (s *stubLedger) GetBalance(_ context.Context, caller identity.Caller, feeID uuid.UUID) (*appbilling.FeeBalanceResponse, error) {
	s.lastCaller = caller
	return &appbilling.FeeBalanceResponse{FeeID: feeID}, nil
}

func (s *stubLedger) ListFees(_ context.Context, caller identity.Caller, query appbilling.ListFeesQuery) (*shared.Paginated[appbilling.FeeResponse], error) {
	s.lastCaller = caller
	s.lastQuery = query
	page := shared.NewPaginated[appbilling.FeeResponse](nil, 0, 1, 20)
	return &page, nil
}

func (s *stubLedger) GetFee(_ context.Context, caller identity.Caller, id uuid.UUID) (*appbilling.FeeDetailResponse, error) {
	s.lastCaller = caller
	return &appbilling.FeeDetailResponse{FeeResponse: appbilling.FeeResponse{ID: id}}, nil
}

func (s *stubLedger) MarkOverdue(_ context.Context, caller identity.Caller, asOf time.Time) (*appbilling.MarkOverdueResult, error) {
	s.lastCaller = caller
	s.sweeps++
	return &appbilling.MarkOverdueResult{AsOf: "2025-04-01", Updated: 1}, nil
}

func (s *stubLedger) GetFinanceReport(_ context.Context, caller identity.Caller, _ appreport.FinanceReportQuery) (*appreport.FinanceReportResponse, error) {
	s.lastCaller = caller
	return &appreport.FinanceReportResponse{}, nil
}

func (s *stubLedger) Export(_ context.Context, caller identity.Caller, _ appreport.FinanceReportQuery, format string) (*export.File, error) {
	s.lastCaller = caller
	return &export.File{Name: "finance." + format, ContentType: "application/octet-stream", Data: []byte("x")}, nil
}

type stubCatalog struct{}

func (stubCatalog) Create(context.Context, identity.Caller, catalog.CreateExpenseTypeRequest) (*catalog.ExpenseTypeResponse, error) {
	return &catalog.ExpenseTypeResponse{}, nil
}

func (stubCatalog) Get(_ context.Context, id uuid.UUID) (*catalog.ExpenseTypeResponse, error) {
	return &catalog.ExpenseTypeResponse{ID: id}, nil
}

func (stubCatalog) List(context.Context, catalog.ExpenseTypeListFilter) (*shared.Paginated[catalog.ExpenseTypeResponse], error) {
	page := shared.NewPaginated[catalog.ExpenseTypeResponse](nil, 0, 1, 20)
	return &page, nil
}

func (stubCatalog) Update(_ context.Context, _ identity.Caller, id uuid.UUID, _ catalog.UpdateExpenseTypeRequest) (*catalog.ExpenseTypeResponse, error) {
	return &catalog.ExpenseTypeResponse{ID: id}, nil
}

type stubUnits struct{}

func (stubUnits) Create(context.Context, identity.Caller, catalog.CreateUnitRequest) (*catalog.UnitResponse, error) {
	return &catalog.UnitResponse{}, nil
}

func (stubUnits) Get(_ context.Context, _ identity.Caller, id uuid.UUID) (*catalog.UnitResponse, error) {
	return &catalog.UnitResponse{ID: id}, nil
}

func (stubUnits) List(context.Context, identity.Caller, catalog.UnitListFilter) (*shared.Paginated[catalog.UnitResponse], error) {
	page := shared.NewPaginated[catalog.UnitResponse](nil, 0, 1, 20)
	return &page, nil
}

func (stubUnits) Update(_ context.Context, _ identity.Caller, id uuid.UUID, _ catalog.UpdateUnitRequest) (*catalog.UnitResponse, error) {
	return &catalog.UnitResponse{ID: id}, nil
}

type testServer struct {
	engine *gin.Engine
	jwt    *auth.JWTService
	ledger *stubLedger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	jwtSvc := auth.NewJWTService(config.JWTConfig{Secret: "router-test-secret-with-32-bytes!", Issuer: "condominio"})
	ledger := &stubLedger{}
	reg := prometheus.NewRegistry()

	engine := New(Config{
		TokenValidator: jwtSvc,
		Metrics:        telemetry.NewMetrics(reg),
		Gatherer:       reg,
		CORS:           middleware.DefaultCORSConfig(),
	}, Handlers{
		Health:       handler.NewHealthHandler("condominio", "test", nil),
		Fees:         handler.NewFeeHandler(ledger, ledger, ledger, ledger, nil),
		Reports:      handler.NewReportHandler(ledger, nil),
		ExpenseTypes: handler.NewExpenseTypeHandler(stubCatalog{}, nil),
		Units:        handler.NewUnitHandler(stubUnits{}, nil),
	})
	return &testServer{engine: engine, jwt: jwtSvc, ledger: ledger}
}

func (s *testServer) token(t *testing.T, role identity.Role) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, _, err := s.jwt.GenerateToken(auth.TokenInput{UserID: userID, Username: "u", Role: role})
	require.NoError(t, err)
	return token, userID
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestNew_OperationalRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = srv.do(http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestNew_APIRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/api/v1/fees", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))

	w = srv.do(http.MethodGet, "/api/v1/fees", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNew_CallerFromToken(t *testing.T) {
	srv := newTestServer(t)
	token, userID := srv.token(t, identity.RoleOwner)

	w := srv.do(http.MethodGet, "/api/v1/me/fees", token, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, srv.ledger.lastCaller.UserID)
	assert.Equal(t, identity.RoleOwner, srv.ledger.lastCaller.Role)
	assert.True(t, srv.ledger.lastQuery.Mine)
}

func TestNew_RoleEnforcedByService(t *testing.T) {
	srv := newTestServer(t)
	owner, _ := srv.token(t, identity.RoleOwner)
	admin, _ := srv.token(t, identity.RoleAdmin)

	w := srv.do(http.MethodPost, "/api/v1/fees/issue", owner, `{"period":"2025-03"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(http.MethodPost, "/api/v1/fees/issue", admin, `{"period":"2025-03"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_StaticSegmentsBeatFeeID(t *testing.T) {
	srv := newTestServer(t)
	admin, _ := srv.token(t, identity.RoleAdmin)

	w := srv.do(http.MethodPost, "/api/v1/fees/mark-overdue", admin, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, srv.ledger.sweeps)

	w = srv.do(http.MethodPost, "/api/v1/fees/"+uuid.NewString()+"/pay", admin, `{"amount":"10"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestNew_AllLedgerRoutesMounted(t *testing.T) {
	srv := newTestServer(t)
	admin, _ := srv.token(t, identity.RoleAdmin)
	id := uuid.NewString()

	routes := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/api/v1/fees", "", http.StatusOK},
		{http.MethodGet, "/api/v1/fees/" + id, "", http.StatusOK},
		{http.MethodGet, "/api/v1/fees/" + id + "/balance", "", http.StatusOK},
		{http.MethodGet, "/api/v1/reports/finance", "", http.StatusOK},
		{http.MethodGet, "/api/v1/reports/finance/export?format=xlsx", "", http.StatusOK},
		{http.MethodGet, "/api/v1/expense-types", "", http.StatusOK},
		{http.MethodPost, "/api/v1/expense-types", `{"name":"Water","default_amount":"10"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/expense-types/" + id, "", http.StatusOK},
		{http.MethodPut, "/api/v1/expense-types/" + id, `{"active":false}`, http.StatusOK},
		{http.MethodGet, "/api/v1/units", "", http.StatusOK},
		{http.MethodPost, "/api/v1/units", `{"code":"A-101"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/units/" + id, "", http.StatusOK},
		{http.MethodPut, "/api/v1/units/" + id, `{"tower":"B"}`, http.StatusOK},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := srv.do(rt.method, rt.path, admin, rt.body)
			assert.Equal(t, rt.status, w.Code, w.Body.String())
		})
	}
}

func TestNew_NoRoute(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(http.MethodGet, "/nowhere", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNoRoute, errorCode(t, w))
}

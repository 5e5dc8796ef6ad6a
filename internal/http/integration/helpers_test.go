package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gauravsharma29/Dev-Camper-API/internal/app"
	"github.com/gauravsharma29/Dev-Camper-API/internal/auth"
	"github.com/gauravsharma29/Dev-Camper-API/internal/config"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/geocode"
	"github.com/gauravsharma29/Dev-Camper-API/internal/mail"
	"github.com/gauravsharma29/Dev-Camper-API/internal/observability"
	"github.com/gauravsharma29/Dev-Camper-API/internal/repo/memory"
	"github.com/gauravsharma29/Dev-Camper-API/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
	security.Cost = bcrypt.MinCost
}

func testConfig() config.Config {
	return config.Config{
		Env:             config.EnvTest,
		JWTSecret:       "test-secret-key",
		JWTExpire:       time.Hour,
		JWTCookieExpire: 30,
		ResetTokenTTL:   10 * time.Minute,
		MaxBodyBytes:    1 << 20,
		ServiceName:     "devcamper-test",
	}
}

// stubGeocoder places every address in Boston, except zipcodes it was told about.
type stubGeocoder struct {
	zips map[string]geocode.Result
}

func (g stubGeocoder) Geocode(_ context.Context, address string) (geocode.Result, error) {
	if r, ok := g.zips[address]; ok {
		return r, nil
	}
	return geocode.Result{
		Latitude:         42.3505,
		Longitude:        -71.1054,
		FormattedAddress: "233 Bay State Rd, Boston, MA 02215, US",
		Street:           "233 Bay State Rd",
		City:             "Boston",
		StateCode:        "MA",
		Zipcode:          "02215",
		CountryCode:      "US",
	}, nil
}

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *captureMailer) last(t *testing.T) mail.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	mailer *captureMailer
}

func newServer(t *testing.T) *testServer {
	t.Helper()

	cfg := testConfig()
	store := memory.NewStore()
	mailer := &captureMailer{}

	reg := prometheus.NewRegistry()
	router := app.NewRouter(app.Options{
		Config:   cfg,
		Prom:     observability.NewProm(reg),
		Gatherer: reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stores:   app.MemoryStores(store),
		Tokens:   auth.NewManager(cfg.JWTSecret, cfg.JWTExpire),
		Denylist: auth.NewMemoryDenylist(),
		Geocoder: stubGeocoder{zips: map[string]geocode.Result{
			"10001": {Latitude: 40.7506, Longitude: -73.9972},
		}},
		Mailer: mailer,
	})

	return &testServer{router: router, store: store, mailer: mailer}
}

type request struct {
	method string
	path   string
	token  string
	body   any
	raw    string
	header map[string]string
}

func (s *testServer) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	if r.raw != "" {
		body = strings.NewReader(r.raw)
	}

	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil || r.raw != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool            `json:"success"`
	Error      string          `json:"error"`
	Token      string          `json:"token"`
	Count      int             `json:"count"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Next *struct{ Page, Limit int } `json:"next"`
		Prev *struct{ Page, Limit int } `json:"prev"`
	} `json:"pagination"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// data decodes the data member of a successful response into T.
func data[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &out), w.Body.String())
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func (s *testServer) register(t *testing.T, name, email, role string) string {
	t.Helper()

	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/register", body: map[string]string{
		"name": name, "email": email, "password": "123456", "role": role,
	}})
	requireStatus(t, w, http.StatusOK)
	return decode(t, w).Token
}

func (s *testServer) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, request{method: http.MethodPost, path: "/api/v1/auth/login", body: map[string]string{
		"email": email, "password": password,
	}})
}

// admin seeds an admin directly, since registration refuses that role.
func (s *testServer) admin(t *testing.T) string {
	t.Helper()

	hash, err := security.HashPassword("adminpass")
	require.NoError(t, err)
	_, err = s.store.Users().Create(context.Background(), user.User{
		Name: "Admin", Email: "admin@devcamper.io", Role: user.RoleAdmin, PasswordHash: hash,
	})
	require.NoError(t, err)

	w := s.login(t, "admin@devcamper.io", "adminpass")
	requireStatus(t, w, http.StatusOK)
	return decode(t, w).Token
}

type bootcampBody struct {
	ID       string `json:"id"`
	User     string `json:"user"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Location struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
		City        string     `json:"city"`
	} `json:"location"`
	AverageCost   *float64         `json:"averageCost"`
	AverageRating *float64         `json:"averageRating"`
	Courses       []map[string]any `json:"courses"`
}

func newBootcamp(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "Full stack web development",
		"website":     "https://devworks.com",
		"address":     "233 Bay State Road Boston MA 02215",
		"careers":     []string{"Web Development", "UI/UX"},
	}
}

func (s *testServer) createBootcamp(t *testing.T, token, name string) bootcampBody {
	t.Helper()

	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/bootcamps", token: token, body: newBootcamp(name)})
	requireStatus(t, w, http.StatusCreated)
	return data[bootcampBody](t, w)
}

func (s *testServer) createCourse(t *testing.T, token, bootcampID, title string, tuition int) string {
	t.Helper()

	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/bootcamps/" + bootcampID + "/courses", token: token, body: map[string]any{
		"title": title, "description": "Learn things", "weeks": "8", "tuition": tuition, "minimumSkill": "beginner",
	}})
	requireStatus(t, w, http.StatusCreated)
	return data[struct{ ID string }](t, w).ID
}

func (s *testServer) createReview(t *testing.T, token, bootcampID string, rating int) string {
	t.Helper()

	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/bootcamps/" + bootcampID + "/reviews", token: token, body: map[string]any{
		"title": "Great bootcamp", "text": "Learned a lot", "rating": rating,
	}})
	requireStatus(t, w, http.StatusCreated)
	return data[struct{ ID string }](t, w).ID
}

func tokenFromMail(t *testing.T, msg mail.Message) string {
	t.Helper()
	i := strings.LastIndex(msg.Body, "/resetpassword/")
	require.NotEqual(t, -1, i, msg.Body)
	return strings.TrimSpace(msg.Body[i+len("/resetpassword/"):])
}

func jsonUnmarshal(raw json.RawMessage, out any) error {
	return json.Unmarshal(raw, out)
}

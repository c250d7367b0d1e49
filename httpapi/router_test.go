package httpapi_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Harshan-Nayak/xlist/clicks"
	"github.com/Harshan-Nayak/xlist/httpapi"
	"github.com/Harshan-Nayak/xlist/migrations"
	"github.com/Harshan-Nayak/xlist/pkg/metrics"
	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/Harshan-Nayak/xlist/profile"
	"github.com/Harshan-Nayak/xlist/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const testSecret = "test-secret"

type harness struct {
	handler http.Handler
	svc     *service.Service
	clicks  *clicks.Repository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sqldb, err := sql.Open("sqlite3", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	_, err = migrations.Apply(context.Background(), db)
	require.NoError(t, err)

	profiles, err := profile.NewRepository(profile.RepositoryConfig{DB: db})
	require.NoError(t, err)
	clickRepo, err := clicks.NewRepository(clicks.RepositoryConfig{DB: db})
	require.NoError(t, err)

	rec := metrics.New()
	svc := service.New(service.Config{
		ProfileRepository: profiles,
		ClickRepository:   clickRepo,
		Metrics:           rec,
		Pinger:            db,
	})
	handler := httpapi.NewRouter(httpapi.RouterConfig{
		Service:        svc,
		Auth:           httpapi.NewAuthenticator(testSecret, ""),
		Metrics:        rec,
		MetricsHandler: rec.Handler(),
		AllowedOrigins: []string{"http://localhost:3000"},
		RateLimit:      1000,
		RateWindow:     time.Minute,
	})
	return &harness{handler: handler, svc: svc, clicks: clickRepo}
}

func (h *harness) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.handler.ServeHTTP(rr, req)
	return rr
}

func (h *harness) publish(t *testing.T, token, body string) map[string]any {
	t.Helper()
	rr := h.do(t, http.MethodPost, "/api/profiles", token, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeData(t, rr)
}

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T, userID string) string {
	return signToken(t, httpapi.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Data
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error.Code
}

func TestRouter_HealthAndCategories(t *testing.T) {
	h := newHarness(t)

	rr := h.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/categories", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeData(t, rr)
	require.Equal(t, "All", data["all"])
	require.Len(t, data["categories"], len(types.Categories))
}

func TestRouter_PublishAndBrowse(t *testing.T) {
	h := newHarness(t)
	token := userToken(t, "user-1")

	created := h.publish(t, token, `{"xHandle":"johndoe","username":"John","category":"Developer","followersCount":12}`)
	require.Equal(t, "@johndoe", created["xHandle"])
	require.Equal(t, "https://x.com/johndoe", created["profileUrl"])
	require.Equal(t, "user-1", created["userId"])

	h.publish(t, userToken(t, "user-2"), `{"xHandle":"@jane","username":"Jane","category":"Design"}`)

	rr := h.do(t, http.MethodGet, "/api/profiles?category=Developer", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var listing struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listing))
	require.Len(t, listing.Data, 1)

	rr = h.do(t, http.MethodGet, "/api/profiles?q=JANE", "", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listing))
	require.Len(t, listing.Data, 1)
	require.Equal(t, "Jane", listing.Data[0]["username"])

	rr = h.do(t, http.MethodGet, "/api/profiles/"+created["id"].(string), "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/me/profile", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, created["id"], decodeData(t, rr)["id"])
}

func TestRouter_ErrorMapping(t *testing.T) {
	h := newHarness(t)
	token := userToken(t, "user-1")

	rr := h.do(t, http.MethodPost, "/api/profiles", "", `{}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = h.do(t, http.MethodPost, "/api/profiles", token, `{"xHandle":"jd","username":"John","category":"Wizardry"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, types.TextCodeInvalidInput, errorCode(t, rr))

	rr = h.do(t, http.MethodPost, "/api/profiles", token, `{"xHandle":`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(t, http.MethodPost, "/api/profiles", token, `{"xHandle":"@","username":"John","category":"AI"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, types.TextCodeInvalidInput, errorCode(t, rr))

	created := h.publish(t, token, `{"xHandle":"jd","username":"John","category":"AI"}`)
	id := created["id"].(string)

	rr = h.do(t, http.MethodPost, "/api/profiles", token, `{"xHandle":"jd2","username":"John","category":"AI"}`)
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, types.TextCodeProfileExists, errorCode(t, rr))

	rr = h.do(t, http.MethodPatch, "/api/profiles/"+id, userToken(t, "intruder"), `{"bio":"x"}`)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, types.TextCodeNotOwner, errorCode(t, rr))

	rr = h.do(t, http.MethodGet, "/api/profiles/"+uuid.NewString(), "", "")
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/profiles/not-a-uuid", "", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/me/profile", userToken(t, "nobody"), "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_UpdateAndDelete(t *testing.T) {
	h := newHarness(t)
	token := userToken(t, "owner")
	created := h.publish(t, token, `{"xHandle":"jd","username":"John","category":"AI","website":"https://example.com"}`)
	id := created["id"].(string)

	rr := h.do(t, http.MethodPatch, "/api/profiles/"+id, token, `{"bio":"hello","category":"Design"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	data := decodeData(t, rr)
	require.Equal(t, "hello", data["bio"])
	require.Equal(t, "Design", data["category"])
	require.Equal(t, "https://example.com", data["website"])

	rr = h.do(t, http.MethodPatch, "/api/profiles/"+id, token, `{"website":"not a url"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(t, http.MethodDelete, "/api/profiles/"+id, token, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/profiles/"+id, "", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_VisitRedirectsAndTracks(t *testing.T) {
	h := newHarness(t)
	token := userToken(t, "owner")
	created := h.publish(t, token, `{"xHandle":"@johndoe","username":"John","category":"AI"}`)
	id := created["id"].(string)

	rr := h.do(t, http.MethodGet, "/p/"+id, "", "")
	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "https://x.com/johndoe", rr.Header().Get("Location"))

	rr = h.do(t, http.MethodPost, "/api/profiles/"+id+"/clicks", "", "")
	require.Equal(t, http.StatusAccepted, rr.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.svc.Tracker().Wait(ctx))

	rr = h.do(t, http.MethodGet, "/api/profiles/"+id+"/analytics", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeData(t, rr)
	require.Equal(t, float64(2), data["totalClicks"])
	require.Equal(t, float64(2), data["todayClicks"])
	require.Len(t, data["dailyClicks"], 30)

	rr = h.do(t, http.MethodGet, "/api/profiles/"+id+"/clicks", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var history struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	require.Len(t, history.Data, 2)

	rr = h.do(t, http.MethodGet, "/api/profiles/"+id+"/clicks?since=yesterday", token, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(t, http.MethodGet, "/api/profiles/"+id+"/analytics", userToken(t, "stranger"), "")
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_VisitUnknownProfile(t *testing.T) {
	h := newHarness(t)
	rr := h.do(t, http.MethodGet, "/p/"+uuid.NewString(), "", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_BeaconForUnknownProfileWritesNothing(t *testing.T) {
	h := newHarness(t)
	missing := uuid.New()

	rr := h.do(t, http.MethodPost, "/api/profiles/"+missing.String()+"/clicks", "", "")
	require.Equal(t, http.StatusAccepted, rr.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.svc.Tracker().Wait(ctx))

	count, err := h.clicks.CountClicks(context.Background(), types.ClickFilter{ProfileID: missing})
	require.NoError(t, err)
	require.Zero(t, count)

	rr = h.do(t, http.MethodGet, "/metrics", "", "")
	require.Contains(t, rr.Body.String(), `outcome="unknown_profile"`)
}

func TestRouter_TokenVariants(t *testing.T) {
	h := newHarness(t)

	subject := signToken(t, jwt.RegisteredClaims{
		Subject:   "sub-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	rr := h.do(t, http.MethodGet, "/api/me/profile", subject, "")
	require.Equal(t, http.StatusNotFound, rr.Code, "authenticated through the sub claim")

	expired := signToken(t, httpapi.Claims{
		UserID: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	rr = h.do(t, http.MethodGet, "/api/me/profile", expired, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, httpapi.Claims{UserID: "user"}).SignedString([]byte("other"))
	require.NoError(t, err)
	rr = h.do(t, http.MethodGet, "/api/me/profile", wrongKey, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	anonymous := signToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	rr = h.do(t, http.MethodGet, "/api/me/profile", anonymous, "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(t, http.MethodGet, "/api/categories", "", "")

	rr := h.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `xlist_http_requests_total{method="GET",path="/api/categories",status="2xx"} 1`)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/charvault/internal/model"
	"github.com/mcoot/charvault/internal/services/auth"
)

// fakeVerifier accepts "good" and fails known bad tokens with the matching error
type fakeVerifier struct {
	calls int
}

func (f *fakeVerifier) Verify(token string) (*model.Identity, error) {
	f.calls++
	switch token {
	case "good":
		return &model.Identity{AccountID: "a1", Name: "Ann"}, nil
	case "expired":
		return nil, auth.ErrTokenExpired
	case "forged":
		return nil, auth.ErrTokenInvalidSignature
	default:
		return nil, auth.ErrTokenMalformed
	}
}

// echoIdentity writes the caller's account id, or "anonymous"
var echoIdentity = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if id := GetIdentity(r.Context()); id != nil {
		_, _ = w.Write([]byte(id.AccountID))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func serve(h http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid token", header: "Bearer good", status: http.StatusOK, body: "a1"},
		{name: "lowercase scheme", header: "bearer good", status: http.StatusOK, body: "a1"},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer expired", status: http.StatusUnauthorized},
		{name: "bad signature", header: "Bearer forged", status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer ???", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic YWxhZGRpbjpvcGVuc2VzYW1l", status: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(Auth(&fakeVerifier{}, nil)(echoIdentity), tt.header)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "anonymous", header: "", status: http.StatusOK, body: "anonymous"},
		{name: "valid token", header: "Bearer good", status: http.StatusOK, body: "a1"},
		{name: "expired token is rejected", header: "Bearer expired", status: http.StatusUnauthorized},
		{name: "bad token is rejected", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "wrong scheme is rejected", header: "Token good", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(OptionalAuth(&fakeVerifier{}, nil)(echoIdentity), tt.header)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestAuthRejectsBeforeHandler(t *testing.T) {
	called := false
	h := Auth(&fakeVerifier{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	serve(h, "Bearer forged")
	assert.False(t, called)
}

func TestWrongSchemeSkipsVerifier(t *testing.T) {
	verifier := &fakeVerifier{}
	serve(Auth(verifier, nil)(echoIdentity), "Basic abc")
	assert.Zero(t, verifier.calls)
}

func TestMustGetIdentityPanicsWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Panics(t, func() { MustGetIdentity(req.Context()) })

	ctx := WithIdentity(req.Context(), &model.Identity{AccountID: "a1"})
	assert.Equal(t, model.AccountID("a1"), MustGetIdentity(ctx).AccountID)
}

func TestMetricsCountRejectionsAndRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	router := mux.NewRouter()
	router.Use(metrics.Middleware)
	router.Handle("/characters/{character_id}", Auth(&fakeVerifier{}, metrics)(echoIdentity))

	for _, header := range []string{"", "Bearer expired", "Bearer forged", "Bearer junk", "Bearer good"} {
		req := httptest.NewRequest(http.MethodGet, "/characters/c1", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.authRejects.WithLabelValues(rejectMissing)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.authRejects.WithLabelValues(rejectExpired)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.authRejects.WithLabelValues(rejectInvalidSignature)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.authRejects.WithLabelValues(rejectMalformed)))

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.requests.WithLabelValues("/characters/{character_id}", "GET", "401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("/characters/{character_id}", "GET", "200")))

	count, err := testutil.GatherAndCount(reg, "charvault_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var metrics *Metrics
	rec := serve(metrics.Middleware(Auth(&fakeVerifier{}, metrics)(echoIdentity)), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandlers_Ping(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(nil).Ping(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.Equal(t, "pong", decodeBody(t, rr)["message"])
}

func TestHandlers_HealthcheckHead(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(nil).HealthcheckHead(rr, httptest.NewRequest(http.MethodHead, "/healthcheck", nil))

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Zero(t, rr.Body.Len())
}

func TestHandlers_NotFound(t *testing.T) {
	t.Parallel()

	h := New(nil)

	t.Run("api path answers json", func(t *testing.T) {
		t.Parallel()
		rr := httptest.NewRecorder()
		h.NotFound(rr, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

		require.Equal(t, http.StatusNotFound, rr.Code)
		require.Equal(t, "route not found", decodeBody(t, rr)["error"])
	})

	t.Run("page path redirects to login", func(t *testing.T) {
		t.Parallel()
		rr := httptest.NewRecorder()
		h.NotFound(rr, httptest.NewRequest(http.MethodGet, "/whatever", nil))

		require.Equal(t, http.StatusFound, rr.Code)
		require.Equal(t, "/login", rr.Header().Get("Location"))
	})

	t.Run("prefix lookalike is a page", func(t *testing.T) {
		t.Parallel()
		rr := httptest.NewRecorder()
		h.NotFound(rr, httptest.NewRequest(http.MethodGet, "/apiary", nil))

		require.Equal(t, http.StatusFound, rr.Code)
	})
}

func TestQueryInt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "", want: 50},
		{query: "limit=10", want: 10},
		{query: "limit=999", want: 200},
		{query: "limit=0", wantErr: true},
		{query: "limit=abc", wantErr: true},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/x?"+tc.query, nil)
		got, err := queryInt(r, "limit", 50, 200)
		if tc.wantErr {
			require.Error(t, err, tc.query)
			continue
		}
		require.NoError(t, err, tc.query)
		require.Equal(t, tc.want, got, tc.query)
	}
}

func TestDecodeJSON_RejectsUnknownAndTrailing(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	for _, body := range []string{`{"name":"a","extra":1}`, `{"name":"a"}{}`, `not json`} {
		rr := httptest.NewRecorder()
		var dst payload
		ok := decodeJSON(nil, rr, newRequest(http.MethodPost, "/", body, nil), &dst)
		require.False(t, ok, body)
		require.Equal(t, http.StatusBadRequest, rr.Code, body)
	}

	rr := httptest.NewRecorder()
	var dst payload
	require.True(t, decodeJSON(nil, rr, newRequest(http.MethodPost, "/", `{"name":"a"}`, nil), &dst))
	require.Equal(t, "a", dst.Name)
}

package pprofserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"virtual-vr-console/internal/config"
	testlog "virtual-vr-console/internal/testutil"
)

func teapot() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestGuard(t *testing.T) {
	t.Parallel()

	creds := config.Pprof{User: "ops", Pass: "s3cret"}

	cases := []struct {
		name       string
		cfg        config.Pprof
		remote     string
		user, pass string
		want       int
	}{
		{name: "loopback v4 without auth", remote: "127.0.0.1:1234", want: http.StatusTeapot},
		{name: "loopback v6 without auth", remote: "[::1]:1234", want: http.StatusTeapot},
		{name: "remote without configured creds", remote: "8.8.8.8:5000", user: "ops", pass: "x", want: http.StatusUnauthorized},
		{name: "remote with valid creds", cfg: creds, remote: "8.8.8.8:5000", user: "ops", pass: "s3cret", want: http.StatusTeapot},
		{name: "remote with wrong pass", cfg: creds, remote: "8.8.8.8:5000", user: "ops", pass: "nope", want: http.StatusUnauthorized},
		{name: "remote without header", cfg: creds, remote: "10.0.0.2:5000", want: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := testlog.New()
			h := guard(teapot(), tc.cfg, rec.Logger())

			req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
			req.RemoteAddr = tc.remote
			if tc.user != "" {
				req.SetBasicAuth(tc.user, tc.pass)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			require.Equal(t, tc.want, rr.Code)
			if tc.want == http.StatusUnauthorized {
				require.Equal(t, realm, rr.Header().Get("WWW-Authenticate"))
				e, ok := rec.Find("warn", "pprof access denied")
				require.True(t, ok)
				remote, _ := e.Field("remote")
				require.Equal(t, tc.remote, remote)
			}
		})
	}
}

func TestHandler_ServesIndexToLoopback(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
	req.RemoteAddr = "127.0.0.1:1"
	rr := httptest.NewRecorder()
	Handler(config.Pprof{}, nil).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "goroutine")
}

func TestNew(t *testing.T) {
	t.Parallel()

	require.Nil(t, New(config.Pprof{Addr: "  "}, nil))

	srv := New(config.Pprof{Addr: "127.0.0.1:6060"}, nil)
	require.NotNil(t, srv)
	require.Equal(t, "127.0.0.1:6060", srv.Addr)
	require.NotNil(t, srv.Handler)
}

func TestIsLoopback(t *testing.T) {
	t.Parallel()

	require.True(t, isLoopback("127.0.0.1:80"))
	require.True(t, isLoopback("::1"))
	require.False(t, isLoopback("192.168.1.10:80"))
	require.False(t, isLoopback("not-an-ip"))
}

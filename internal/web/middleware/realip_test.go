package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/csv3d/internal/core"
)

// resolve runs one request through TrustedRealIP and returns the remote
// address and context IP the next handler saw.
func resolve(trusted []string, remoteAddr string, headers map[string]string) (string, string) {
	var gotRemote, gotIP string
	h := TrustedRealIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRemote = r.RemoteAddr
		gotIP = core.ClientIPFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return gotRemote, gotIP
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		headers    map[string]string
		wantRemote string
		wantIP     string
	}{
		{
			name:       "no trusted proxies ignores headers",
			remoteAddr: "203.0.113.7:5000",
			headers:    map[string]string{"X-Real-IP": "10.0.0.1"},
			wantRemote: "203.0.113.7:5000",
			wantIP:     "203.0.113.7",
		},
		{
			name:       "trusted proxy with X-Real-IP",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4000",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			wantRemote: "198.51.100.9",
			wantIP:     "198.51.100.9",
		},
		{
			name:       "trusted proxy uses first X-Forwarded-For entry",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4000",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.9, 10.1.2.3"},
			wantRemote: "198.51.100.9",
			wantIP:     "198.51.100.9",
		},
		{
			name:       "untrusted proxy",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "192.0.2.50:4000",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.9"},
			wantRemote: "192.0.2.50:4000",
			wantIP:     "192.0.2.50",
		},
		{
			name:       "bare address as trusted entry",
			trusted:    []string{"127.0.0.1"},
			remoteAddr: "127.0.0.1:9999",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			wantRemote: "198.51.100.9",
			wantIP:     "198.51.100.9",
		},
		{
			name:       "invalid forwarded value is ignored",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:4000",
			headers:    map[string]string{"X-Real-IP": "not-an-ip"},
			wantRemote: "10.1.2.3:4000",
			wantIP:     "10.1.2.3",
		},
		{
			name:       "unparseable remote address",
			remoteAddr: "pipe",
			wantRemote: "pipe",
			wantIP:     "pipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote, ip := resolve(tt.trusted, tt.remoteAddr, tt.headers)
			assert.Equal(t, tt.wantRemote, remote)
			assert.Equal(t, tt.wantIP, ip)
		})
	}
}

func TestParseTrusted(t *testing.T) {
	got := parseTrusted([]string{" 10.0.0.0/8 ", "", "bogus", "192.168.1.5/24", "::1"})
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.0/24"),
		netip.MustParsePrefix("::1/128"),
	}, got)
}

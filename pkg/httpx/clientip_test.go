package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/aussiebroadwan/pali/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestParseTrustedProxies(t *testing.T) {
	got, err := httpx.ParseTrustedProxies([]string{" 10.0.0.0/8 ", "192.168.1.7", "", "::1", "172.16.5.9/12"})
	require.NoError(t, err)
	require.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.7/32"),
		netip.MustParsePrefix("::1/128"),
		netip.MustParsePrefix("172.16.0.0/12"),
	}, got)

	for _, bad := range []string{"10.0.0.0/33", "proxy.internal", "10.0.0"} {
		_, err := httpx.ParseTrustedProxies([]string{bad})
		require.Error(t, err, bad)
	}
}

func TestClientIP_Resolve(t *testing.T) {
	trusted, err := httpx.ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	behindProxy := httpx.NewClientIP(trusted)

	cases := []struct {
		name     string
		resolver *httpx.ClientIP
		remote   string
		xff      []string
		realIP   string
		want     string
	}{
		{name: "peer without headers", resolver: behindProxy, remote: "203.0.113.9:5000", want: "203.0.113.9"},
		{name: "untrusted peer spoofing xff", resolver: behindProxy, remote: "203.0.113.9:5000", xff: []string{"198.51.100.1"}, want: "203.0.113.9"},
		{name: "untrusted peer spoofing x-real-ip", resolver: behindProxy, remote: "203.0.113.9:5000", realIP: "198.51.100.1", want: "203.0.113.9"},
		{name: "nil resolver ignores headers", resolver: nil, remote: "10.1.1.1:5000", xff: []string{"198.51.100.1"}, want: "10.1.1.1"},
		{name: "trusted peer forwards client", resolver: behindProxy, remote: "10.1.1.1:5000", xff: []string{"198.51.100.1"}, want: "198.51.100.1"},
		{name: "prepended entries are ignored", resolver: behindProxy, remote: "10.1.1.1:5000", xff: []string{"1.2.3.4, 198.51.100.1"}, want: "198.51.100.1"},
		{name: "trusted hops are skipped", resolver: behindProxy, remote: "10.1.1.1:5000", xff: []string{"198.51.100.1, 10.2.2.2", "10.3.3.3"}, want: "198.51.100.1"},
		{name: "garbage hop stops the walk", resolver: behindProxy, remote: "10.1.1.1:5000", xff: []string{"198.51.100.1, junk, 10.2.2.2"}, want: "10.2.2.2"},
		{name: "trusted peer with x-real-ip", resolver: behindProxy, remote: "10.1.1.1:5000", realIP: "198.51.100.7", want: "198.51.100.7"},
		{name: "ipv4-mapped peer", resolver: behindProxy, remote: "[::ffff:203.0.113.9]:5000", want: "203.0.113.9"},
		{name: "unparsable remote addr", resolver: behindProxy, remote: "pipe", want: "pipe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for _, v := range tc.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			require.Equal(t, tc.want, tc.resolver.Resolve(req))
		})
	}
}

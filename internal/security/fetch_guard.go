// Package security はフィード取得時のSSRF防止機能を提供する。
package security

import (
	"fmt"
	"net/http"
	"net/netip"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// FetchPolicy はフィード取得用HTTPクライアントの制約。
type FetchPolicy struct {
	// Timeout は1回の取得全体のタイムアウト。
	Timeout time.Duration
	// AllowPrivateNetworks がtrueの場合、プライベートアドレスへの接続を許可する。
	// 社内フィードや開発環境向けで、既定はfalse。
	AllowPrivateNetworks bool
	// AllowedPorts は接続を許可するポート。空の場合はDefaultAllowedPortsを使う。
	AllowedPorts []int
}

// DefaultAllowedPorts はAllowedPorts未指定時に許可するポート。
var DefaultAllowedPorts = []int{80, 443}

// FetchGuard はフィードURLの事前検証とHTTPクライアント生成を行う。
type FetchGuard struct {
	policy FetchPolicy
}

// NewFetchGuard はFetchGuardを生成する。
func NewFetchGuard(policy FetchPolicy) *FetchGuard {
	if len(policy.AllowedPorts) == 0 {
		policy.AllowedPorts = DefaultAllowedPorts
	}
	return &FetchGuard{policy: policy}
}

var allowedSchemes = []string{"http", "https"}

// blockedPrefixes はプライベート・ループバック・リンクローカル等のアドレス範囲。
// 169.254.169.254 のクラウドメタデータもリンクローカルに含まれる。
var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
}

// Client はポリシーに従ったHTTPクライアントを返す。
// プライベートアドレスを許可しない場合はsafeurlのクライアントを使い、
// DNS解決後の接続先IPもダイヤル時に検証される。
func (g *FetchGuard) Client() *http.Client {
	if g.policy.AllowPrivateNetworks {
		return &http.Client{Timeout: g.policy.Timeout}
	}

	config := safeurl.GetConfigBuilder().
		SetTimeout(g.policy.Timeout).
		SetAllowedSchemes(allowedSchemes...).
		SetAllowedPorts(g.policy.AllowedPorts...).
		Build()

	return safeurl.Client(config).Client
}

// Check はURLを取得してよいかをDNS解決なしで検証する。
// 名前解決後のアドレスはClientが返すクライアント側で検証される。
func (g *FetchGuard) Check(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("disallowed scheme: %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("empty host in URL: %s", rawURL)
	}

	if g.policy.AllowPrivateNetworks {
		return nil
	}

	if !g.portAllowed(u) {
		return fmt.Errorf("disallowed port: %s", effectivePort(u))
	}

	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return fmt.Errorf("blocked host: %s", host)
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		// ホスト名
		return nil
	}
	addr = addr.Unmap()
	for _, p := range blockedPrefixes {
		if p.Contains(addr) {
			return fmt.Errorf("blocked address: %s", addr)
		}
	}

	return nil
}

// effectivePort はURLの明示ポート、なければスキームの既定ポートを返す。
func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	if strings.EqualFold(u.Scheme, "https") {
		return "443"
	}
	return "80"
}

func (g *FetchGuard) portAllowed(u *url.URL) bool {
	port, err := strconv.Atoi(effectivePort(u))
	if err != nil {
		return false
	}
	return slices.Contains(g.policy.AllowedPorts, port)
}

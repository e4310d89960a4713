package scraper

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/perashanid/Media-bias/internal/usecase/scrape"
)

// validateURL rejects malformed URLs and, when denyPrivateIPs is set,
// URLs resolving to private or loopback addresses. Loopback on an
// ephemeral port stays allowed so httptest servers work in tests.
func validateURL(rawURL string, denyPrivateIPs bool) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", scrape.ErrInvalidURL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", scrape.ErrInvalidURL, parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("%w: empty hostname", scrape.ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	host := parsed.Hostname()
	if isLoopbackHost(host) && isEphemeralPort(parsed.Port()) {
		return nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve %q", scrape.ErrInvalidURL, host)
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: %s resolves to %s", scrape.ErrPrivateIP, host, ip)
		}
	}
	return nil
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// isEphemeralPort reports whether the port sits in the Linux ephemeral
// range that httptest servers bind to.
func isEphemeralPort(port string) bool {
	if port == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 32768 && n <= 65535
}

func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	// Carrier-grade NAT range.
	if ip4 := ip.To4(); ip4 != nil {
		if ip4[0] == 100 && ip4[1] >= 64 && ip4[1] <= 127 {
			return true
		}
	}
	return false
}

// normalizeURL resolves a possibly relative href against the outlet base
// and strips fragments and tracking noise.
func normalizeURL(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return "", false
	}
	resolved, err := base.Parse(href)
	if err != nil {
		return "", false
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	resolved.Fragment = ""
	return resolved.String(), true
}

package utils

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// ExtractHost returns the bare host from a free-text IP field.
// Entries may carry a scheme, port or path ("http://10.0.0.1:8080/x");
// when URL parsing fails the value is split on ":" then "/" instead.
// The fallback is deliberate: these fields come from free-text entry
// and malformed inputs are expected.
func ExtractHost(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	candidate := s
	if !strings.Contains(candidate, "://") {
		candidate = "http://" + candidate
	}
	if u, err := url.Parse(candidate); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}

	host := strings.SplitN(s, ":", 2)[0]
	return strings.SplitN(host, "/", 2)[0]
}

// ParseHostNoPort returns the host part (no port) from strings like "ip:port", "[v6]:port", or "ip".
func ParseHostNoPort(s string) string {
	if s == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// ClientIP resolves the real client IP of a dashboard request.
// If trustProxy is true, prefers X-Forwarded-For (first) then X-Real-IP;
// otherwise falls back to RemoteAddr only.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if v := firstForwardedFor(r.Header.Get("X-Forwarded-For")); v != "" {
			if ip := ParseHostNoPort(v); ip != "" {
				return ip
			}
		}
		if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
			if ip := ParseHostNoPort(v); ip != "" {
				return ip
			}
		}
	}
	return ParseHostNoPort(r.RemoteAddr)
}

// firstForwardedFor returns the left-most IP from X-Forwarded-For, trimmed.
func firstForwardedFor(xff string) string {
	xff = strings.TrimSpace(xff)
	if xff == "" {
		return ""
	}
	if i := strings.IndexByte(xff, ','); i >= 0 {
		xff = xff[:i]
	}
	return strings.TrimSpace(xff)
}

// IPMatcher matches exact IPs and CIDRs.
type IPMatcher struct {
	ips  []net.IP
	nets []*net.IPNet
}

func NewIPMatcher(list []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if _, ipnet, err := net.ParseCIDR(s); err == nil {
			m.nets = append(m.nets, ipnet)
			continue
		}
		if ip := net.ParseIP(s); ip != nil {
			m.ips = append(m.ips, ip)
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool {
	return len(m.ips) == 0 && len(m.nets) == 0
}

func (m *IPMatcher) Allow(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, v := range m.ips {
		if v.Equal(ip) {
			return true
		}
	}
	for _, n := range m.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

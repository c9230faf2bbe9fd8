package scraper

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
)

// validateURL rejects URLs that could reach internal infrastructure: only
// http and https schemes, no IP literals, and the hostname must resolve to
// a public address.
func (s *Scraper) validateURL(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return errors.New("Invalid URL: only http and https schemes are allowed")
	}

	host := parsed.Hostname()
	if host == "" {
		return errors.New("Invalid URL: missing host")
	}

	if s.allowPrivateHosts {
		return nil
	}

	if ip := net.ParseIP(host); ip != nil {
		if strings.Contains(host, ":") {
			return errors.New("Invalid URL: IPv6 address literals are not allowed")
		}
		return errors.New("Invalid URL: IP address literals are not allowed")
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil || len(addrs) == 0 {
		return errors.New("Invalid URL: hostname could not be resolved")
	}

	for _, addr := range addrs {
		if isPrivateAddr(addr.IP) {
			return errors.New("Invalid URL: host resolves to a private or reserved address")
		}
	}

	return nil
}

func isPrivateAddr(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}

package utils

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// PingService checks if a service is reachable at the given URL.
// A bare host:port is accepted and treated as http.
func PingService(serviceURL string, timeout time.Duration) error {
	if !strings.Contains(serviceURL, "://") {
		serviceURL = "http://" + serviceURL
	}

	parsedURL, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid service url %q: %w", serviceURL, err)
	}

	port := parsedURL.Port()
	if port == "" {
		port = "80"
		if parsedURL.Scheme == "https" {
			port = "443"
		}
	}

	return PingAddress(net.JoinHostPort(parsedURL.Hostname(), port), timeout)
}

// PingAddress opens and closes a TCP connection to address
func PingAddress(address string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	defer conn.Close()

	return nil
}

// PingAuthorizer checks if the Authorizer service is reachable
func PingAuthorizer(authzURL string) error {
	return PingService(authzURL, 1500*time.Millisecond)
}

package utils

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

func StringToUint(s string) (uint, error) {
	if s == "" {
		return 0, fmt.Errorf("empty string cannot be converted to uint")
	}

	val, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to convert '%s' to uint: %w", s, err)
	}

	return uint(val), nil
}

// IsLoopbackOrigin reports whether origin is an http(s) origin served from
// localhost or a loopback address.
func IsLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

package main

import (
	"fmt"
	"net"
)

// isIPAddress checks if a string is an IP address (IPv4 or IPv6)
func isIPAddress(addr string) bool {
	return net.ParseIP(addr) != nil
}

// hostLabel returns "IP" or "Domain" based on the host address type
func hostLabel(addr string) string {
	if isIPAddress(addr) {
		return "IP"
	}
	return "Domain"
}

// formatHostInfo formats host info as "name (IP: x.x.x.x)" or "name (Domain: example.com)"
func formatHostInfo(h Host) string {
	return fmt.Sprintf("%s (%s: %s)", h.Name, hostLabel(h.Address), h.Address)
}

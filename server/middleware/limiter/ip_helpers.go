// Copyright 2025, the ChooseStockBroker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// clientAddr returns the visitor's address.
//
// X-Real-IP and then the last X-Forwarded-For hop are used only when the
// direct peer is our reverse proxy, i.e. on a private or loopback network.
// IPv4-mapped IPv6 addresses are unmapped so both forms share a bucket.
func clientAddr(r *http.Request) (netip.Addr, bool) {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	peer, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}

	peer = peer.Unmap()

	if !peer.IsPrivate() && !peer.IsLoopback() {
		return peer, true
	}

	forwarded := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if forwarded == "" {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			hops := strings.Split(xff, ",")
			forwarded = strings.TrimSpace(hops[len(hops)-1])
		}
	}

	if forwarded == "" {
		return peer, true
	}

	addr, err := netip.ParseAddr(forwarded)
	if err != nil {
		return netip.Addr{}, false
	}

	return addr.Unmap(), true
}

// inList reports whether addr equals an entry or falls within an entry's prefix.
// Malformed entries never match.
func inList(addr netip.Addr, entries []string) bool {
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			if prefix, err := netip.ParsePrefix(entry); err == nil && prefix.Contains(addr) {
				return true
			}

			continue
		}

		if other, err := netip.ParseAddr(entry); err == nil && other.Unmap() == addr {
			return true
		}
	}

	return false
}

// networkOf masks addr to the configured prefix length for its family.
// Rate limit buckets are keyed by the result.
func networkOf(addr netip.Addr, ipv4Bits, ipv6Bits int) netip.Prefix {
	bits := ipv6Bits
	if addr.Is4() {
		bits = ipv4Bits
	}

	prefix, err := addr.Prefix(bits)
	if err != nil {
		return netip.PrefixFrom(addr, addr.BitLen())
	}

	return prefix
}

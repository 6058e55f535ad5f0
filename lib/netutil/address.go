// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"fmt"
	"net"
)

// LocalIPv4 returns the first non-loopback IPv4 address assigned to an
// interface that is up. Senders on the local network use this address,
// so it is what status reports advertise.
func LocalIPv4() (string, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("listing interfaces: %w", err)
	}
	for _, networkInterface := range interfaces {
		if networkInterface.Flags&net.FlagUp == 0 || networkInterface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addresses, err := networkInterface.Addrs()
		if err != nil {
			continue
		}
		if ip := firstIPv4(addresses); ip != "" {
			return ip, nil
		}
	}
	return "", fmt.Errorf("no non-loopback IPv4 address found")
}

// AdvertisedAddress returns LocalIPv4, falling back to the loopback
// address when the machine has no usable network interface.
func AdvertisedAddress() string {
	ip, err := LocalIPv4()
	if err != nil {
		return "127.0.0.1"
	}
	return ip
}

func firstIPv4(addresses []net.Addr) string {
	for _, address := range addresses {
		var ip net.IP
		switch value := address.(type) {
		case *net.IPNet:
			ip = value.IP
		case *net.IPAddr:
			ip = value.IP
		}
		if ip == nil || ip.IsLoopback() {
			continue
		}
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return ""
}

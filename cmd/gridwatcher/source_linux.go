//go:build linux

package main

import (
	"github.com/zuudevs/gridwatcher/internal/capture"
	"github.com/zuudevs/gridwatcher/internal/firewall"
)

func newLiveSource(iface string) capture.PacketSource {
	return capture.NewLinuxRawSocket()
}

func newEnforcer() firewall.Enforcer {
	return firewall.NewIPTables()
}

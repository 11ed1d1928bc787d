//go:build !linux

package firewall

import (
	"fmt"
	"os/exec"
)

// Netsh enforces drop rules on Windows via netsh advfirewall, invoked as a
// structured argv rather than a single interpolated command string.
type Netsh struct{}

func NewNetsh() *Netsh { return &Netsh{} }

func (e *Netsh) Block(ip string) error {
	if err := ValidateDottedQuad(ip); err != nil {
		return err
	}
	cmd := exec.Command("netsh", "advfirewall", "firewall", "add", "rule",
		"name=GridWatcher_"+ip, "dir=in", "interface=any", "action=block", "remoteip="+ip)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("netsh block failed for %s: %w", ip, err)
	}
	return nil
}

func (e *Netsh) Unblock(ip string) error {
	if err := ValidateDottedQuad(ip); err != nil {
		return err
	}
	cmd := exec.Command("netsh", "advfirewall", "firewall", "delete", "rule",
		"name=GridWatcher_"+ip)
	_ = cmd.Run()
	return nil
}

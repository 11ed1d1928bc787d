//go:build linux

package firewall

import (
	"fmt"
	"os/exec"

	"github.com/zuudevs/gridwatcher/internal/logging"
)

// IPTables enforces drop rules via the iptables(8) CLI, invoked as a
// structured argv (never a shell string) so a validated IP can never
// escape into a second command.
type IPTables struct{}

func NewIPTables() *IPTables { return &IPTables{} }

func (e *IPTables) Block(ip string) error {
	if err := ValidateDottedQuad(ip); err != nil {
		return err
	}
	cmd := exec.Command("iptables", "-A", "INPUT", "-s", ip, "-j", "DROP")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("iptables block failed for %s: %w", ip, err)
	}
	return nil
}

func (e *IPTables) Unblock(ip string) error {
	if err := ValidateDottedQuad(ip); err != nil {
		return err
	}
	cmd := exec.Command("iptables", "-D", "INPUT", "-s", ip, "-j", "DROP")
	if err := cmd.Run(); err != nil {
		// Unblock's exit status is advisory only; log and move on.
		logging.Warnf("iptables unblock returned an error for %s: %v", ip, err)
	}
	return nil
}

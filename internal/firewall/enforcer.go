// Package firewall installs and removes host-firewall drop rules.
package firewall

import (
	"fmt"
	"strconv"
	"strings"
)

// Enforcer invokes the host firewall to block or unblock a source IP.
// Block's failure is logged by the caller but never rolls back in-memory
// enforcement state — the executor's block set represents intent, and the
// firewall call is best-effort. Unblock's return status never changes
// enforcement state either; the executor only logs it.
type Enforcer interface {
	Block(ip string) error
	Unblock(ip string) error
}

// ValidateDottedQuad rejects anything that is not exactly four decimal
// octets 0-255 separated by dots, with no leading zeros. This exists so
// no firewall implementation ever interpolates an unvalidated string into
// a shell command or argv.
func ValidateDottedQuad(ip string) error {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return fmt.Errorf("invalid IPv4 address %q: expected 4 octets", ip)
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return fmt.Errorf("invalid IPv4 address %q", ip)
		}
		if len(p) > 1 && p[0] == '0' {
			return fmt.Errorf("invalid IPv4 address %q: leading zero in octet %q", ip, p)
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return fmt.Errorf("invalid IPv4 address %q", ip)
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return fmt.Errorf("invalid IPv4 address %q: octet out of range", ip)
		}
	}
	return nil
}

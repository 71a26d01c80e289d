// Package validation holds input checks shared by the translator and the
// daemon configuration.
package validation

import (
	"errors"
	"fmt"
	"net/netip"
	"path/filepath"
	"strings"
)

// IfNameSize is the kernel's interface name buffer size, terminator included.
const IfNameSize = 16

// ErrInvalidInterfaceName is returned for names the kernel would refuse.
var ErrInvalidInterfaceName = errors.New("invalid interface name")

// ValidateInterfaceName validates a network interface name: non-empty,
// shorter than IfNameSize, starting with an alphanumeric character and
// otherwise limited to alphanumerics and "-_.".
func ValidateInterfaceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidInterfaceName)
	}

	if len(name) >= IfNameSize {
		return fmt.Errorf("%w: %q too long (max %d characters)", ErrInvalidInterfaceName, name, IfNameSize-1)
	}

	if !isAlnum(name[0]) {
		return fmt.Errorf("%w: %q must start with a letter or digit", ErrInvalidInterfaceName, name)
	}

	for i := 1; i < len(name); i++ {
		c := name[i]
		if isAlnum(c) || c == '-' || c == '_' || c == '.' {
			continue
		}
		return fmt.Errorf("%w: %q contains %q", ErrInvalidInterfaceName, name, c)
	}

	return nil
}

// IsValidInterfaceName is the boolean form of ValidateInterfaceName.
func IsValidInterfaceName(name string) bool {
	return ValidateInterfaceName(name) == nil
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// ValidateDirectory validates a configured directory path: absolute, clean
// and free of traversal or NUL bytes.
func ValidateDirectory(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("null byte in path")
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("path traversal not allowed: %s", path)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	return nil
}

// ValidateListenAddress validates a host:port listen address with a literal
// IP host (or empty host for all addresses).
func ValidateListenAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if strings.HasPrefix(addr, ":") {
		addr = "0.0.0.0" + addr
	}
	if _, err := netip.ParseAddrPort(addr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	return nil
}

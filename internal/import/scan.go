package imports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// backupSuffixes mark editor and package manager leftovers that must never
// be read as interface configuration.
var backupSuffixes = []string{
	"~", ".old", ".bak", ".orig", ".scpmbackup",
	".rpmnew", ".rpmsave", ".rpmorig",
}

func isBlacklisted(name string) bool {
	for _, suffix := range backupSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// InterfaceNameFromFile returns the interface name encoded in an ifcfg file
// name. The file must carry the ifcfg- prefix, a non-empty name and no
// backup suffix.
func InterfaceNameFromFile(path string) (string, error) {
	base := filepath.Base(path)
	name, ok := strings.CutPrefix(base, ConfigPrefix)
	if !ok {
		return "", fmt.Errorf("%w: %s lacks the %s prefix", ErrMissingOrBlacklistedFile, path, ConfigPrefix)
	}
	if name == "" || isBlacklisted(base) {
		return "", fmt.Errorf("%w: %s", ErrMissingOrBlacklistedFile, path)
	}
	return name, nil
}

// ScanDirectory lists the ifcfg files of dir in name order, skipping
// blacklisted backups. A directory without any candidate is an error.
func ScanDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableConfigFile, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := InterfaceNameFromFile(e.Name()); err != nil {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", ErrMissingOrBlacklistedFile, ConfigPrefix, dir)
	}
	return files, nil
}

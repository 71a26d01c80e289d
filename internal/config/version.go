package config

import (
	"fmt"
	"strconv"
	"strings"
)

// SchemaVersion is the "major.minor" version of a configuration file.
type SchemaVersion struct {
	Major int
	Minor int
}

// SupportedMajor is the only major schema version this build reads.
const SupportedMajor = 1

// ParseVersion parses "X.Y". An empty string is version 1.0.
func ParseVersion(s string) (SchemaVersion, error) {
	if s == "" {
		return SchemaVersion{Major: 1}, nil
	}
	major, minor, ok := strings.Cut(s, ".")
	if !ok || strings.Contains(minor, ".") {
		return SchemaVersion{}, fmt.Errorf("invalid version format: %s (expected X.Y)", s)
	}
	var v SchemaVersion
	var err error
	if v.Major, err = strconv.Atoi(major); err != nil {
		return SchemaVersion{}, fmt.Errorf("invalid major version: %s", major)
	}
	if v.Minor, err = strconv.Atoi(minor); err != nil {
		return SchemaVersion{}, fmt.Errorf("invalid minor version: %s", minor)
	}
	return v, nil
}

func (v SchemaVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Supported reports whether files of version v can be read. Minor versions
// are backward compatible.
func (v SchemaVersion) Supported() bool {
	return v.Major == SupportedMajor
}

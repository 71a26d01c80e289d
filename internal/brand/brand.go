// Package brand holds the product identity and default filesystem locations.
// The values are loaded from brand.json at compile time via go:embed.
package brand

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
)

//go:embed brand.json
var brandJSON []byte

// Brand holds all branding information.
type Brand struct {
	Name                string `json:"name"`
	LowerName           string `json:"lowerName"`
	Vendor              string `json:"vendor"`
	Description         string `json:"description"`
	ConfigEnvPrefix     string `json:"configEnvPrefix"`
	DefaultConfigDir    string `json:"defaultConfigDir"`
	DefaultStateDir     string `json:"defaultStateDir"`
	DefaultSysconfigDir string `json:"defaultSysconfigDir"`
	BinaryName          string `json:"binaryName"`
	ConfigFileName      string `json:"configFileName"`
	MetricsListen       string `json:"metricsListen"`
}

var b Brand

func init() {
	if err := json.Unmarshal(brandJSON, &b); err != nil {
		panic("failed to parse brand.json: " + err.Error())
	}

	Name = b.Name
	LowerName = b.LowerName
	ConfigEnvPrefix = b.ConfigEnvPrefix
	DefaultConfigDir = b.DefaultConfigDir
	DefaultStateDir = b.DefaultStateDir
	DefaultSysconfigDir = b.DefaultSysconfigDir
	BinaryName = b.BinaryName
	ConfigFileName = b.ConfigFileName
	MetricsListen = b.MetricsListen
}

var (
	Name                string
	LowerName           string
	ConfigEnvPrefix     string
	DefaultConfigDir    string
	DefaultStateDir     string
	DefaultSysconfigDir string
	BinaryName          string
	ConfigFileName      string
	MetricsListen       string

	// Version is set at build time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
)

// Get returns the full Brand struct
func Get() Brand {
	return b
}

// GetStateDir returns the state directory, checking env vars first.
// Priority: IFCOMPAT_STATE_DIR > IFCOMPAT_PREFIX/state > DefaultStateDir
func GetStateDir() string {
	return lookupDir("_STATE_DIR", "state", DefaultStateDir)
}

// GetConfigDir returns the config directory, checking env vars first.
// Priority: IFCOMPAT_CONFIG_DIR > IFCOMPAT_PREFIX/config > DefaultConfigDir
func GetConfigDir() string {
	return lookupDir("_CONFIG_DIR", "config", DefaultConfigDir)
}

// GetSysconfigDir returns the directory holding ifcfg files.
// Priority: IFCOMPAT_SYSCONFIG_DIR > DefaultSysconfigDir
func GetSysconfigDir() string {
	if dir := os.Getenv(ConfigEnvPrefix + "_SYSCONFIG_DIR"); dir != "" {
		return dir
	}
	return DefaultSysconfigDir
}

// GetConfigPath returns the default daemon configuration file.
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), ConfigFileName)
}

func lookupDir(envSuffix, sub, fallback string) string {
	if dir := os.Getenv(ConfigEnvPrefix + envSuffix); dir != "" {
		return dir
	}
	if prefix := os.Getenv(ConfigEnvPrefix + "_PREFIX"); prefix != "" {
		return filepath.Join(prefix, sub)
	}
	return fallback
}

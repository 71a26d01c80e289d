package imports

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"grimm.is/ifcompat/internal/network"
	"grimm.is/ifcompat/internal/sysconfig"
)

// File names inside a sysconfig network directory.
const (
	ConfigPrefix     = "ifcfg-"
	RoutesPrefix     = "ifroute-"
	GlobalConfigFile = "config"
	GlobalDHCPFile   = "dhcp"
	GlobalRoutesFile = "routes"
)

// GlobalDefaults holds the scope-wide files of one directory. It is loaded
// once per translation run and released with Close.
type GlobalDefaults struct {
	Dir    string
	Config *sysconfig.File
	DHCP   *sysconfig.File
	Routes network.RouteList
}

// LoadGlobals reads the optional config, dhcp and routes files of dir. A
// file that exists but cannot be parsed fails the whole load.
func LoadGlobals(dir string) (g *GlobalDefaults, err error) {
	g = &GlobalDefaults{Dir: dir}
	defer func() {
		if err != nil {
			g.Close()
			g = nil
		}
	}()

	if g.Config, err = readOptional(filepath.Join(dir, GlobalConfigFile)); err != nil {
		return nil, err
	}
	if g.DHCP, err = readOptional(filepath.Join(dir, GlobalDHCPFile)); err != nil {
		return nil, err
	}

	routesPath := filepath.Join(dir, GlobalRoutesFile)
	ok, err := fileExists(routesPath)
	if err != nil {
		return nil, err
	}
	if ok {
		if g.Routes, err = ReadRoutes(routesPath); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Close releases the loaded files. It is safe to call more than once and on
// a nil receiver.
func (g *GlobalDefaults) Close() {
	if g == nil {
		return
	}
	g.Config = nil
	g.DHCP = nil
	g.Routes = nil
}

func readOptional(path string) (*sysconfig.File, error) {
	ok, err := fileExists(path)
	if err != nil || !ok {
		return nil, err
	}
	sc, err := sysconfig.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableConfigFile, err)
	}
	return sc, nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("%w: %w", ErrUnreadableConfigFile, err)
	case info.IsDir():
		return false, nil
	}
	return true, nil
}

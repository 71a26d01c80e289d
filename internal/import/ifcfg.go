package imports

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"grimm.is/ifcompat/internal/brand"
	"grimm.is/ifcompat/internal/clock"
	"grimm.is/ifcompat/internal/logging"
	"grimm.is/ifcompat/internal/metrics"
	"grimm.is/ifcompat/internal/sysconfig"
	"grimm.is/ifcompat/internal/validation"
)

// Translator turns ifcfg files into InterfaceConfig values. The zero value
// logs to the default logger and records no metrics.
type Translator struct {
	Log     *logging.Logger
	Metrics *metrics.Registry
}

// NewTranslator returns a translator logging through log under the "ifcfg"
// component.
func NewTranslator(log *logging.Logger, reg *metrics.Registry) *Translator {
	if log == nil {
		log = logging.Default()
	}
	return &Translator{Log: log.WithComponent("ifcfg"), Metrics: reg}
}

func (t *Translator) logger() *logging.Logger {
	if t.Log == nil {
		return logging.WithComponent("ifcfg")
	}
	return t.Log
}

// Read translates path, which is either a sysconfig network directory or a
// single ifcfg file. An empty path means the configured sysconfig directory.
func (t *Translator) Read(path string) ([]*InterfaceConfig, error) {
	if path == "" {
		path = brand.GetSysconfigDir()
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrMissingOrBlacklistedFile, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreadableConfigFile, err)
	}
	if info.IsDir() {
		return t.ReadDirectory(path)
	}
	cfg, err := t.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []*InterfaceConfig{cfg}, nil
}

// ReadDirectory translates every ifcfg file of dir. Any failure, whether
// loading the global files or translating one interface, fails the whole
// directory and no partial result is returned.
func (t *Translator) ReadDirectory(dir string) ([]*InterfaceConfig, error) {
	start := clock.Now()
	defer func() { t.Metrics.ObserveScan(clock.Since(start)) }()

	globals, err := LoadGlobals(dir)
	if err != nil {
		return nil, fmt.Errorf("loading global configuration of %s: %w", dir, err)
	}
	defer globals.Close()
	t.Metrics.RecordRoutes(len(globals.Routes))

	files, err := ScanDirectory(dir)
	if err != nil {
		return nil, err
	}

	configs := make([]*InterfaceConfig, 0, len(files))
	for _, file := range files {
		name, err := InterfaceNameFromFile(file)
		if err != nil {
			return nil, err
		}
		cfg, err := t.readInterface(file, name, globals)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	t.logger().Debug("Translated directory", "dir", dir, "interfaces", len(configs))
	return configs, nil
}

// ReadFile translates a single ifcfg file. Global files are read from the
// file's directory.
func (t *Translator) ReadFile(path string) (*InterfaceConfig, error) {
	name, err := InterfaceNameFromFile(path)
	if err != nil {
		return nil, err
	}

	globals, err := LoadGlobals(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("loading global configuration of %s: %w", filepath.Dir(path), err)
	}
	defer globals.Close()

	return t.readInterface(path, name, globals)
}

func (t *Translator) readInterface(path, name string, globals *GlobalDefaults) (*InterfaceConfig, error) {
	if err := validation.ValidateInterfaceName(name); err != nil {
		t.Metrics.RecordTranslation(err)
		return nil, &InterfaceError{Name: name, File: path, Err: err}
	}

	sc, err := sysconfig.Read(path)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrUnreadableConfigFile, err)
		t.Metrics.RecordTranslation(err)
		return nil, &InterfaceError{Name: name, File: path, Err: err}
	}
	sc.Path = path

	return t.Translate(name, sc, globals)
}

// Translate builds the configuration of interface name from sc. globals may
// be nil.
func (t *Translator) Translate(name string, sc *sysconfig.File, globals *GlobalDefaults) (*InterfaceConfig, error) {
	tr := &translation{
		cfg:     &InterfaceConfig{Name: name, File: sc.Path},
		sc:      sc,
		globals: globals,
		log:     t.logger().WithFields(map[string]any{"interface": name}),
		metrics: t.Metrics,
	}

	err := tr.run()
	t.Metrics.RecordTranslation(err)
	if err != nil {
		t.logger().Error("Translation failed", "interface", name, "file", sc.Path, "error", err)
		return nil, &InterfaceError{Name: name, File: sc.Path, Err: err}
	}
	return tr.cfg, nil
}

// translation is the state of one interface being translated.
type translation struct {
	cfg     *InterfaceConfig
	sc      *sysconfig.File
	globals *GlobalDefaults
	log     *logging.Logger
	metrics *metrics.Registry
}

func (t *translation) warn(kind, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	t.cfg.Warnings = append(t.cfg.Warnings, msg)
	t.log.Warn(msg, "kind", kind)
	t.metrics.RecordWarning(kind)
}

func (t *translation) run() error {
	cfg := t.cfg
	cfg.Control = ParseStartMode(t.sc.Value("STARTMODE"))

	if n, ok := t.sc.Uint("MTU"); ok {
		cfg.MTU = uint32(n)
	} else if v := t.sc.Value("MTU"); v != "" {
		t.warn("mtu", "cannot parse MTU=%q", v)
	}

	if v := t.sc.Value("LLADDR"); v != "" {
		hw, err := net.ParseMAC(v)
		if err != nil {
			t.warn("lladdr", "cannot parse LLADDR=%q", v)
		} else {
			cfg.HWAddr = hw
		}
	}

	link, err := recognizeLink(&recognizeCtx{name: cfg.Name, sc: t.sc, warn: t.warn})
	if err != nil {
		return err
	}
	cfg.Link = link

	return t.bootproto()
}

// bootproto applies BOOTPROTO. Static addresses and routes are processed
// for every mode except none and ibft.
func (t *translation) bootproto() error {
	value := t.sc.Value("BOOTPROTO")
	if value == "" || t.cfg.Name == "lo" {
		value = "static"
	}

	switch strings.ToLower(value) {
	case "none":
		// bonding slaves and unconfigured ports
		return nil
	case "ibft":
		// configured by firmware
		return nil
	case "static", "6to4":
		return t.buildStatic()
	}

	for _, tok := range strings.Split(value, "+") {
		switch strings.ToLower(tok) {
		case "dhcp":
			t.enableDHCP4()
			t.enableDHCP6()
		case "dhcp4":
			t.enableDHCP4()
		case "dhcp6":
			t.enableDHCP6()
		case "autoip":
			t.log.Debug("IPv4 link-local autoconfiguration is not translated")
		case "":
		default:
			t.warn("bootproto", "unknown BOOTPROTO value %q", tok)
		}
	}

	return t.buildStatic()
}

func wrapf(err error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, err)...)
}

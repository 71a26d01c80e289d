package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"grimm.is/ifcompat/internal/config"
	imports "grimm.is/ifcompat/internal/import"
	"grimm.is/ifcompat/internal/metrics"
)

// RunConvert translates ifcfg files and writes the result to out, or to the
// file named by -output.
func RunConvert(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	configFile := fs.String("config", "", "Configuration file")
	fs.StringVar(configFile, "c", "", "Configuration file (short)")
	path := fs.String("path", "", "ifcfg directory or single ifcfg file (default: sysconfig_dir)")
	fs.StringVar(path, "p", "", "ifcfg directory or file (short)")
	format := fs.String("format", "", "Output format: hcl, json or yaml (default: from config)")
	fs.StringVar(format, "f", "", "Output format (short)")
	output := fs.String("output", "", "Write to file instead of stdout")
	fs.StringVar(output, "o", "", "Output file (short)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	logger := setupLogging(cfg)

	if *path == "" {
		*path = cfg.SysconfigDir
	}
	if *format == "" {
		*format = cfg.Format
	}

	tr := imports.NewTranslator(logger, metrics.Get())
	configs, err := tr.Read(*path)
	if err != nil {
		return fmt.Errorf("translating %s: %w", *path, err)
	}

	data, err := render(configs, *format)
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", *output, err)
		}
		logger.Info("Wrote translated configuration", "file", *output, "interfaces", len(configs))
		return nil
	}
	_, err = out.Write(data)
	return err
}

func render(configs []*imports.InterfaceConfig, format string) ([]byte, error) {
	switch format {
	case config.FormatHCL:
		return imports.GenerateHCL(configs), nil
	case config.FormatJSON:
		data, err := imports.MarshalJSON(configs)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case config.FormatYAML:
		return imports.MarshalYAML(configs)
	}
	return nil, fmt.Errorf("unknown format %q (want hcl, json or yaml)", format)
}

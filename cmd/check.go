package cmd

import (
	"flag"
	"fmt"
	"io"

	imports "grimm.is/ifcompat/internal/import"
	"grimm.is/ifcompat/internal/i18n"
	"grimm.is/ifcompat/internal/metrics"
)

// RunCheck translates the ifcfg files and reports every warning. It fails
// when the translation fails, or with -strict when there were warnings.
func RunCheck(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	configFile := fs.String("config", "", "Configuration file")
	fs.StringVar(configFile, "c", "", "Configuration file (short)")
	path := fs.String("path", "", "ifcfg directory or single ifcfg file (default: sysconfig_dir)")
	fs.StringVar(path, "p", "", "ifcfg directory or file (short)")
	strict := fs.Bool("strict", false, "Treat warnings as errors")
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

	tr := imports.NewTranslator(logger, metrics.Get())
	configs, err := tr.Read(*path)
	if err != nil {
		Printer.Fprintf(out, i18n.MsgFailed, err)
		return err
	}

	warnings := 0
	for _, c := range configs {
		for _, w := range c.Warnings {
			Printer.Fprintf(out, i18n.MsgWarning, c.Name, w)
			warnings++
		}
		if len(c.Warnings) == 0 {
			Printer.Fprintf(out, i18n.MsgCheckOK, c.Name)
		}
	}
	Printer.Fprintf(out, i18n.MsgTranslated, len(configs), *path)
	if warnings > 0 {
		Printer.Fprintf(out, i18n.MsgWarnings, warnings)
		if *strict {
			return fmt.Errorf("%d warning(s) in strict mode", warnings)
		}
	}
	return nil
}

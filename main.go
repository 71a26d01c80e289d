package main

import (
	"errors"
	"flag"
	"os"

	"grimm.is/ifcompat/cmd"
	"grimm.is/ifcompat/internal/brand"
	"grimm.is/ifcompat/internal/i18n"
)

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	args := os.Args[2:]
	var err error

	switch os.Args[1] {
	case "convert":
		err = cmd.RunConvert(args, os.Stdout)
	case "check":
		err = cmd.RunCheck(args, os.Stdout)
	case "links":
		err = cmd.RunLinks(args, os.Stdout)
	case "serve-metrics":
		err = cmd.RunServeMetrics(args, os.Stdout)
	case "version", "-v", "--version":
		cmd.RunVersion(os.Stdout)
	case "help", "-h", "--help":
		printUsage()
	default:
		printer.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		printer.Fprintf(os.Stderr, "%s %s: %v\n", brand.BinaryName, os.Args[1], err)
		os.Exit(1)
	}
}

func printUsage() {
	printer.Printf(`%s - %s

Usage:
  %s <command> [options]

Commands:
  convert        Translate ifcfg files to HCL, JSON or YAML
                 Options: --config (-c) <file>, --path (-p) <dir|file>,
                          --format (-f) hcl|json|yaml, --output (-o) <file>
  check          Translate ifcfg files and report warnings
                 Options: --config (-c) <file>, --path (-p) <dir|file>, --strict
  links          Show kernel interfaces, addresses and routes
                 Options: --config (-c) <file>, --netns <name>
  serve-metrics  Serve Prometheus metrics
                 Options: --config (-c) <file>, --listen (-l) <addr>
  version        Show version

Examples:
  %s convert -p /etc/sysconfig/network -f yaml
  %s check -p /etc/sysconfig/network/ifcfg-eth0
  %s links --netns blue
`,
		brand.Name, brand.Get().Description,
		brand.BinaryName,
		brand.BinaryName, brand.BinaryName, brand.BinaryName)
}

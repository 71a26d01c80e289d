package cmd

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"grimm.is/ifcompat/internal/logging"
	"grimm.is/ifcompat/internal/network"
)

// RunLinks prints the interfaces, addresses and routes the kernel reports,
// optionally inside a named network namespace.
func RunLinks(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("links", flag.ContinueOnError)
	configFile := fs.String("config", "", "Configuration file")
	fs.StringVar(configFile, "c", "", "Configuration file (short)")
	nsName := fs.String("netns", "", "Named network namespace (default: from config, else current)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return err
	}
	setupLogging(cfg)
	if *nsName == "" {
		*nsName = cfg.Netns
	}

	table, err := snapshot(*nsName)
	if err != nil {
		return err
	}
	defer table.Close()

	return printLinks(out, table)
}

// snapshot reads the kernel interface table of the named namespace, or of
// the current one when name is empty.
func snapshot(name string) (*network.InterfaceTable, error) {
	var (
		nl  *network.RealNetlinker
		err error
	)
	if name == "" {
		nl, err = network.NewNetlinker()
	} else {
		nl, err = network.NewNetlinkerAt(name)
	}
	if err != nil {
		return nil, err
	}
	defer nl.Close()

	var drv network.DriverInfo
	if e, err := network.NewEthtoolDriverInfo(); err != nil {
		logging.WithComponent("links").Debug("ethtool unavailable, driver names omitted", "error", err)
	} else {
		defer e.Close()
		drv = e
	}

	return network.Snapshot(nl, drv)
}

func printLinks(out io.Writer, table *network.InterfaceTable) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINDEX\tTYPE\tDRIVER\tMTU\tADDRESSES")
	for _, ifp := range table.List() {
		addrs := make([]string, len(ifp.Addresses))
		for i, a := range ifp.Addresses {
			addrs[i] = a.String()
		}
		driver := ifp.Driver
		if driver == "" {
			driver = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%s\n",
			ifp.Name, ifp.Index, ifp.Type, driver, ifp.MTU, strings.Join(addrs, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, ifp := range table.List() {
		for _, r := range ifp.Routes {
			fmt.Fprintln(out, r)
		}
	}
	return nil
}

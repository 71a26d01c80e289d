package cmd

import (
	"io"
	"runtime"

	"grimm.is/ifcompat/internal/brand"
)

// RunVersion prints the build version.
func RunVersion(out io.Writer) {
	Printer.Fprintf(out, "%s %s (%s) %s/%s\n", brand.Name, brand.Version, brand.GitCommit, runtime.GOOS, runtime.GOARCH)
}

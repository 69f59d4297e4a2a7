// Command reportcheck validates valuation workbooks from the command line.
//
// Usage:
//
//	reportcheck validate report.xlsx [more.xlsx...] [--mode report|identifier]
//	    [--corrected-dir DIR] [--format json|yaml] [--jobs N]
//	reportcheck schema [--format json|yaml]
//
// validate exits 2 when any workbook has validation errors or cannot be
// read, and 1 on usage errors.
package main

import (
	"errors"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var failed *FailedFilesError
		if errors.As(err, &failed) {
			os.Exit(failed.ExitCode())
		}
		os.Exit(1)
	}
}

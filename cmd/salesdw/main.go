// Command salesdw loads the CRM extracts into the sales warehouse and serves
// the dashboard over it.
//
//	salesdw load      run one load
//	salesdw serve     serve the API and dashboard, optionally reloading on a schedule
//	salesdw report    print the dashboard figures
//	salesdw export    write the dashboard figures to an XLSX workbook
//	salesdw validate  check the configuration
package main

import (
	"fmt"
	"os"

	// register all backends with the storage factory.
	_ "salesdw/internal/storage/all"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "salesdw:", err)
		os.Exit(1)
	}
}

// Command ingestctl runs the upload pipeline on local files, the same way
// the server does, without touching the record store.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// Command unboxctl inspects, verifies, converts and transfers unboxed
// snapshot files.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

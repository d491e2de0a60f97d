// Command shop is a terminal client for the storefront. It keeps one cart,
// stored under CART_KEY, between invocations.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	c := newCLI()
	err := newRootCmd(c).Execute()
	// post-run hooks are skipped when a command fails
	c.stop()
	if err != nil {
		os.Exit(1)
	}
}

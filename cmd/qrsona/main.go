// Command qrsona is the command-line client of the QRsona profile
// exchange service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	a := newApp(os.Stdout, os.Stderr)
	if err := a.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, a.describe(err))
		os.Exit(1)
	}
}

// Command register walks the registration wizard against a running server
// and stops once a payment intent has been issued.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "register",
		Short:   "Register for the award dinner from the command line",
		Version: Version,
	}
	rootCmd.PersistentFlags().String("server", envOr("REGISTRATION_SERVER", "http://localhost:8787"), "Registration server base URL")

	rootCmd.AddCommand(offeringsCmd())
	rootCmd.AddCommand(checkoutCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

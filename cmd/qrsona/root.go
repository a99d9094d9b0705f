package main

import (
	"github.com/diewo77/qrsona/internal/config"
	"github.com/spf13/cobra"
)

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "qrsona",
		Short: "Exchange profiles by QR code and keep track of who you met",
		Long: `qrsona is the command-line client of the QRsona service.

Sign in, manage your profiles, share a QR code and record the people you
connect with, together with where and when you met them.

Configuration is read from ~/.qrsona/config.yaml, then QRSONA_* environment
variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultClientPath(), "Path to the YAML config file")
	pf.StringVar(&a.apiURL, "api", "", "API base URL (overrides config)")
	pf.StringVar(&a.lang, "lang", "", "Message language: ja or en")
	pf.BoolVar(&a.jsonOut, "json", false, "Print results as JSON")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Log requests to stderr")

	root.AddCommand(
		a.signupCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.profilesCmd(),
		a.profileCmd(),
		a.exchangeCmd(),
		a.friendCmd(),
		a.resolveCmd(),
		a.connectionsCmd(),
		a.mirrorCmd(),
		a.qrCmd(),
	)
	return root
}

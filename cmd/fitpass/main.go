package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fitpass-app/fitpass/internal/interfaces/cli/client"
	"github.com/fitpass-app/fitpass/internal/interfaces/cli/migrate"
	"github.com/fitpass-app/fitpass/internal/interfaces/cli/server"
)

// @title FitPass API
// @version 1.0
// @description Auth, REST, RPC and storage endpoints of the FitPass backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token from /auth/v1/token
func main() {
	globals := &client.Globals{}

	rootCmd := &cobra.Command{
		Use:          "fitpass",
		Short:        "FitPass - gym check-ins, competitions and family plans",
		Long:         `FitPass runs the marketplace backend (server, migrate) and acts as its terminal client.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&globals.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "Log client activity to stderr")

	rootCmd.AddCommand(
		server.NewCommand(&globals.ConfigPath),
		migrate.NewCommand(&globals.ConfigPath),
	)
	rootCmd.AddCommand(client.NewCommands(globals)...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

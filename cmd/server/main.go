package main

// @title           Shelfshare Library API
// @version         1.0
// @description     API for managing the Shelfshare library catalog, members and loans.

// @contact.name   Sina Niyavarzi
// @contact.email  sinaniya@gmail.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/library

// @securityDefinitions.basic  BasicAuth

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and a JWT.

import (
	"os"

	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "library-api",
		Short:         "Shelfshare library catalog, membership and loans service",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCreateStaffCmd(),
		newIssueTokenCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

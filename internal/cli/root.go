package cli

import "github.com/spf13/cobra"

const serviceName = "shipping-api"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Parcel shipment tracking service",
		Long:          "shipping-api registers parcel shipments, issues ENV tracking codes and moves shipments through their delivery lifecycle.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

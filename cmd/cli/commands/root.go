package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mintenance/mintenance/pkg/api/v1/client"
	"github.com/mintenance/mintenance/pkg/api/v1/routes"
)

// flag names
const (
	flagOwnerID       = "owner-id"
	flagServerAddress = "server-address"
)

// environment variable names
const (
	envServerAddress = "MINTENANCE_SERVER_ADDRESS"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
)

// initClient initializes the API client
func initClient() error {
	var err error
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress

	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL, "Address of the Mintenance API server (env: MINTENANCE_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().StringP(flagOwnerID, "o", "", "Owner ID for resources")

	RootCmd.AddCommand(GetJobsCmd())
	RootCmd.AddCommand(GetBidsCmd())
	RootCmd.AddCommand(GetEscrowsCmd())
	RootCmd.AddCommand(GetUsersCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "mintenance",
	Short: "Mintenance CLI - A command line interface for the Mintenance API",
	Long:  `Mintenance CLI is a command line tool for managing jobs, bids and escrows through the Mintenance API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > Env Var > Default
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// getOwnerID retrieves the owner ID from the command's persistent flags.
func getOwnerID(cmd *cobra.Command) (uint, error) {
	flag := cmd.Flag(flagOwnerID)
	if flag == nil {
		return 0, fmt.Errorf("flag '%s' is not defined", flagOwnerID)
	}

	ownerID := flag.Value.String()
	if ownerID == "" {
		return 0, fmt.Errorf("required flag(s) \"%s\" not set", flagOwnerID)
	}

	ownerIDUint, err := strconv.ParseUint(ownerID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid owner-id format: %w", err)
	}

	return uint(ownerIDUint), nil
}

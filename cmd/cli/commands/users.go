package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mintenance/mintenance/internal/types"
)

func init() {
	userCmd.AddCommand(getUserCmd)
	userCmd.AddCommand(createUserCmd)
	userCmd.AddCommand(deleteUserCmd)

	getUserCmd.Flags().StringP("id", "i", "", "ID of the user")
	getUserCmd.Flags().StringP("username", "u", "", "username of the user")

	createUserCmd.Flags().StringP("username", "u", "", "username of the user to be created")
	createUserCmd.Flags().String("email", "", "email of the user")
	createUserCmd.Flags().String("role", "", "role of the user (homeowner, contractor or admin)")
	_ = createUserCmd.MarkFlagRequired("username")

	deleteUserCmd.Flags().StringP("id", "i", "", "ID of the user to be deleted")
	_ = deleteUserCmd.MarkFlagRequired("id")
}

var userCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

// GetUsersCmd returns the users command
func GetUsersCmd() *cobra.Command {
	return userCmd
}

var getUserCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a user",
	Long:  "Get a user by ID or username",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		username, _ := cmd.Flags().GetString("username")

		if id == "" && username == "" {
			return fmt.Errorf("either --id or --username is required")
		}

		if username != "" {
			response, err := apiClient.GetUserByUsername(context.Background(), username)
			if err != nil {
				return fmt.Errorf("error fetching user: %w", err)
			}
			return printJSON(response)
		}

		response, err := apiClient.GetUserByID(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching user: %w", err)
		}
		return printJSON(response)
	},
}

var createUserCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long:  "Create a user with the given username",
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")

		response, err := apiClient.CreateUser(context.Background(), &types.CreateUserRequest{
			Username: username,
			Email:    email,
			Role:     role,
		})
		if err != nil {
			return fmt.Errorf("error creating a user: %w", err)
		}

		return printJSON(response)
	},
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a user",
	Long:  "Delete a user with a given ID",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")

		if err := apiClient.DeleteUser(context.Background(), id); err != nil {
			return fmt.Errorf("error while deleting user: %w", err)
		}

		fmt.Println("User deleted successfully")
		return nil
	},
}

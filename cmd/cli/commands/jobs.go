package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mintenance/mintenance/internal/types"
)

func init() {
	jobCmd.AddCommand(listJobsCmd)
	jobCmd.AddCommand(getJobCmd)
	jobCmd.AddCommand(createJobCmd)
	jobCmd.AddCommand(updateJobStatusCmd)
	jobCmd.AddCommand(cancelJobCmd)

	listJobsCmd.Flags().StringP("status", "t", "", "filter jobs by status")

	getJobCmd.Flags().StringP("id", "i", "", "ID of the job")
	_ = getJobCmd.MarkFlagRequired("id")

	createJobCmd.Flags().String("title", "", "title of the job")
	createJobCmd.Flags().String("description", "", "description of the job")
	createJobCmd.Flags().Uint("homeowner-id", 0, "ID of the homeowner posting the job")
	createJobCmd.Flags().Int64("budget-cents", 0, "budget for the job in cents")
	_ = createJobCmd.MarkFlagRequired("title")
	_ = createJobCmd.MarkFlagRequired("homeowner-id")

	updateJobStatusCmd.Flags().StringP("id", "i", "", "ID of the job")
	updateJobStatusCmd.Flags().StringP("status", "t", "", "new status for the job")
	_ = updateJobStatusCmd.MarkFlagRequired("id")
	_ = updateJobStatusCmd.MarkFlagRequired("status")

	cancelJobCmd.Flags().StringP("id", "i", "", "ID of the job")
	_ = cancelJobCmd.MarkFlagRequired("id")
}

var jobCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage jobs",
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobCmd
}

// listJobsCmd represents the command to list jobs
var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	Long:  `List jobs with optional filtering by status. Scoped to the owner when --owner-id is set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, _ := cmd.Flags().GetString("status")
		ownerID, _ := getOwnerID(cmd)

		response, err := apiClient.GetJobs(context.Background(), status, ownerID, nil)
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}

		return printJSON(response)
	},
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a job",
	Long:  "Get a job by its ID",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		ownerID, _ := getOwnerID(cmd)

		response, err := apiClient.GetJob(context.Background(), id, ownerID)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}

		return printJSON(response)
	},
}

var createJobCmd = &cobra.Command{
	Use:   "create",
	Short: "Post a job",
	Long:  "Post a new job for contractors to bid on",
	RunE: func(cmd *cobra.Command, _ []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		homeownerID, _ := cmd.Flags().GetUint("homeowner-id")
		budgetCents, _ := cmd.Flags().GetInt64("budget-cents")

		response, err := apiClient.CreateJob(context.Background(), &types.CreateJobRequest{
			Title:       title,
			Description: description,
			HomeownerID: homeownerID,
			BudgetCents: budgetCents,
		})
		if err != nil {
			return fmt.Errorf("error creating job: %w", err)
		}

		return printJSON(response)
	},
}

var updateJobStatusCmd = &cobra.Command{
	Use:   "update-status",
	Short: "Update a job's status",
	Long:  "Move a job to the requested lifecycle status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		status, _ := cmd.Flags().GetString("status")
		ownerID, _ := getOwnerID(cmd)

		response, err := apiClient.UpdateJobStatus(context.Background(), id, ownerID, status)
		if err != nil {
			return fmt.Errorf("error updating job status: %w", err)
		}

		return printJSON(response)
	},
}

var cancelJobCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel a job",
	Long:  "Cancel a job from any non-terminal status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		ownerID, _ := getOwnerID(cmd)

		response, err := apiClient.CancelJob(context.Background(), id, ownerID)
		if err != nil {
			return fmt.Errorf("error cancelling job: %w", err)
		}

		return printJSON(response)
	},
}

// printJSON pretty prints a response to stdout
func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}

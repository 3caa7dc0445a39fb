package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mintenance/mintenance/internal/types"
)

func init() {
	escrowCmd.AddCommand(listEscrowsCmd)
	escrowCmd.AddCommand(getEscrowCmd)
	escrowCmd.AddCommand(releaseStatusCmd)
	escrowCmd.AddCommand(releaseEscrowCmd)
	escrowCmd.AddCommand(approveEscrowCmd)
	escrowCmd.AddCommand(refundEscrowCmd)
	escrowCmd.AddCommand(disputeEscrowCmd)
	escrowCmd.AddCommand(releasableEscrowsCmd)
	escrowCmd.AddCommand(holdEscrowCmd)

	listEscrowsCmd.Flags().StringP("status", "t", "", "filter escrows by status")

	getEscrowCmd.Flags().StringP("id", "i", "", "ID of the escrow")
	_ = getEscrowCmd.MarkFlagRequired("id")

	releaseStatusCmd.Flags().StringP("id", "i", "", "ID of the escrow")
	_ = releaseStatusCmd.MarkFlagRequired("id")

	releaseEscrowCmd.Flags().StringP("id", "i", "", "ID of the escrow")
	_ = releaseEscrowCmd.MarkFlagRequired("id")

	approveEscrowCmd.Flags().StringP("id", "i", "", "ID of the escrow")
	_ = approveEscrowCmd.MarkFlagRequired("id")

	refundEscrowCmd.Flags().StringP("id", "i", "", "ID of the escrow")
	_ = refundEscrowCmd.MarkFlagRequired("id")

	disputeEscrowCmd.Flags().StringP("id", "i", "", "ID of the escrow")
	_ = disputeEscrowCmd.MarkFlagRequired("id")

	holdEscrowCmd.Flags().StringP("id", "i", "", "ID of the escrow")
	holdEscrowCmd.Flags().String("hold-status", "", "hold status to set (none, pending_review or admin_hold)")
	holdEscrowCmd.Flags().String("reason", "", "reason for the hold")
	_ = holdEscrowCmd.MarkFlagRequired("id")
	_ = holdEscrowCmd.MarkFlagRequired("hold-status")
}

var escrowCmd = &cobra.Command{
	Use:   "escrows",
	Short: "Manage escrows",
}

// GetEscrowsCmd returns the escrows command
func GetEscrowsCmd() *cobra.Command {
	return escrowCmd
}

var listEscrowsCmd = &cobra.Command{
	Use:   "list",
	Short: "List escrows",
	Long:  `List escrows with optional filtering by status. Scoped to the owner when --owner-id is set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, _ := cmd.Flags().GetString("status")
		ownerID, _ := getOwnerID(cmd)

		response, err := apiClient.GetEscrows(context.Background(), status, ownerID, nil)
		if err != nil {
			return fmt.Errorf("error fetching escrows: %w", err)
		}

		return printJSON(response)
	},
}

var getEscrowCmd = &cobra.Command{
	Use:   "get",
	Short: "Get an escrow",
	Long:  "Get an escrow by its ID",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		ownerID, _ := getOwnerID(cmd)

		response, err := apiClient.GetEscrow(context.Background(), id, ownerID)
		if err != nil {
			return fmt.Errorf("error fetching escrow: %w", err)
		}

		return printJSON(response)
	},
}

var releaseStatusCmd = &cobra.Command{
	Use:   "release-status",
	Short: "Show an escrow's release status",
	Long:  "Report whether an escrow can be released, what is blocking it and when funds are expected",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		ownerID, _ := getOwnerID(cmd)

		response, err := apiClient.GetReleaseStatus(context.Background(), id, ownerID)
		if err != nil {
			return fmt.Errorf("error fetching release status: %w", err)
		}

		return printJSON(response)
	},
}

var releaseEscrowCmd = &cobra.Command{
	Use:   "release",
	Short: "Release an escrow",
	Long:  "Release an escrow's funds to the contractor if every gate has cleared",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		ownerID, _ := getOwnerID(cmd)

		response, err := apiClient.ReleaseEscrow(context.Background(), id, ownerID)
		if err != nil {
			return fmt.Errorf("error releasing escrow: %w", err)
		}

		return printJSON(response)
	},
}

var approveEscrowCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve an escrow",
	Long:  "Record the homeowner's approval of the completed work",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		ownerID, _ := getOwnerID(cmd)

		if err := apiClient.ApproveEscrow(context.Background(), id, ownerID); err != nil {
			return fmt.Errorf("error approving escrow: %w", err)
		}

		fmt.Println("Escrow approved successfully")
		return nil
	},
}

var refundEscrowCmd = &cobra.Command{
	Use:   "refund",
	Short: "Refund an escrow",
	Long:  "Return held funds to the homeowner",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		ownerID, _ := getOwnerID(cmd)

		if err := apiClient.RefundEscrow(context.Background(), id, ownerID); err != nil {
			return fmt.Errorf("error refunding escrow: %w", err)
		}

		fmt.Println("Escrow refunded successfully")
		return nil
	},
}

var disputeEscrowCmd = &cobra.Command{
	Use:   "dispute",
	Short: "Dispute an escrow",
	Long:  "Freeze an escrow pending dispute resolution",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		ownerID, _ := getOwnerID(cmd)

		if err := apiClient.DisputeEscrow(context.Background(), id, ownerID); err != nil {
			return fmt.Errorf("error disputing escrow: %w", err)
		}

		fmt.Println("Escrow disputed successfully")
		return nil
	},
}

var releasableEscrowsCmd = &cobra.Command{
	Use:   "releasable",
	Short: "List escrows awaiting release",
	Long:  "List escrows still holding funds, for admin review",
	RunE: func(_ *cobra.Command, _ []string) error {
		response, err := apiClient.AdminGetReleasableEscrows(context.Background())
		if err != nil {
			return fmt.Errorf("error fetching releasable escrows: %w", err)
		}

		return printJSON(response)
	},
}

var holdEscrowCmd = &cobra.Command{
	Use:   "hold",
	Short: "Set an admin hold",
	Long:  "Place or clear an administrative hold on an escrow",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		holdStatus, _ := cmd.Flags().GetString("hold-status")
		reason, _ := cmd.Flags().GetString("reason")

		err := apiClient.AdminSetEscrowHold(context.Background(), id, &types.SetAdminHoldRequest{
			HoldStatus: holdStatus,
			Reason:     reason,
		})
		if err != nil {
			return fmt.Errorf("error setting admin hold: %w", err)
		}

		fmt.Println("Admin hold updated successfully")
		return nil
	},
}

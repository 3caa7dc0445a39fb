package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mintenance/mintenance/internal/types"
)

func init() {
	bidCmd.AddCommand(listBidsCmd)
	bidCmd.AddCommand(placeBidCmd)
	bidCmd.AddCommand(acceptBidCmd)
	bidCmd.AddCommand(withdrawBidCmd)

	listBidsCmd.Flags().StringP("job-id", "j", "", "ID of the job")
	_ = listBidsCmd.MarkFlagRequired("job-id")

	placeBidCmd.Flags().StringP("job-id", "j", "", "ID of the job to bid on")
	placeBidCmd.Flags().Uint("contractor-id", 0, "ID of the bidding contractor")
	placeBidCmd.Flags().Int64("amount-cents", 0, "bid amount in cents")
	placeBidCmd.Flags().String("message", "", "message to the homeowner")
	_ = placeBidCmd.MarkFlagRequired("job-id")
	_ = placeBidCmd.MarkFlagRequired("contractor-id")
	_ = placeBidCmd.MarkFlagRequired("amount-cents")

	acceptBidCmd.Flags().StringP("id", "i", "", "ID of the bid to accept")
	_ = acceptBidCmd.MarkFlagRequired("id")

	withdrawBidCmd.Flags().StringP("id", "i", "", "ID of the bid to withdraw")
	withdrawBidCmd.Flags().Uint("contractor-id", 0, "ID of the contractor withdrawing the bid")
	_ = withdrawBidCmd.MarkFlagRequired("id")
	_ = withdrawBidCmd.MarkFlagRequired("contractor-id")
}

var bidCmd = &cobra.Command{
	Use:   "bids",
	Short: "Manage bids",
}

// GetBidsCmd returns the bids command
func GetBidsCmd() *cobra.Command {
	return bidCmd
}

var listBidsCmd = &cobra.Command{
	Use:   "list",
	Short: "List bids on a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("job-id")

		response, err := apiClient.GetJobBids(context.Background(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching bids: %w", err)
		}

		return printJSON(response)
	},
}

var placeBidCmd = &cobra.Command{
	Use:   "place",
	Short: "Place a bid",
	Long:  "Place a bid on an open job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("job-id")
		contractorID, _ := cmd.Flags().GetUint("contractor-id")
		amountCents, _ := cmd.Flags().GetInt64("amount-cents")
		message, _ := cmd.Flags().GetString("message")

		response, err := apiClient.PlaceBid(context.Background(), jobID, &types.CreateBidRequest{
			ContractorID: contractorID,
			AmountCents:  amountCents,
			Message:      message,
		})
		if err != nil {
			return fmt.Errorf("error placing bid: %w", err)
		}

		return printJSON(response)
	},
}

var acceptBidCmd = &cobra.Command{
	Use:   "accept",
	Short: "Accept a bid",
	Long:  "Accept a bid, assigning the job to the contractor and opening an escrow hold",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		ownerID, err := getOwnerID(cmd)
		if err != nil {
			return err
		}

		response, err := apiClient.AcceptBid(context.Background(), id, ownerID)
		if err != nil {
			return fmt.Errorf("error accepting bid: %w", err)
		}

		return printJSON(response)
	},
}

var withdrawBidCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw a bid",
	Long:  "Withdraw a pending bid",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		contractorID, _ := cmd.Flags().GetUint("contractor-id")

		if err := apiClient.WithdrawBid(context.Background(), id, contractorID); err != nil {
			return fmt.Errorf("error withdrawing bid: %w", err)
		}

		fmt.Println("Bid withdrawn successfully")
		return nil
	},
}

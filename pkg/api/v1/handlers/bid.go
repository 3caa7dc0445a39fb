package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mintenance/mintenance/internal/db/repos"
	"github.com/mintenance/mintenance/internal/services"
	"github.com/mintenance/mintenance/internal/types"
)

// BidHandler handles HTTP requests for bid operations
type BidHandler struct {
	service *services.Bid
}

// NewBidHandler creates a new bid handler instance
func NewBidHandler(service *services.Bid) *BidHandler {
	return &BidHandler{
		service: service,
	}
}

// PlaceBid handles a contractor bidding on an open job
func (h *BidHandler) PlaceBid(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	var req types.CreateBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	bid, err := h.service.PlaceBid(c.Context(), uint(jobID), &req)
	switch {
	case errors.Is(err, services.ErrJobNotOpen):
		return c.Status(fiber.StatusConflict).
			JSON(types.ErrConflict(ErrMsgJobNotOpen, nil))
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgJobNotFound))
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgBidCreateFailed))
	}

	return c.Status(fiber.StatusCreated).JSON(types.Success(bid))
}

// ListBids lists the bids placed on a job
func (h *BidHandler) ListBids(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	opts := getPaginationOptions(c)

	bids, err := h.service.ListBids(c.Context(), uint(jobID), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgBidListFailed))
	}

	return c.JSON(types.ListBidsResponse{
		Slug: types.SuccessSlug,
		Bids: bids,
		Pagination: types.PaginationResponse{
			Total:  len(bids),
			Page:   1,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// AcceptBid assigns a job to the bidding contractor and opens an escrow hold
func (h *BidHandler) AcceptBid(c *fiber.Ctx) error {
	bidID, err := c.ParamsInt("id")
	if err != nil || bidID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgBidIDRequired))
	}

	escrow, err := h.service.AcceptBid(c.Context(), ownerID(c), uint(bidID))
	switch {
	case errors.Is(err, services.ErrBidNotPending):
		return c.Status(fiber.StatusConflict).
			JSON(types.ErrConflict(ErrMsgBidNotPending, nil))
	case errors.Is(err, repos.ErrStaleStatus):
		return c.Status(fiber.StatusConflict).
			JSON(types.ErrConflict(ErrMsgJobStatusConflict, nil))
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgBidNotFound))
	case err != nil:
		return respondWithJobStatusError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.Success(escrow))
}

// WithdrawBid lets a contractor withdraw a pending bid
func (h *BidHandler) WithdrawBid(c *fiber.Ctx) error {
	bidID, err := c.ParamsInt("id")
	if err != nil || bidID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgBidIDRequired))
	}

	contractorID := c.QueryInt("contractor_id", 0)
	if contractorID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("contractor_id is required"))
	}

	err = h.service.WithdrawBid(c.Context(), uint(contractorID), uint(bidID))
	switch {
	case errors.Is(err, services.ErrBidNotPending):
		return c.Status(fiber.StatusConflict).
			JSON(types.ErrConflict(ErrMsgBidNotPending, nil))
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgBidNotFound))
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgBidWithdrawFailed))
	}

	return c.JSON(types.Success(nil))
}

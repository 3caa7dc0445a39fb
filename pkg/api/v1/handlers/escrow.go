package handlers

import (
	"context"
	"errors"
	"fmt"

	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mintenance/mintenance/internal/db/models"
	"github.com/mintenance/mintenance/internal/db/repos"
	"github.com/mintenance/mintenance/internal/services"
	"github.com/mintenance/mintenance/internal/types"
)

// EscrowHandler handles HTTP requests for escrow operations
type EscrowHandler struct {
	service *services.Escrow
}

// NewEscrowHandler creates a new escrow handler instance
func NewEscrowHandler(service *services.Escrow) *EscrowHandler {
	return &EscrowHandler{
		service: service,
	}
}

// ListEscrows lists escrows, optionally filtered by status
func (h *EscrowHandler) ListEscrows(c *fiber.Ctx) error {
	opts := getPaginationOptions(c)

	status := models.EscrowStatusUnknown
	if statusStr := c.Query("status"); statusStr != "" {
		parsed, err := models.ParseEscrowStatus(statusStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(fmt.Sprintf("invalid escrow status: %v", err)))
		}
		status = parsed
	}

	escrows, err := h.service.ListEscrows(c.Context(), status, ownerID(c), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgEscrowListFailed))
	}

	total, err := h.service.CountEscrows(c.Context(), status, ownerID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgEscrowListFailed))
	}

	return c.JSON(types.ListEscrowsResponse{
		Slug:    types.SuccessSlug,
		Escrows: escrows,
		Pagination: types.PaginationResponse{
			Total:  int(total),
			Page:   opts.Offset/opts.Limit + 1,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// ListReleasable lists escrows still awaiting release, for admin review
func (h *EscrowHandler) ListReleasable(c *fiber.Ctx) error {
	escrows, err := h.service.ListReleasable(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgEscrowListFailed))
	}

	return c.JSON(types.ListEscrowsResponse{
		Slug:    types.SuccessSlug,
		Escrows: escrows,
		Pagination: types.PaginationResponse{
			Total: len(escrows),
			Page:  1,
			Limit: len(escrows),
		},
	})
}

// GetEscrow returns details of a specific escrow
func (h *EscrowHandler) GetEscrow(c *fiber.Ctx) error {
	escrowID, err := c.ParamsInt("id")
	if err != nil || escrowID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgEscrowIDRequired))
	}

	escrow, err := h.service.GetEscrow(c.Context(), ownerID(c), uint(escrowID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgEscrowNotFound))
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgEscrowGetFailed))
	}

	return c.JSON(types.Success(escrow))
}

// GetEscrowByJob returns the escrow holding funds for a job
func (h *EscrowHandler) GetEscrowByJob(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	escrow, err := h.service.GetEscrowByJob(c.Context(), uint(jobID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgEscrowNotFound))
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgEscrowGetFailed))
	}

	return c.JSON(types.Success(escrow))
}

// ReleaseStatus reports whether an escrow can be released and what is
// blocking it
func (h *EscrowHandler) ReleaseStatus(c *fiber.Ctx) error {
	escrowID, err := c.ParamsInt("id")
	if err != nil || escrowID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgEscrowIDRequired))
	}

	decision, err := h.service.ReleaseStatus(c.Context(), ownerID(c), uint(escrowID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgEscrowNotFound))
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgEscrowGetFailed))
	}

	return c.JSON(types.Success(types.ReleaseStatusResponse{
		EscrowID: uint(escrowID),
		Decision: decision,
	}))
}

// Release attempts to release an escrow's funds to the contractor
func (h *EscrowHandler) Release(c *fiber.Ctx) error {
	escrowID, err := c.ParamsInt("id")
	if err != nil || escrowID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgEscrowIDRequired))
	}

	decision, err := h.service.Release(c.Context(), ownerID(c), uint(escrowID))
	switch {
	case errors.Is(err, services.ErrReleaseBlocked):
		return c.Status(fiber.StatusConflict).
			JSON(types.ErrConflict(ErrMsgReleaseBlocked, types.ReleaseStatusResponse{
				EscrowID: uint(escrowID),
				Decision: decision,
			}))
	case errors.Is(err, repos.ErrStaleStatus):
		return c.Status(fiber.StatusConflict).
			JSON(types.ErrConflict(ErrMsgJobStatusConflict, nil))
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgEscrowNotFound))
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgEscrowReleaseFailed))
	}

	return c.JSON(types.Success(types.ReleaseStatusResponse{
		EscrowID: uint(escrowID),
		Decision: decision,
	}))
}

// Approve records the homeowner's approval of the completed work
func (h *EscrowHandler) Approve(c *fiber.Ctx) error {
	return h.finalize(c, h.service.Approve, ErrMsgEscrowApproveFailed)
}

// Refund returns held funds to the homeowner
func (h *EscrowHandler) Refund(c *fiber.Ctx) error {
	return h.finalize(c, h.service.Refund, ErrMsgEscrowRefundFailed)
}

// Dispute freezes an escrow pending resolution
func (h *EscrowHandler) Dispute(c *fiber.Ctx) error {
	return h.finalize(c, h.service.Dispute, ErrMsgEscrowDisputeFailed)
}

func (h *EscrowHandler) finalize(c *fiber.Ctx, op func(ctx context.Context, ownerID, id uint) error, failMsg string) error {
	escrowID, err := c.ParamsInt("id")
	if err != nil || escrowID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgEscrowIDRequired))
	}

	err = op(c.Context(), ownerID(c), uint(escrowID))
	switch {
	case errors.Is(err, services.ErrEscrowFinalized):
		return c.Status(fiber.StatusConflict).
			JSON(types.ErrConflict(ErrMsgEscrowFinalized, nil))
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgEscrowNotFound))
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(failMsg))
	}

	return c.JSON(types.Success(nil))
}

// SetAdminHold places or clears an administrative hold on an escrow
func (h *EscrowHandler) SetAdminHold(c *fiber.Ctx) error {
	escrowID, err := c.ParamsInt("id")
	if err != nil || escrowID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgEscrowIDRequired))
	}

	var req types.SetAdminHoldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	hold, err := models.ParseAdminHoldStatus(req.HoldStatus)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	err = h.service.SetAdminHold(c.Context(), uint(escrowID), hold, req.Reason)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgEscrowNotFound))
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgAdminHoldFailed))
	}

	return c.JSON(types.Success(nil))
}

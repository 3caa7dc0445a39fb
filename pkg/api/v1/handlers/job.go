package handlers

import (
	"errors"
	"fmt"

	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mintenance/mintenance/internal/db/models"
	"github.com/mintenance/mintenance/internal/db/repos"
	"github.com/mintenance/mintenance/internal/services"
	"github.com/mintenance/mintenance/internal/types"
)

// JobHandler handles HTTP requests for job operations
type JobHandler struct {
	service *services.Job
}

// NewJobHandler creates a new job handler instance
func NewJobHandler(service *services.Job) *JobHandler {
	return &JobHandler{
		service: service,
	}
}

// CreateJob handles the request to post a new job
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	var req types.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	job, err := h.service.CreateJob(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgJobCreateFailed))
	}

	return c.Status(fiber.StatusCreated).JSON(types.Success(job))
}

// ListJobs handles the request to list jobs, optionally filtered by status
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	opts := getPaginationOptions(c)

	status := models.JobStatusUnknown
	if statusStr := c.Query("status"); statusStr != "" {
		parsed, err := models.ParseJobStatus(statusStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(fmt.Sprintf("invalid job status: %v", err)))
		}
		status = parsed
	}

	jobs, err := h.service.ListJobs(c.Context(), status, ownerID(c), opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgJobListFailed))
	}

	total, err := h.service.CountJobs(c.Context(), status, ownerID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgJobListFailed))
	}

	return c.JSON(types.ListJobsResponse{
		Slug: types.SuccessSlug,
		Jobs: jobs,
		Pagination: types.PaginationResponse{
			Total:  int(total),
			Page:   opts.Offset/opts.Limit + 1,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// GetJob returns details of a specific job
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	job, err := h.service.GetJob(c.Context(), ownerID(c), uint(jobID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgJobNotFound))
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgJobGetFailed))
	}

	return c.JSON(types.Success(job))
}

// UpdateJobStatus moves a job through its lifecycle
func (h *JobHandler) UpdateJobStatus(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	var req types.UpdateJobStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	next, err := models.ParseJobStatus(req.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgJobStatusInvalid))
	}

	job, err := h.service.UpdateJobStatus(c.Context(), ownerID(c), uint(jobID), next)
	if err != nil {
		return respondWithJobStatusError(c, err)
	}

	return c.JSON(types.Success(job))
}

// CancelJob cancels a job from any non-terminal state
func (h *JobHandler) CancelJob(c *fiber.Ctx) error {
	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(ErrMsgJobIDRequired))
	}

	job, err := h.service.CancelJob(c.Context(), ownerID(c), uint(jobID))
	if err != nil {
		return respondWithJobStatusError(c, err)
	}

	return c.JSON(types.Success(job))
}

// respondWithJobStatusError maps lifecycle errors onto HTTP statuses. An
// illegal transition carries the set of legal next states back to the caller.
func respondWithJobStatusError(c *fiber.Ctx, err error) error {
	var transitionErr *models.InvalidTransitionError
	switch {
	case errors.As(err, &transitionErr):
		return c.Status(fiber.StatusBadRequest).JSON(types.SlugResponse{
			Slug:  types.InvalidInputSlug,
			Error: transitionErr.Error(),
			Data: fiber.Map{
				"current":   transitionErr.Current,
				"attempted": transitionErr.Attempted,
				"valid":     transitionErr.Valid,
			},
		})
	case errors.Is(err, repos.ErrStaleStatus):
		return c.Status(fiber.StatusConflict).
			JSON(types.ErrConflict(ErrMsgJobStatusConflict, nil))
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(types.ErrNotFound(ErrMsgJobNotFound))
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrServer(ErrMsgJobStatusFailed))
	}
}

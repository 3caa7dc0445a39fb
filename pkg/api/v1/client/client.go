// Package client provides the API client for interacting with the Mintenance API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/mintenance/mintenance/internal/db/models"
	"github.com/mintenance/mintenance/internal/types"
	"github.com/mintenance/mintenance/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for API client
type Client interface {
	// Admin Endpoints
	AdminGetReleasableEscrows(ctx context.Context) ([]models.Escrow, error)
	AdminSetEscrowHold(ctx context.Context, id string, req *types.SetAdminHoldRequest) error

	// Health Check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Job Endpoints
	CreateJob(ctx context.Context, req *types.CreateJobRequest) (models.Job, error)
	GetJobs(ctx context.Context, status string, ownerID uint, opts *models.ListOptions) ([]models.Job, error)
	GetJob(ctx context.Context, id string, ownerID uint) (models.Job, error)
	UpdateJobStatus(ctx context.Context, id string, ownerID uint, status string) (models.Job, error)
	CancelJob(ctx context.Context, id string, ownerID uint) (models.Job, error)

	// Bid Endpoints
	PlaceBid(ctx context.Context, jobID string, req *types.CreateBidRequest) (models.Bid, error)
	GetJobBids(ctx context.Context, jobID string) ([]models.Bid, error)
	AcceptBid(ctx context.Context, bidID string, ownerID uint) (models.Escrow, error)
	WithdrawBid(ctx context.Context, bidID string, contractorID uint) error

	// Escrow Endpoints
	GetEscrows(ctx context.Context, status string, ownerID uint, opts *models.ListOptions) ([]models.Escrow, error)
	GetEscrow(ctx context.Context, id string, ownerID uint) (models.Escrow, error)
	GetJobEscrow(ctx context.Context, jobID string) (models.Escrow, error)
	GetReleaseStatus(ctx context.Context, id string, ownerID uint) (types.ReleaseStatusResponse, error)
	ReleaseEscrow(ctx context.Context, id string, ownerID uint) (types.ReleaseStatusResponse, error)
	ApproveEscrow(ctx context.Context, id string, ownerID uint) error
	RefundEscrow(ctx context.Context, id string, ownerID uint) error
	DisputeEscrow(ctx context.Context, id string, ownerID uint) error

	// User Endpoints
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, req *types.CreateUserRequest) (types.CreateUserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate the base URL
	_, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	// Resolve the endpoint URL
	fullURL := c.baseURL + endpoint

	// Create a new agent based on the HTTP method
	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPatch:
		agent = fiber.Patch(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	// Set common headers
	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")

	// Add body if provided
	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// executeRequest creates an agent, sends the request, and decodes the raw
// response body into v
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, v interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	statusCode, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	// Check for non-success status codes
	if statusCode < 200 || statusCode >= 300 {
		return &fiber.Error{
			Code:    statusCode,
			Message: string(respBody),
		}
	}

	// Decode the response body if a target is provided
	if v != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// executeSlugRequest sends the request and unwraps the data field of the
// slug-enveloped response into v
func (c *APIClient) executeSlugRequest(ctx context.Context, method, endpoint string, body, v interface{}) error {
	var slugResponse types.SlugResponse
	if err := c.executeRequest(ctx, method, endpoint, body, &slugResponse); err != nil {
		return err
	}

	if slugResponse.Slug != types.SuccessSlug {
		return fmt.Errorf("request failed: %s", slugResponse.Error)
	}

	if v == nil || slugResponse.Data == nil {
		return nil
	}

	dataJSON, err := json.Marshal(slugResponse.Data)
	if err != nil {
		return fmt.Errorf("error marshaling data: %w", err)
	}

	return json.Unmarshal(dataJSON, v)
}

// getQueryParams creates url.Values from ListOptions
func getQueryParams(opts *models.ListOptions) url.Values {
	q := url.Values{}
	if opts == nil {
		return q
	}

	if opts.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", opts.Offset))
	}
	if opts.IncludeDeleted {
		q.Set("include_deleted", "true")
	}

	return q
}

// ownerParams returns query params carrying the owner scope. An owner of zero
// is omitted and the server treats the request as administrative.
func ownerParams(ownerID uint) url.Values {
	q := url.Values{}
	if ownerID > 0 {
		q.Set("owner_id", fmt.Sprintf("%d", ownerID))
	}
	return q
}

// Admin methods implementation

// AdminGetReleasableEscrows retrieves escrows still awaiting release
func (c *APIClient) AdminGetReleasableEscrows(ctx context.Context) ([]models.Escrow, error) {
	endpoint := routes.AdminReleasableEscrowsURL()
	var response types.ListEscrowsResponse
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return []models.Escrow{}, err
	}
	return response.Escrows, nil
}

// AdminSetEscrowHold places or clears an administrative hold on an escrow
func (c *APIClient) AdminSetEscrowHold(ctx context.Context, id string, req *types.SetAdminHoldRequest) error {
	endpoint := routes.AdminSetEscrowHoldURL(id)
	return c.executeSlugRequest(ctx, http.MethodPost, endpoint, req, nil)
}

// Health check implementation

// HealthCheck checks the health of the API
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	endpoint := routes.HealthCheckURL()
	var response map[string]string
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return map[string]string{}, err
	}
	return response, nil
}

// Job methods implementation

// CreateJob posts a new job
func (c *APIClient) CreateJob(ctx context.Context, req *types.CreateJobRequest) (models.Job, error) {
	endpoint := routes.CreateJobURL()
	var job models.Job
	if err := c.executeSlugRequest(ctx, http.MethodPost, endpoint, req, &job); err != nil {
		return models.Job{}, err
	}
	return job, nil
}

// GetJobs retrieves jobs, optionally filtered by status and owner
func (c *APIClient) GetJobs(ctx context.Context, status string, ownerID uint, opts *models.ListOptions) ([]models.Job, error) {
	q := getQueryParams(opts)
	if status != "" {
		q.Set("status", status)
	}
	if ownerID > 0 {
		q.Set("owner_id", fmt.Sprintf("%d", ownerID))
	}

	endpoint := routes.GetJobsURL(q)
	var response types.ListJobsResponse
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return []models.Job{}, err
	}
	return response.Jobs, nil
}

// GetJob retrieves a job by ID
func (c *APIClient) GetJob(ctx context.Context, id string, ownerID uint) (models.Job, error) {
	endpoint := routes.BuildURL(routes.GetJob, map[string]string{"id": id}, ownerParams(ownerID))
	var job models.Job
	if err := c.executeSlugRequest(ctx, http.MethodGet, endpoint, nil, &job); err != nil {
		return models.Job{}, err
	}
	return job, nil
}

// UpdateJobStatus moves a job to the requested lifecycle status
func (c *APIClient) UpdateJobStatus(ctx context.Context, id string, ownerID uint, status string) (models.Job, error) {
	endpoint := routes.BuildURL(routes.UpdateJobStatus, map[string]string{"id": id}, ownerParams(ownerID))
	var job models.Job
	req := types.UpdateJobStatusRequest{Status: status}
	if err := c.executeSlugRequest(ctx, http.MethodPatch, endpoint, req, &job); err != nil {
		return models.Job{}, err
	}
	return job, nil
}

// CancelJob cancels a job
func (c *APIClient) CancelJob(ctx context.Context, id string, ownerID uint) (models.Job, error) {
	endpoint := routes.BuildURL(routes.CancelJob, map[string]string{"id": id}, ownerParams(ownerID))
	var job models.Job
	if err := c.executeSlugRequest(ctx, http.MethodPost, endpoint, nil, &job); err != nil {
		return models.Job{}, err
	}
	return job, nil
}

// Bid methods implementation

// PlaceBid places a bid on an open job
func (c *APIClient) PlaceBid(ctx context.Context, jobID string, req *types.CreateBidRequest) (models.Bid, error) {
	endpoint := routes.PlaceBidURL(jobID)
	var bid models.Bid
	if err := c.executeSlugRequest(ctx, http.MethodPost, endpoint, req, &bid); err != nil {
		return models.Bid{}, err
	}
	return bid, nil
}

// GetJobBids retrieves the bids on a job
func (c *APIClient) GetJobBids(ctx context.Context, jobID string) ([]models.Bid, error) {
	endpoint := routes.GetJobBidsURL(jobID)
	var response types.ListBidsResponse
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return []models.Bid{}, err
	}
	return response.Bids, nil
}

// AcceptBid accepts a bid, assigning the job and opening an escrow hold
func (c *APIClient) AcceptBid(ctx context.Context, bidID string, ownerID uint) (models.Escrow, error) {
	endpoint := routes.AcceptBidURL(bidID, ownerParams(ownerID))
	var escrow models.Escrow
	if err := c.executeSlugRequest(ctx, http.MethodPost, endpoint, nil, &escrow); err != nil {
		return models.Escrow{}, err
	}
	return escrow, nil
}

// WithdrawBid withdraws a pending bid
func (c *APIClient) WithdrawBid(ctx context.Context, bidID string, contractorID uint) error {
	q := url.Values{}
	q.Set("contractor_id", fmt.Sprintf("%d", contractorID))
	endpoint := routes.WithdrawBidURL(bidID, q)
	return c.executeSlugRequest(ctx, http.MethodPost, endpoint, nil, nil)
}

// Escrow methods implementation

// GetEscrows retrieves escrows, optionally filtered by status and owner
func (c *APIClient) GetEscrows(ctx context.Context, status string, ownerID uint, opts *models.ListOptions) ([]models.Escrow, error) {
	q := getQueryParams(opts)
	if status != "" {
		q.Set("status", status)
	}
	if ownerID > 0 {
		q.Set("owner_id", fmt.Sprintf("%d", ownerID))
	}

	endpoint := routes.GetEscrowsURL(q)
	var response types.ListEscrowsResponse
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return []models.Escrow{}, err
	}
	return response.Escrows, nil
}

// GetEscrow retrieves an escrow by ID
func (c *APIClient) GetEscrow(ctx context.Context, id string, ownerID uint) (models.Escrow, error) {
	endpoint := routes.BuildURL(routes.GetEscrow, map[string]string{"id": id}, ownerParams(ownerID))
	var escrow models.Escrow
	if err := c.executeSlugRequest(ctx, http.MethodGet, endpoint, nil, &escrow); err != nil {
		return models.Escrow{}, err
	}
	return escrow, nil
}

// GetJobEscrow retrieves the escrow holding funds for a job
func (c *APIClient) GetJobEscrow(ctx context.Context, jobID string) (models.Escrow, error) {
	endpoint := routes.GetJobEscrowURL(jobID)
	var escrow models.Escrow
	if err := c.executeSlugRequest(ctx, http.MethodGet, endpoint, nil, &escrow); err != nil {
		return models.Escrow{}, err
	}
	return escrow, nil
}

// GetReleaseStatus retrieves the release decision for an escrow
func (c *APIClient) GetReleaseStatus(ctx context.Context, id string, ownerID uint) (types.ReleaseStatusResponse, error) {
	endpoint := routes.BuildURL(routes.GetReleaseStatus, map[string]string{"id": id}, ownerParams(ownerID))
	var response types.ReleaseStatusResponse
	if err := c.executeSlugRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return types.ReleaseStatusResponse{}, err
	}
	return response, nil
}

// ReleaseEscrow attempts to release an escrow's funds
func (c *APIClient) ReleaseEscrow(ctx context.Context, id string, ownerID uint) (types.ReleaseStatusResponse, error) {
	endpoint := routes.BuildURL(routes.ReleaseEscrow, map[string]string{"id": id}, ownerParams(ownerID))
	var response types.ReleaseStatusResponse
	if err := c.executeSlugRequest(ctx, http.MethodPost, endpoint, nil, &response); err != nil {
		return types.ReleaseStatusResponse{}, err
	}
	return response, nil
}

// ApproveEscrow records homeowner approval on an escrow
func (c *APIClient) ApproveEscrow(ctx context.Context, id string, ownerID uint) error {
	endpoint := routes.BuildURL(routes.ApproveEscrow, map[string]string{"id": id}, ownerParams(ownerID))
	return c.executeSlugRequest(ctx, http.MethodPost, endpoint, nil, nil)
}

// RefundEscrow returns held funds to the homeowner
func (c *APIClient) RefundEscrow(ctx context.Context, id string, ownerID uint) error {
	endpoint := routes.BuildURL(routes.RefundEscrow, map[string]string{"id": id}, ownerParams(ownerID))
	return c.executeSlugRequest(ctx, http.MethodPost, endpoint, nil, nil)
}

// DisputeEscrow freezes an escrow pending dispute resolution
func (c *APIClient) DisputeEscrow(ctx context.Context, id string, ownerID uint) error {
	endpoint := routes.BuildURL(routes.DisputeEscrow, map[string]string{"id": id}, ownerParams(ownerID))
	return c.executeSlugRequest(ctx, http.MethodPost, endpoint, nil, nil)
}

// User methods implementation

// GetUserByID retrieves a user by ID
func (c *APIClient) GetUserByID(ctx context.Context, id string) (models.User, error) {
	endpoint := routes.GetUserByIDURL(id)
	var user models.User
	if err := c.executeSlugRequest(ctx, http.MethodGet, endpoint, nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username
func (c *APIClient) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	q := url.Values{}
	q.Set("username", username)
	endpoint := routes.BuildURL(routes.GetUserByID, map[string]string{"id": "0"}, q)
	var user models.User
	if err := c.executeSlugRequest(ctx, http.MethodGet, endpoint, nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user
func (c *APIClient) CreateUser(ctx context.Context, req *types.CreateUserRequest) (types.CreateUserResponse, error) {
	endpoint := routes.CreateUserURL()
	var response types.CreateUserResponse
	if err := c.executeSlugRequest(ctx, http.MethodPost, endpoint, req, &response); err != nil {
		return types.CreateUserResponse{}, err
	}
	return response, nil
}

// DeleteUser deletes a user by ID
func (c *APIClient) DeleteUser(ctx context.Context, id string) error {
	endpoint := routes.DeleteUserURL(id)
	return c.executeSlugRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Package routes defines the API routes and URL structure
package routes

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/mintenance/mintenance/pkg/api/v1/handlers"
)

/*

To keep this file organized, routes should be organized in the following way:

1. Smallest scope first (i.e. bid routes before job routes)
2. For similar scopes, put the endpoints in alphabetical order
3. Order routes in GET, POST, PUT, DELETE order.
	a. Within this ordering, param urls (ie /:id) should go last, otherwise fiber will interpret the route slug as that param.
	b. After param considerations, order alphabetically.
4. For clarity, naming should match the action (i.e. GetJob, CancelJob)

*/

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", DefaultPort)

// Route names for lookup
const (
	// Admin routes
	AdminGetReleasableEscrows = "AdminGetReleasableEscrows"
	AdminSetEscrowHold        = "AdminSetEscrowHold"

	// Health check
	HealthCheck = "HealthCheck"

	// Bid routes
	AcceptBid   = "AcceptBid"
	WithdrawBid = "WithdrawBid"

	// Escrow routes
	GetEscrows       = "GetEscrows"
	GetEscrow        = "GetEscrow"
	GetReleaseStatus = "GetReleaseStatus"
	ApproveEscrow    = "ApproveEscrow"
	DisputeEscrow    = "DisputeEscrow"
	RefundEscrow     = "RefundEscrow"
	ReleaseEscrow    = "ReleaseEscrow"

	// Job routes
	GetJobs         = "GetJobs"
	GetJob          = "GetJob"
	GetJobBids      = "GetJobBids"
	GetJobEscrow    = "GetJobEscrow"
	CreateJob       = "CreateJob"
	PlaceBid        = "PlaceBid"
	CancelJob       = "CancelJob"
	UpdateJobStatus = "UpdateJobStatus"

	// User routes
	GetUsers    = "GetUsers"
	GetUserByID = "GetUserByID"
	CreateUser  = "CreateUser"
	DeleteUser  = "DeleteUser"
)

// routeCache stores extracted routes for use prior to compilation
var (
	routeCache     map[string]string
	routeCacheMu   sync.RWMutex
	routeCacheInit sync.Once
)

// RegisterRoutes configures all the v1 routes
//
// NOTE: route ordering is important because routes will try and match in the order they are registered.
func RegisterRoutes(
	app *fiber.App,
	jobHandler *handlers.JobHandler,
	bidHandler *handlers.BidHandler,
	escrowHandler *handlers.EscrowHandler,
	userHandler *handlers.UserHandler,
) {
	// API v1 routes
	v1 := app.Group(APIv1Prefix)

	// Admin endpoints for escrow oversight
	adminEscrows := v1.Group("/admin/escrows")
	adminEscrows.Get("/releasable", escrowHandler.ListReleasable).Name(AdminGetReleasableEscrows)
	adminEscrows.Post("/:id/hold", escrowHandler.SetAdminHold).Name(AdminSetEscrowHold)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}).Name(HealthCheck)

	// Bid endpoints
	bids := v1.Group("/bids")
	bids.Post("/:id/accept", bidHandler.AcceptBid).Name(AcceptBid)
	bids.Post("/:id/withdraw", bidHandler.WithdrawBid).Name(WithdrawBid)

	// Escrow endpoints
	escrows := v1.Group("/escrows")
	escrows.Get("/", escrowHandler.ListEscrows).Name(GetEscrows)
	escrows.Get("/:id", escrowHandler.GetEscrow).Name(GetEscrow)
	escrows.Get("/:id/release-status", escrowHandler.ReleaseStatus).Name(GetReleaseStatus)
	escrows.Post("/:id/approve", escrowHandler.Approve).Name(ApproveEscrow)
	escrows.Post("/:id/dispute", escrowHandler.Dispute).Name(DisputeEscrow)
	escrows.Post("/:id/refund", escrowHandler.Refund).Name(RefundEscrow)
	escrows.Post("/:id/release", escrowHandler.Release).Name(ReleaseEscrow)

	// Job endpoints
	jobs := v1.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs).Name(GetJobs)
	jobs.Get("/:id", jobHandler.GetJob).Name(GetJob)
	jobs.Get("/:id/bids", bidHandler.ListBids).Name(GetJobBids)
	jobs.Get("/:id/escrow", escrowHandler.GetEscrowByJob).Name(GetJobEscrow)
	jobs.Post("/", jobHandler.CreateJob).Name(CreateJob)
	jobs.Post("/:id/bids", bidHandler.PlaceBid).Name(PlaceBid)
	jobs.Post("/:id/cancel", jobHandler.CancelJob).Name(CancelJob)
	jobs.Patch("/:id/status", jobHandler.UpdateJobStatus).Name(UpdateJobStatus)

	// User endpoints
	users := v1.Group("/users")
	users.Get("/", userHandler.ListUsers).Name(GetUsers)
	users.Get("/:id", userHandler.GetUser).Name(GetUserByID)
	users.Post("/", userHandler.CreateUser).Name(CreateUser)
	users.Delete("/:id", userHandler.DeleteUser).Name(DeleteUser)
}

// initRouteCache initializes the route cache by creating a mock app and extracting routes
func initRouteCache() {
	routeCacheInit.Do(func() {
		routeCache = make(map[string]string)

		// Create a mock app
		app := fiber.New()

		// Register routes with empty handlers
		RegisterRoutes(app,
			&handlers.JobHandler{},
			&handlers.BidHandler{},
			&handlers.EscrowHandler{},
			&handlers.UserHandler{},
		)

		// Extract routes from the app
		for _, route := range app.GetRoutes() {
			if route.Name != "" {
				routeCache[route.Name] = route.Path
			}
		}
	})
}

// GetRoute returns the route pattern for the given route name
func GetRoute(name string) string {
	routeCacheMu.RLock()
	defer routeCacheMu.RUnlock()

	// Initialize cache if needed
	if routeCache == nil {
		routeCacheMu.RUnlock()
		initRouteCache()
		routeCacheMu.RLock()
	}

	return routeCache[name]
}

// BuildURL builds a URL for the given route name and parameters
func BuildURL(routeName string, params map[string]string, queryParams url.Values) string {
	route := GetRoute(routeName)
	if route == "" {
		return ""
	}

	// Replace parameters in the route
	for param, value := range params {
		route = strings.ReplaceAll(route, ":"+param, value)
	}

	// Remove trailing slash if it's a base endpoint with no parameters
	if strings.HasSuffix(route, "/") && !strings.Contains(route, ":") {
		route = strings.TrimSuffix(route, "/")
	}

	// Add query parameters if any
	if len(queryParams) > 0 {
		route = fmt.Sprintf("%s?%s", route, queryParams.Encode())
	}

	return route
}

// Admin route helpers

// AdminReleasableEscrowsURL returns the URL for listing releasable escrows
func AdminReleasableEscrowsURL() string {
	return BuildURL(AdminGetReleasableEscrows, nil, nil)
}

// AdminSetEscrowHoldURL returns the URL for setting an admin hold on an escrow
func AdminSetEscrowHoldURL(id string) string {
	return BuildURL(AdminSetEscrowHold, map[string]string{"id": id}, nil)
}

// Health check route helper

// HealthCheckURL returns the URL for the health check endpoint
func HealthCheckURL() string {
	return BuildURL(HealthCheck, nil, nil)
}

// Bid route helpers

// AcceptBidURL returns the URL for accepting a bid
func AcceptBidURL(id string, queryParams url.Values) string {
	return BuildURL(AcceptBid, map[string]string{"id": id}, queryParams)
}

// WithdrawBidURL returns the URL for withdrawing a bid
func WithdrawBidURL(id string, queryParams url.Values) string {
	return BuildURL(WithdrawBid, map[string]string{"id": id}, queryParams)
}

// Escrow route helpers

// GetEscrowsURL returns the URL for listing escrows
func GetEscrowsURL(queryParams url.Values) string {
	return BuildURL(GetEscrows, nil, queryParams)
}

// GetEscrowURL returns the URL for getting an escrow by ID
func GetEscrowURL(id string) string {
	return BuildURL(GetEscrow, map[string]string{"id": id}, nil)
}

// GetReleaseStatusURL returns the URL for an escrow's release status
func GetReleaseStatusURL(id string) string {
	return BuildURL(GetReleaseStatus, map[string]string{"id": id}, nil)
}

// ApproveEscrowURL returns the URL for approving an escrow
func ApproveEscrowURL(id string) string {
	return BuildURL(ApproveEscrow, map[string]string{"id": id}, nil)
}

// DisputeEscrowURL returns the URL for disputing an escrow
func DisputeEscrowURL(id string) string {
	return BuildURL(DisputeEscrow, map[string]string{"id": id}, nil)
}

// RefundEscrowURL returns the URL for refunding an escrow
func RefundEscrowURL(id string) string {
	return BuildURL(RefundEscrow, map[string]string{"id": id}, nil)
}

// ReleaseEscrowURL returns the URL for releasing an escrow
func ReleaseEscrowURL(id string) string {
	return BuildURL(ReleaseEscrow, map[string]string{"id": id}, nil)
}

// Job route helpers

// GetJobsURL returns the URL for listing jobs
func GetJobsURL(queryParams url.Values) string {
	return BuildURL(GetJobs, nil, queryParams)
}

// GetJobURL returns the URL for getting a job by ID
func GetJobURL(id string) string {
	return BuildURL(GetJob, map[string]string{"id": id}, nil)
}

// GetJobBidsURL returns the URL for listing a job's bids
func GetJobBidsURL(id string) string {
	return BuildURL(GetJobBids, map[string]string{"id": id}, nil)
}

// GetJobEscrowURL returns the URL for getting a job's escrow
func GetJobEscrowURL(id string) string {
	return BuildURL(GetJobEscrow, map[string]string{"id": id}, nil)
}

// CreateJobURL returns the URL for creating a job
func CreateJobURL() string {
	return BuildURL(CreateJob, nil, nil)
}

// PlaceBidURL returns the URL for placing a bid on a job
func PlaceBidURL(id string) string {
	return BuildURL(PlaceBid, map[string]string{"id": id}, nil)
}

// CancelJobURL returns the URL for cancelling a job
func CancelJobURL(id string) string {
	return BuildURL(CancelJob, map[string]string{"id": id}, nil)
}

// UpdateJobStatusURL returns the URL for updating a job's status
func UpdateJobStatusURL(id string) string {
	return BuildURL(UpdateJobStatus, map[string]string{"id": id}, nil)
}

// User route helpers

// GetUsersURL returns the URL for listing users
func GetUsersURL(queryParams url.Values) string {
	return BuildURL(GetUsers, nil, queryParams)
}

// GetUserByIDURL returns the URL for getting a user by ID
func GetUserByIDURL(id string) string {
	return BuildURL(GetUserByID, map[string]string{"id": id}, nil)
}

// CreateUserURL returns the URL for creating a user
func CreateUserURL() string {
	return BuildURL(CreateUser, nil, nil)
}

// DeleteUserURL returns the URL for deleting a user
func DeleteUserURL(id string) string {
	return BuildURL(DeleteUser, map[string]string{"id": id}, nil)
}

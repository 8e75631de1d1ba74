package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wavenet-solutions/invoice-api/internal/api/handler"
	"github.com/wavenet-solutions/invoice-api/internal/api/middleware"
	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

// Dependencies carries everything the router needs. Services are constructed
// in main so their lifecycles (e.g. the audit dispatcher) outlive requests.
type Dependencies struct {
	Accounts ports.AccountService
	Groups   ports.GroupService
	Invoices ports.InvoiceService
	Audit    ports.AuditService
	Tokens   ports.TokenService

	Mongo *mongo.Database
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("invoiceapi"))

	auth := middleware.Auth(deps.Tokens)

	authHandler := handler.NewAuthHandler(deps.Accounts)
	userHandler := handler.NewUserHandler(deps.Accounts)
	groupHandler := handler.NewGroupHandler(deps.Groups)
	invoiceHandler := handler.NewInvoiceHandler(deps.Invoices)
	auditHandler := handler.NewAuditHandler(deps.Audit)

	// --- Public auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// --- Account management (bearer) ---
	ag := e.Group("/auth", auth)
	ag.POST("/admin/create-unit-manager", authHandler.CreateSubordinate)
	ag.GET("/users", userHandler.ListAll)
	ag.GET("/admin/users", userHandler.ListCreated)
	ag.PATCH("/users/:userId/block", userHandler.ToggleBlock)
	ag.PATCH("/users/:userId/role", userHandler.UpdateRole)
	ag.DELETE("/users/:userId", userHandler.Delete)

	// --- Grouping (bearer) ---
	adm := e.Group("/admin", auth)
	adm.GET("/allAdmin", groupHandler.ListAdminCandidates)
	adm.POST("/addToGroup/:id", groupHandler.AddPeer)
	adm.GET("/grouped", groupHandler.ListPeers)
	adm.DELETE("/group/:id", groupHandler.RemovePeer)
	adm.GET("/audit", auditHandler.ListRecent, middleware.RBAC(domain.RoleTopAdmin))

	e.GET("/users/getAllUnitManager", groupHandler.ListUnitManagerCandidates, auth)
	e.GET("/users/grouped/:id", groupHandler.ListPeersOf, auth)
	e.GET("/users/unit-manager/created", userHandler.ListCreated, auth)
	e.POST("/unit-manager/addToGroup/:id", groupHandler.AddPeer, auth)
	e.GET("/unit-manager/:id", userHandler.ListCreatedOf, auth)

	// --- Invoices (bearer) ---
	inv := e.Group("/invoices", auth)
	inv.POST("", invoiceHandler.Create)
	inv.GET("", invoiceHandler.ListOwn)
	inv.GET("/all", invoiceHandler.ListAll)
	inv.GET("/next-number", invoiceHandler.NextNumber)
	inv.PATCH("/:id", invoiceHandler.Update)
	inv.DELETE("/:id", invoiceHandler.Delete)

	// --- Probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atelierhq/sewtrack-backend/api/controllers"
	"github.com/atelierhq/sewtrack-backend/api/middleware"
	"github.com/atelierhq/sewtrack-backend/internal/auth"
	"github.com/atelierhq/sewtrack-backend/internal/codes"
	"github.com/atelierhq/sewtrack-backend/internal/orders"
	"github.com/atelierhq/sewtrack-backend/internal/products"
	"github.com/atelierhq/sewtrack-backend/internal/statements"
	"github.com/atelierhq/sewtrack-backend/internal/users"
	"github.com/atelierhq/sewtrack-backend/internal/workflow"
	"github.com/atelierhq/sewtrack-backend/pkg/auth/session"
	"github.com/atelierhq/sewtrack-backend/pkg/config"
	"github.com/atelierhq/sewtrack-backend/pkg/db"
	"github.com/atelierhq/sewtrack-backend/pkg/enums"
	"github.com/atelierhq/sewtrack-backend/pkg/logger"
	"github.com/atelierhq/sewtrack-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient db.Pinger,
	redisClient redis.Pinger,
	gatherer prometheus.Gatherer,
	sessionManager session.AccessSessionChecker,
	authService auth.Service,
	usersService users.Service,
	ordersService orders.Service,
	workflowService workflow.Service,
	statementsService statements.Service,
	sheets codes.Store,
	productRepo products.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(authService, logg))
			r.Post("/refresh", controllers.AuthRefresh(authService, logg))
			r.Post("/logout", controllers.AuthLogout(authService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))

			r.Route("/reception", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.StaffRoleReceiver))
				r.Get("/orders", controllers.ReceptionOrders(ordersService, logg))
				r.Post("/products", controllers.ReceptionReceive(workflowService, cfg.Storage.MaxUploadMB, logg))
			})

			r.Route("/work", func(r chi.Router) {
				r.With(middleware.RequireRole(logg, enums.StaffRoleOTK)).
					Post("/inspection", controllers.WorkInspection(workflowService, cfg.Storage.MaxUploadMB, logg))
				r.With(middleware.RequireRole(logg, enums.StaffRolePacker)).
					Post("/packing", controllers.WorkPacking(workflowService, logg))

				r.Route("/marking", func(r chi.Router) {
					r.Use(middleware.RequireRole(logg, enums.StaffRoleMarker))
					r.Post("/", controllers.WorkMarking(workflowService, logg))
					r.Get("/codes", controllers.WorkMarkingCodes(workflowService, logg))
					r.Post("/approval", controllers.WorkMarkingApproval(statementsService, logg))
				})
			})

			r.Route("/director", func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.StaffRoleDirector))

				r.Route("/staff", func(r chi.Router) {
					r.Post("/", controllers.DirectorStaffCreate(usersService, logg))
					r.Get("/", controllers.DirectorStaffList(usersService, logg))
					r.Get("/{staffId}", controllers.DirectorStaffGet(usersService, logg))
					r.Patch("/{staffId}", controllers.DirectorStaffUpdate(usersService, logg))
					r.Delete("/{staffId}", controllers.DirectorStaffDeactivate(usersService, logg))
				})

				r.Route("/clients", func(r chi.Router) {
					r.Post("/", controllers.DirectorClientCreate(usersService, logg))
					r.Get("/", controllers.DirectorClientList(usersService, logg))
					r.Get("/{clientId}", controllers.DirectorClientGet(usersService, logg))
					r.Patch("/{clientId}", controllers.DirectorClientUpdate(usersService, logg))
					r.Delete("/{clientId}", controllers.DirectorClientDeactivate(usersService, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Post("/", controllers.DirectorOrderCreate(ordersService, logg))
					r.Get("/", controllers.DirectorOrderList(ordersService, logg))
					r.Get("/{orderId}", controllers.DirectorOrderGet(ordersService, logg))
					r.Patch("/{orderId}/status", controllers.DirectorOrderUpdateStatus(ordersService, logg))
					r.Post("/{orderId}/lines:import", controllers.DirectorOrderImportLines(ordersService, logg))
					r.Get("/{orderId}/progress", controllers.DirectorOrderProgress(ordersService, logg))
				})

				r.Route("/products/codes", func(r chi.Router) {
					r.Post("/", controllers.DirectorCodeAttach(sheets, productRepo, cfg.Storage.MaxUploadMB, logg))
					r.Delete("/{codeId}", controllers.DirectorCodeRemove(sheets, logg))
				})

				r.Route("/statements", func(r chi.Router) {
					r.Get("/", controllers.DirectorStatements(statementsService, logg))
					r.Post("/resolve", controllers.DirectorStatementResolve(statementsService, logg))
				})
			})
		})
	})

	return r
}

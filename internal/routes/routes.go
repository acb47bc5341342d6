package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-dashboard/internal/audit"
	"github.com/BruksfildServices01/barber-dashboard/internal/calendar"
	"github.com/BruksfildServices01/barber-dashboard/internal/config"
	"github.com/BruksfildServices01/barber-dashboard/internal/dashboard"
	domain "github.com/BruksfildServices01/barber-dashboard/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-dashboard/internal/handlers"
	"github.com/BruksfildServices01/barber-dashboard/internal/metrics"
	"github.com/BruksfildServices01/barber-dashboard/internal/middleware"
	"github.com/BruksfildServices01/barber-dashboard/internal/session"
	"github.com/BruksfildServices01/barber-dashboard/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-dashboard/internal/usecase/appointment"
)

// Dependencies are the singletons built by main. Metrics, AuditDB and
// Scheduler are optional.
type Dependencies struct {
	Config   *config.Config
	Logger   *slog.Logger
	Sessions *session.Store
	Repo     domain.Repository
	Audit    *audit.Dispatcher

	Metrics   *metrics.Metrics
	AuditDB   *gorm.DB
	Scheduler dashboard.Scheduler
	Now       func() time.Time

	// BaseContext bounds the polling loop; cancel it on shutdown.
	BaseContext context.Context
}

// Views are returned so main and tests can reach the stateful screens.
type Views struct {
	Dashboard *dashboard.View
	Calendar  *calendar.View
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) Views {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	baseCtx := deps.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	loc := timezone.Location(cfg.Dashboard.Timezone)

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))

	var (
		refreshObserver dashboard.RefreshObserver
		loginObserver   handlers.LoginObserver
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		r.GET(cfg.Metrics.Path, gin.WrapH(deps.Metrics.Handler()))
		refreshObserver = deps.Metrics
		loginObserver = deps.Metrics
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// USE CASES
	// ======================================================
	listByDateUC := ucAppointment.NewListAppointmentsByDate(deps.Repo, cfg.Dashboard.ContactMessage)
	listByMonthUC := ucAppointment.NewListAppointmentsByMonth(deps.Repo)
	statisticsUC := ucAppointment.NewGetStatistics(deps.Repo)
	dayAvailabilityUC := ucAppointment.NewGetDayAvailability(listByDateUC)

	// ======================================================
	// VIEWS
	// ======================================================
	calendarView := calendar.NewView(
		listByMonthUC,
		dayAvailabilityUC,
		calendar.NewMonthCache(),
		loc,
		deps.Now,
		logger,
	)

	dashboardView := dashboard.NewView(
		listByDateUC,
		statisticsUC,
		deps.Scheduler,
		logger,
		dashboard.Options{
			Location: loc,
			Interval: cfg.PollInterval(),
			Now:      deps.Now,
			Observer: refreshObserver,
		},
	)

	createUC := ucAppointment.NewCreateAppointment(deps.Repo, deps.Audit, calendarView)
	updateUC := ucAppointment.NewUpdateAppointment(deps.Repo, deps.Audit, calendarView)
	deleteUC := ucAppointment.NewDeleteAppointment(deps.Repo, deps.Audit, calendarView)

	// ======================================================
	// SESSION LIFECYCLE
	// ======================================================
	deps.Sessions.OnLogin(func(s session.Session) {
		dashboardView.Mount(baseCtx)
		deps.Audit.Dispatch(audit.Event{
			UserID:   &s.UserID,
			Username: s.Username,
			Action:   audit.ActionLogin,
			Entity:   "session",
		})
	})

	deps.Sessions.OnTeardown(func(reason session.Reason, s session.Session) {
		dashboardView.Unmount()
		calendarView.Invalidate()
		if deps.Metrics != nil {
			deps.Metrics.ObserveTeardown(string(reason))
		}
		deps.Audit.Dispatch(audit.Event{
			UserID:   &s.UserID,
			Username: s.Username,
			Action:   audit.ActionSessionEnded,
			Entity:   "session",
			Metadata: map[string]string{"reason": string(reason)},
		})
	})

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.Sessions, loginObserver)
	meHandler := handlers.NewMeHandler(deps.Sessions)
	dashboardHandler := handlers.NewDashboardHandler(dashboardView)
	calendarHandler := handlers.NewCalendarHandler(calendarView)
	appointmentHandler := handlers.NewAppointmentHandler(createUC, updateUC, deleteUC)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/session", meHandler.GetMe)
		api.POST("/session/signal", authHandler.Signal)

		// ------------------------------
		// SESSION REQUIRED
		// ------------------------------
		secured := api.Group("")
		secured.Use(middleware.RequireSession(deps.Sessions))
		{
			secured.GET("/dashboard", dashboardHandler.Get)
			secured.POST("/dashboard/refresh", dashboardHandler.Refresh)
			secured.POST("/dashboard/appointments/:id/toggle", dashboardHandler.Toggle)

			secured.GET("/calendar", calendarHandler.Get)
			secured.POST("/calendar/next", calendarHandler.Next)
			secured.POST("/calendar/prev", calendarHandler.Prev)
			secured.GET("/calendar/days/:date", calendarHandler.Day)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)
			secured.GET("/appointments/:id/contact", dashboardHandler.Contact)

			if deps.AuditDB != nil {
				secured.GET("/audit-logs", handlers.NewAuditLogsHandler(deps.AuditDB).List)
			}
		}
	}

	return Views{Dashboard: dashboardView, Calendar: calendarView}
}

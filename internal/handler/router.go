package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"room-allocation-engine/internal/handler/api"
	"room-allocation-engine/internal/handler/middleware"
	"room-allocation-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Handlers groups every API handler so the router signature stays stable as routes grow.
type Handlers struct {
	Rooms        *api.RoomHandler
	Availability *api.AvailabilityHandler
	Holds        *api.HoldHandler
	Reservations *api.ReservationHandler
	Timeline     *api.TimelineHandler
	Sessions     *api.SessionHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, h Handlers, sessions *middleware.SessionMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, sessions)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, sessions *middleware.SessionMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireSession := sessions.RequireSession()
	optionalSession := sessions.OptionalSession()

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup.Group("/sessions"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Sessions.Open},
			{Method: http.MethodDelete, Path: "", Handler: h.Sessions.Close},
		})

		addRoutes(apiGroup.Group("/rooms"), []route{
			{Method: http.MethodGet, Path: "", Handler: h.Rooms.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Rooms.Get},
			{Method: http.MethodPut, Path: "/:id", Handler: h.Rooms.Register},
			{Method: http.MethodDelete, Path: "/:id", Handler: h.Rooms.Remove},
			{Method: http.MethodPatch, Path: "/:id/status", Handler: h.Rooms.UpdateStatus},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/availability", Handler: h.Availability.Find, Mw: []gin.HandlerFunc{optionalSession}},
			{Method: http.MethodGet, Path: "/timeline", Handler: h.Timeline.Project},
		})

		holds := apiGroup.Group("/holds")
		holds.Use(requireSession)
		{
			addRoutes(holds, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Holds.List},
				{Method: http.MethodPost, Path: "", Handler: h.Holds.Place},
				{Method: http.MethodDelete, Path: "", Handler: h.Holds.ReleaseAll},
				{Method: http.MethodPost, Path: "/:id/extend", Handler: h.Holds.Extend},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Holds.Release},
			})
		}

		addRoutes(apiGroup.Group("/reservations"), []route{
			{Method: http.MethodPost, Path: "/tentative", Handler: h.Reservations.OpenTentative},
			{Method: http.MethodPost, Path: "", Handler: h.Reservations.Commit, Mw: []gin.HandlerFunc{requireSession}},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Reservations.Get},
			{Method: http.MethodPost, Path: "/:id/check-in", Handler: h.Reservations.CheckIn},
			{Method: http.MethodPost, Path: "/:id/check-out", Handler: h.Reservations.CheckOut},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Reservations.Cancel},
			{Method: http.MethodPost, Path: "/:id/no-show", Handler: h.Reservations.NoShow},
			{Method: http.MethodPatch, Path: "/:id/assignments/:assignmentId", Handler: h.Reservations.Amend, Mw: []gin.HandlerFunc{optionalSession}},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fathima-sithara/poseidon-service/internal/handlers"
	"github.com/fathima-sithara/poseidon-service/internal/middleware"
	"github.com/fathima-sithara/poseidon-service/internal/models"
)

type Handlers struct {
	Passenger  *handlers.PassengerHandler
	Statistics *handlers.StatisticsHandler
	User       *handlers.UserHandler
	Health     *handlers.HealthHandler
}

func Setup(app *fiber.App, h Handlers, auth fiber.Handler, gatherer prometheus.Gatherer) {
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	anyRole := middleware.RequireRoles(models.RoleUser, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	passenger := api.Group("/passenger", auth)
	passenger.Get("/all", anyRole, h.Passenger.GetAll)
	passenger.Get("/survivors", anyRole, h.Passenger.GetSurvivors)
	passenger.Get("/class/:classNumber", anyRole, h.Passenger.GetByClass)
	passenger.Get("/gender/:sex", anyRole, h.Passenger.GetByGender)
	passenger.Get("/age-range", anyRole, h.Passenger.GetByAgeRange)
	passenger.Get("/fare-range", anyRole, h.Passenger.GetByFareRange)
	passenger.Get("/search", anyRole, h.Passenger.Search)
	passenger.Get("/survival-rate", anyRole, h.Passenger.GetSurvivalRate)
	passenger.Get("/:id", anyRole, h.Passenger.GetByID)
	passenger.Post("/", adminOnly, h.Passenger.Create)
	passenger.Put("/:id", adminOnly, h.Passenger.Update)
	passenger.Delete("/:id", adminOnly, h.Passenger.Delete)

	stats := api.Group("/statistics", auth, anyRole)
	stats.Get("/total-passengers", h.Statistics.TotalPassengers)
	stats.Get("/men", h.Statistics.Men)
	stats.Get("/women", h.Statistics.Women)
	stats.Get("/boys", h.Statistics.Boys)
	stats.Get("/girls", h.Statistics.Girls)
	stats.Get("/adults", h.Statistics.Adults)
	stats.Get("/children", h.Statistics.Children)
	stats.Get("/class/:classNumber/count", h.Statistics.ClassCount)
	stats.Get("/survival-rate/age-range", h.Statistics.SurvivalRateByAgeRange)
	stats.Get("/survival-rate/gender/:sex", h.Statistics.SurvivalRateByGender)
	stats.Get("/survival-rate/class/:classNumber", h.Statistics.SurvivalRateByClass)

	user := api.Group("/user")
	user.Post("/register", h.User.Register)
	user.Post("/login", h.User.Login)
	user.Get("/:id", auth, h.User.GetByID)
	user.Put("/:id", auth, h.User.Update)
	user.Delete("/:id", auth, h.User.Delete)
}

// handlers/user_routes.go
package handlers

import (
	"github.com/ton21-official/t21-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	// Health probe — kept off the API surface, plain text like the
	// original edge worker.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("T21 backend is running")
	})

	app.Get("/user", userService.GetUser)
	app.Post("/save_address", userService.SaveAddress)
	app.Post("/add_mining", userService.AddMiningReward)
	app.Post("/add_ad_reward", userService.AddAdReward)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

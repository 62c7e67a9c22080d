package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/handlers"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/middlewares"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
	"github.com/tirtheshjaintj/StoryMania-Backend/internal/utils"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Story     *handlers.StoryHandler
	Character *handlers.CharacterHandler
	Groq      *handlers.GroqHandler
}

func Register(app *fiber.App, h Handlers, jwt *utils.JWTManager) {
	requireLogin := middlewares.RequireLogin(jwt)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Healthy!"})
	})
	app.Get("/api/genres", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(models.Genres)
	})

	user := app.Group("/api/user")
	user.Post("/signup", h.Auth.Signup)
	user.Post("/login", h.Auth.Login)
	user.Post("/google_login", h.Auth.GoogleLogin)
	user.Post("/verify-otp/:userid", h.Auth.VerifyOTP)
	user.Post("/resend-otp/:userid", h.Auth.ResendOTP)
	user.Get("/getUser", requireLogin, h.User.GetUser)
	user.Put("/update", requireLogin, h.User.UpdateUser)
	user.Get("/search", h.User.SearchUsers)
	user.Get("/stories", requireLogin, h.User.MyStories)

	story := app.Group("/api/story")
	story.Get("/stories", h.Story.GetStories)
	story.Post("/create", requireLogin, h.Story.CreateStory)
	story.Put("/update/:id", requireLogin, h.Story.UpdateStory)
	story.Patch("/:id/add-author", requireLogin, h.Story.AddAuthor)
	story.Delete("/delete/:id", requireLogin, h.Story.DeleteStory)
	story.Get("/:id", h.Story.GetStory)

	characters := app.Group("/api/characters")
	characters.Post("/create", requireLogin, h.Character.CreateCharacter)
	characters.Put("/update/:id", requireLogin, h.Character.UpdateCharacter)
	characters.Delete("/delete/:id", requireLogin, h.Character.DeleteCharacter)
	characters.Get("/:id", h.Character.GetCharacter)

	app.Delete("/api/media/removeimg/:id", requireLogin, h.Story.RemoveImage)

	app.Post("/groqBot", h.Groq.Chat)
}

package server

import (
	"notekeeper/internal/config"
	"notekeeper/internal/database"
	"notekeeper/internal/database/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type FiberServer struct {
	*fiber.App

	cfg   *config.Config
	db    database.Service
	users repositories.UserRepository
	notes repositories.NoteRepository
}

func New(cfg *config.Config, db database.Service) *FiberServer {
	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader: "notekeeper",
			AppName:      "notekeeper",
		}),
		cfg:   cfg,
		db:    db,
		users: repositories.NewUserRepository(db.DB()),
		notes: repositories.NewNoteRepository(db.DB()),
	}
	server.App.Use(recover.New())
	server.App.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		MaxAge:       3600,
	}))
	server.App.Use(logger.New())
	return server
}

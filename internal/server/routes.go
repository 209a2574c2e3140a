package server

import (
	"errors"
	"log/slog"
	"time"

	"notekeeper/internal/database/dto"
	"notekeeper/internal/database/models"
	"notekeeper/internal/database/repositories"
	"notekeeper/internal/utils"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func (s *FiberServer) RegisterRoutes() {
	s.App.Post("/api/user/signup", s.signup)
	s.App.Post("/api/user/login", s.login)
	s.App.Get("/health", s.healthHandler)

	s.App.Use(jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(s.cfg.JWTSecret)},
		ErrorHandler: jwtErrorHandler,
	}))

	s.App.Get("/api/notes", s.getAllNotes)
	s.App.Post("/api/notes", s.createNote)
	s.App.Put("/api/notes/:id", s.updateNote)
	s.App.Delete("/api/notes/:id", s.deleteNote)
}

// A request with no bearer token gets 401; a token that is present but fails
// verification gets 403.
func jwtErrorHandler(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing bearer token"})
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Invalid token"})
}

func currentUsername(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	username, ok := claims["username"].(string)
	return username, ok && username != ""
}

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	return c.JSON(s.db.Health())
}

func (s *FiberServer) signup(c *fiber.Ctx) error {
	credentials := dto.Credentials{}
	if err := c.BodyParser(&credentials); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if credentials.Username == "" || credentials.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username and password are required"})
	}

	hashed, err := utils.HashPassword(credentials.Password)
	if err != nil {
		slog.Error("error hashing password", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	user := models.User{Username: credentials.Username, Password: hashed}
	if err := s.users.Create(c.Context(), &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Username already taken"})
		}
		slog.Error("error creating user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created successfully"})
}

func (s *FiberServer) login(c *fiber.Ctx) error {
	credentials := dto.Credentials{}
	if err := c.BodyParser(&credentials); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if credentials.Username == "" || credentials.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username and password are required"})
	}

	user, err := s.users.GetByUsername(c.Context(), credentials.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid username or password"})
		}
		slog.Error("error finding user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	if !utils.CheckPasswordHash(credentials.Password, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid username or password"})
	}

	claims := jwt.MapClaims{
		"username": user.Username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		slog.Error("error signing token", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.JSON(fiber.Map{"message": "Login successful", "token": t})
}

func (s *FiberServer) getAllNotes(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Invalid token"})
	}

	user, err := s.users.GetByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		slog.Error("error finding user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	notes, err := s.notes.GetAll(c.Context(), user.ID)
	if err != nil {
		slog.Error("error querying notes", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	if len(notes) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No notes found"})
	}
	return c.JSON(notes)
}

func (s *FiberServer) createNote(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Invalid token"})
	}

	payload := dto.NotePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if payload.Title == "" || payload.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Title and content are required"})
	}

	user, err := s.users.GetByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		slog.Error("error finding user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	now := time.Now().UTC()
	note := models.Note{
		ID:         uuid.New(),
		Title:      payload.Title,
		Content:    payload.Content,
		CreatedAt:  now,
		ModifiedAt: now,
		UserID:     user.ID,
	}
	if err := s.notes.Create(c.Context(), &note); err != nil {
		slog.Error("error saving note", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Note saved successfully",
		"note":    note,
	})
}

func (s *FiberServer) updateNote(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Invalid token"})
	}

	// Note ids are uuids, so an id that does not parse cannot name a note.
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Note not found"})
	}

	payload := dto.NotePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := s.users.GetByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		slog.Error("error finding user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	note := models.Note{
		ID:         id,
		Title:      payload.Title,
		Content:    payload.Content,
		ModifiedAt: time.Now().UTC(),
	}
	if err := s.notes.Update(c.Context(), &note, user.ID); err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Note not found"})
		}
		slog.Error("error updating note", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Note updated successfully"})
}

func (s *FiberServer) deleteNote(c *fiber.Ctx) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Invalid token"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Note not found"})
	}

	user, err := s.users.GetByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		slog.Error("error finding user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	if err := s.notes.Delete(c.Context(), id, user.ID); err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Note not found"})
		}
		slog.Error("error deleting note", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Note deleted successfully"})
}

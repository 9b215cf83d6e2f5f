package handler

import (
	"encoding/json"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.ProfileUsecase
}

type updateProfileRequest struct {
	Name              *string         `json:"name"`
	Bio               *string         `json:"bio"`
	Location          *string         `json:"location"`
	Avatar            *string         `json:"avatar"`
	TeachingSkills    *[]string       `json:"teaching_skills"`
	LearningInterests *[]string       `json:"learning_interests"`
	Settings          json.RawMessage `json:"settings"`
}

type updateSkillProgressRequest struct {
	Skill    string `json:"skill"`
	Progress *int   `json:"progress"`
}

type addAchievementRequest struct {
	Achievement string `json:"achievement"`
}

func NewUserHandler(uc usecase.ProfileUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Get("/me/progress", h.GetProgress)
	r.Put("/me/progress", h.UpdateSkillProgress)
	r.Post("/me/achievements", h.AddAchievement)
	r.Get("/:id", h.GetByID)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	prof, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserProfileResponse(prof))
}

func (h *UserHandler) GetByID(c fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	prof, err := h.uc.GetProfile(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPublicProfileResponse(prof))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	prof, err := h.uc.UpdateProfile(c.Context(), userID, usecase.UpdateProfileInput{
		Name:              req.Name,
		Bio:               req.Bio,
		Location:          req.Location,
		Avatar:            req.Avatar,
		TeachingSkills:    req.TeachingSkills,
		LearningInterests: req.LearningInterests,
		Settings:          req.Settings,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserProfileResponse(prof))
}

func (h *UserHandler) GetProgress(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	p, err := h.uc.GetUserProgress(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProgressResponse(p))
}

func (h *UserHandler) UpdateSkillProgress(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateSkillProgressRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if req.Progress == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "progress is required", nil, nil)
	}

	p, err := h.uc.UpdateSkillProgress(c.Context(), userID, req.Skill, *req.Progress)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProgressResponse(p))
}

func (h *UserHandler) AddAchievement(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req addAchievementRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	p, err := h.uc.AddAchievement(c.Context(), userID, req.Achievement)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProgressResponse(p))
}

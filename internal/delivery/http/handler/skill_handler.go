package handler

import (
	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/domain/skill"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skills")
	grp.Get("/", h.List)
	grp.Get("/categories", h.Categories)
}

// List serves the catalog, optionally narrowed by ?category= and ?q=.
func (h *SkillHandler) List(c fiber.Ctx) error {
	q := skill.Query{
		Category: c.Query("category"),
		Keyword:  c.Query("q"),
	}

	items, err := h.uc.ListSkills(c.Context(), q)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, response.MessageOK, dto.NewSkillResponses(items))
}

func (h *SkillHandler) Categories(c fiber.Ctx) error {
	cats, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, response.MessageOK, cats)
}

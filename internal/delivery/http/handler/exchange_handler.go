package handler

import (
	"strings"
	"time"

	"skill-swap/internal/delivery/http/dto"
	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/domain/exchange"
	"skill-swap/internal/pkg/response"
	"skill-swap/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ExchangeHandler struct {
	uc usecase.ExchangeUsecase
}

// createExchangeRequest omits student_id when the caller is the student.
type createExchangeRequest struct {
	TeacherID uuid.UUID  `json:"teacher_id"`
	StudentID *uuid.UUID `json:"student_id"`
	Skill     string     `json:"skill"`
	Duration  int        `json:"duration"`
}

// scheduleExchangeRequest takes either an RFC 3339 scheduled_for or a
// date plus a wall clock time in UTC.
type scheduleExchangeRequest struct {
	ScheduledFor string `json:"scheduled_for"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

func NewExchangeHandler(uc usecase.ExchangeUsecase) *ExchangeHandler {
	return &ExchangeHandler{uc: uc}
}

func (h *ExchangeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/exchanges")
	grp.Post("/", h.Create)
	grp.Get("/", h.List)
	grp.Get("/upcoming", h.Upcoming)
	grp.Get("/:id", h.Get)
	grp.Post("/:id/schedule", h.Schedule)
	grp.Post("/:id/complete", h.Complete)
	grp.Post("/:id/cancel", h.Cancel)
}

func (h *ExchangeHandler) Create(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createExchangeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	studentID := userID
	if req.StudentID != nil {
		studentID = *req.StudentID
	}
	if userID != req.TeacherID && userID != studentID {
		return middleware.NewAppError(fiber.StatusForbidden, "Caller must be a party to the exchange", nil, nil)
	}

	id, err := h.uc.CreateExchange(c.Context(), usecase.CreateExchangeInput{
		TeacherID:     req.TeacherID,
		StudentID:     studentID,
		Skill:         req.Skill,
		DurationHours: req.Duration,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, response.MessageCreated, dto.CreateExchangeResponse{ID: id})
}

func (h *ExchangeHandler) List(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.GetUserExchanges(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, response.MessageOK, dto.NewExchangeResponses(items, userID))
}

func (h *ExchangeHandler) Upcoming(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.GetUpcomingSessions(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.List(c, response.MessageOK, dto.NewExchangeResponses(items, userID))
}

func (h *ExchangeHandler) Get(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	details, err := h.uc.GetExchangeDetails(c.Context(), userID, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewExchangeDetailsResponse(details, userID))
}

func (h *ExchangeHandler) Schedule(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req scheduleExchangeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	when := strings.TrimSpace(req.ScheduledFor)
	if when == "" && (req.Date != "" || req.Time != "") {
		at, err := exchange.CombineDateTime(req.Date, req.Time, time.UTC)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
		}
		when = at.Format(time.RFC3339)
	}

	ex, err := h.uc.ScheduleExchange(c.Context(), userID, id, when)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewExchangeResponse(ex, userID))
}

func (h *ExchangeHandler) Complete(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	ex, err := h.uc.CompleteExchange(c.Context(), userID, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewExchangeResponse(ex, userID))
}

func (h *ExchangeHandler) Cancel(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	ex, err := h.uc.CancelExchange(c.Context(), userID, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewExchangeResponse(ex, userID))
}

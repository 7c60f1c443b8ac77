package handler

import (
	"errors"

	"connecty/internal/delivery/http/dto"
	"connecty/internal/delivery/http/middleware"
	"connecty/internal/domain/github"
	"connecty/internal/domain/profile"
	"connecty/internal/pkg/response"
	"connecty/internal/usecase"
	"connecty/internal/validation"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	msgNoProfileForUser   = "There is no profile for this user"
	msgNoProfileForHandle = "There is no profile for this handle"
	msgNoProfileForUserID = "There is no profile for this user id"
	msgNoProfiles         = "There are no profiles"
	msgHandleTaken        = "That handle already exists"
	msgExperienceNotFound = "Experience not found"
	msgEducationNotFound  = "Education not found"
	msgNoRepos            = "No Github repositories found"
)

type ProfileHandler struct {
	uc     usecase.ProfileUsecase
	github usecase.GitHubUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase, gh usecase.GitHubUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc, github: gh}
}

// RegisterRoutes mounts the profile routes on r. auth guards the private ones.
func (h *ProfileHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/test", h.Test)
	r.Get("/all", h.All)
	r.Get("/handle/:handle", h.ByHandle)
	r.Get("/user/:user_id", h.ByUserID)
	r.Get("/github/:username", h.GitHubRepos)

	r.Get("/current", auth, h.Current)
	r.Post("/", auth, h.Upsert)
	r.Delete("/", auth, h.Delete)
	r.Post("/experience", auth, h.AddExperience)
	r.Delete("/experience/:exp_id", auth, h.DeleteExperience)
	r.Post("/education", auth, h.AddEducation)
	r.Delete("/education/:edu_id", auth, h.DeleteEducation)
}

func (h *ProfileHandler) Test(c fiber.Ctx) error {
	return response.JSON(c, fiber.StatusOK, fiber.Map{"msg": "Profiles works."})
}

func (h *ProfileHandler) Current(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	p, err := h.uc.GetCurrent(c.Context(), userID)
	if err != nil {
		return mapProfileReadError(err, msgNoProfileForUser)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) Upsert(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req validation.ProfileInput
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if errs, valid := validation.ValidateProfileInput(&req); !valid {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", errs, nil)
	}

	p, _, err := h.uc.Upsert(c.Context(), userID, usecase.ProfileInput{
		Handle:         req.Handle,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GitHubUsername: req.GitHubUsername,
		Skills:         req.Skills,
		Social: profile.Social{
			YouTube:   req.YouTube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrHandleTaken):
			return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", validation.Errors{"handle": msgHandleTaken}, err)
		case errors.Is(err, usecase.ErrInvalidInput):
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
		}
	}

	return response.JSON(c, fiber.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) ByHandle(c fiber.Ctx) error {
	p, err := h.uc.GetByHandle(c.Context(), c.Params("handle"))
	if err != nil {
		return mapProfileReadError(err, msgNoProfileForHandle)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) ByUserID(c fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return notFound("nonprofile", msgNoProfileForUserID, err)
	}

	p, err := h.uc.GetByUserID(c.Context(), userID)
	if err != nil {
		return mapProfileReadError(err, msgNoProfileForUserID)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) All(c fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrNoProfiles) {
			return notFound("nonprofiles", msgNoProfiles, err)
		}
		return storeFailure(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewProfileListResponse(list))
}

func (h *ProfileHandler) AddExperience(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req validation.ExperienceInput
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if errs, valid := validation.ValidateExperienceInput(&req); !valid {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", errs, nil)
	}
	from, to := entryDates(req.From, req.To)

	p, err := h.uc.AddExperience(c.Context(), userID, usecase.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return mapProfileWriteError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) AddEducation(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req validation.EducationInput
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if errs, valid := validation.ValidateEducationInput(&req); !valid {
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", errs, nil)
	}
	from, to := entryDates(req.From, req.To)

	p, err := h.uc.AddEducation(c.Context(), userID, usecase.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return mapProfileWriteError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) DeleteExperience(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	expID, err := uuid.Parse(c.Params("exp_id"))
	if err != nil {
		return notFound("experiencenotfound", msgExperienceNotFound, err)
	}

	p, err := h.uc.DeleteExperience(c.Context(), userID, expID)
	if err != nil {
		return mapEntryDeleteError(err, "experiencenotfound", msgExperienceNotFound)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) DeleteEducation(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	eduID, err := uuid.Parse(c.Params("edu_id"))
	if err != nil {
		return notFound("educationnotfound", msgEducationNotFound, err)
	}

	p, err := h.uc.DeleteEducation(c.Context(), userID, eduID)
	if err != nil {
		return mapEntryDeleteError(err, "educationnotfound", msgEducationNotFound)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewProfileResponse(p))
}

func (h *ProfileHandler) Delete(c fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	if err := h.uc.Delete(c.Context(), userID); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.JSON(c, fiber.StatusOK, fiber.Map{"success": true})
}

func (h *ProfileHandler) GitHubRepos(c fiber.Ctx) error {
	if h.github == nil {
		return notFound("norepos", msgNoRepos, nil)
	}

	repos, err := h.github.Repos(c.Context(), c.Params("username"))
	if err != nil {
		if errors.Is(err, github.ErrNoRepos) {
			return notFound("norepos", msgNoRepos, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewRepoListResponse(repos))
}

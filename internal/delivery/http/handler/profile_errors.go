package handler

import (
	"errors"
	"time"

	"connecty/internal/delivery/http/middleware"
	"connecty/internal/domain/profile"
	"connecty/internal/pkg/response"
	"connecty/internal/validation"

	"github.com/gofiber/fiber/v3"
)

func notFound(key, msg string, cause error) error {
	return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, fiber.Map{key: msg}, cause)
}

// storeFailure reports a store error on a read route as a 404 carrying the
// underlying message.
func storeFailure(err error) error {
	return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, fiber.Map{"error": err.Error()}, err)
}

func mapProfileReadError(err error, notFoundMsg string) error {
	if errors.Is(err, profile.ErrNotFound) {
		return notFound("nonprofile", notFoundMsg, err)
	}
	return storeFailure(err)
}

func mapProfileWriteError(err error) error {
	if errors.Is(err, profile.ErrNotFound) {
		return notFound("nonprofile", msgNoProfileForUser, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

func mapEntryDeleteError(err error, key, msg string) error {
	switch {
	case errors.Is(err, profile.ErrEntryNotFound):
		return notFound(key, msg, err)
	case errors.Is(err, profile.ErrNotFound):
		return notFound("nonprofile", msgNoProfileForUser, err)
	default:
		return storeFailure(err)
	}
}

// entryDates parses dates that already passed validation.
func entryDates(fromRaw, toRaw string) (time.Time, *time.Time) {
	from, _ := validation.ParseDate(fromRaw)
	if toRaw == "" {
		return from, nil
	}
	to, err := validation.ParseDate(toRaw)
	if err != nil {
		return from, nil
	}
	return from, &to
}

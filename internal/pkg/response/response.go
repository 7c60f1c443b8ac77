// Package response writes API bodies. A payload is the whole JSON document;
// there is no wrapping object around it.
package response

import "github.com/gofiber/fiber/v3"

// MessageBody is sent for failures that carry no field-keyed error object.
type MessageBody struct {
	Message string `json:"message"`
}

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

// JSON writes payload as the response body.
func JSON(c fiber.Ctx, status int, payload interface{}) error {
	return c.Status(normalizeStatus(status)).JSON(payload)
}

// Message writes {"message": msg}. An empty msg falls back to the default
// text for status.
func Message(c fiber.Ctx, status int, msg string) error {
	st := normalizeStatus(status)
	if msg == "" {
		msg = DefaultMessage(st)
	}
	return c.Status(st).JSON(MessageBody{Message: msg})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func DefaultMessage(status int) string {
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusConflict:
		return MessageConflict
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}

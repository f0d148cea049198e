package handler

import (
	"errors"
	"strconv"
	"strings"

	"volunteer-hub/internal/delivery/http/middleware"
	"volunteer-hub/internal/pkg/response"
	"volunteer-hub/internal/pkg/validation"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func isValidation(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs)
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func pathUUID(c fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(key))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, response.MessageInvalidID, nil, err)
	}
	return id, nil
}

package response

import "github.com/gofiber/fiber/v3"

// SemanticResponse is the envelope every API response is wrapped in.
type SemanticResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "Bad request"
	MessageInvalidPayload      = "Invalid request payload"
	MessageValidationFailed    = "validation failed"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

// Auth and session messages.
const (
	MessageUnauthorized       = "Unauthorized"
	MessageForbidden          = "Forbidden"
	MessageTokenExpired       = "Token expired"
	MessageInvalidToken       = "Invalid token"
	MessageSessionEnded       = "Session ended"
	MessageAccountCreated     = "Account created"
	MessageEmailTaken         = "Email already registered"
	MessageInvalidCredentials = "Invalid email or password"
	MessageRefreshExpired     = "Refresh token expired"
	MessageInvalidRefresh     = "Invalid refresh token"
	MessageInvalidResetToken  = "Invalid or expired reset token"
	MessageResetRequested     = "If the email is registered, a reset link has been sent"
	MessagePasswordUpdated    = "Password updated"
	MessageLoggedOut          = "Logged out"
	MessageProfileUpdated     = "Profile updated"
	MessageUserNotFound       = "User not found"
)

// Opportunity listing messages.
const (
	MessageInvalidID           = "Invalid id"
	MessageInvalidPage         = "Invalid page"
	MessageOpportunityNotFound = "Opportunity not found"
	MessageOpportunityCreated  = "Opportunity created"
	MessageOpportunityUpdated  = "Opportunity updated"
	MessageOpportunityDeleted  = "Opportunity deleted"
)

// Contact form messages.
const (
	MessageContactReceived = "Message received"
	MessageContactTooSoon  = "Please wait before sending another message"
)

const MessageDegraded = "degraded"

var statusMessages = map[int]string{
	fiber.StatusOK:                  MessageOK,
	fiber.StatusCreated:             MessageOK,
	fiber.StatusBadRequest:          MessageBadRequest,
	fiber.StatusUnauthorized:        MessageUnauthorized,
	fiber.StatusForbidden:           MessageForbidden,
	fiber.StatusNotFound:            "Not found",
	fiber.StatusConflict:            "Conflict",
	fiber.StatusUnprocessableEntity: MessageValidationFailed,
	fiber.StatusTooManyRequests:     "Too many requests",
	fiber.StatusServiceUnavailable:  MessageDegraded,
}

// MessageFor is the message used when a handler leaves it empty.
func MessageFor(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	if status >= 500 {
		return MessageInternalServerError
	}
	return MessageError
}

func Success(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

func Error(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

func write(c fiber.Ctx, status int, message string, data interface{}) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = MessageFor(status)
	}
	return c.Status(status).JSON(SemanticResponse{Status: status, Message: message, Data: data})
}

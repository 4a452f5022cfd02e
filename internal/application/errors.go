package application

import (
	"errors"
	"net/http"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	repo "github.com/oksasatya/academic-bridge/internal/domain/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrForbidden          = errors.New("forbidden")
	ErrRegistrationClosed = errors.New("registration is disabled")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with uppercase, lowercase, number and special character")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMobileTaken        = errors.New("mobile already registered")
	ErrAccountLocked      = errors.New("account locked, try again later")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrProjectLimit       = errors.New("open project limit reached")
	ErrNotCompleted       = errors.New("project is not completed")
	ErrAlreadyEvaluated   = errors.New("project already evaluated")
	ErrInvalidScore       = errors.New("scores must be between 1 and 5")
	ErrEmptyTeam          = errors.New("at least one team member is required")
	ErrInvalidTeamMember  = errors.New("team members must be professors or students")
	ErrTeamClosed         = errors.New("project no longer accepts team changes")
	ErrNotTeamMember      = errors.New("user is not on the project team")
	ErrFileTooLarge       = errors.New("file exceeds the maximum size")
	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrStorageUnavailable = errors.New("file storage is not configured")
	ErrUnavailable        = errors.New("service temporarily unavailable")
)

// HTTPStatus maps a service error to the response status code.
func HTTPStatus(err error) int {
	var te *entity.TransitionError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &te):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidOTP):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrRegistrationClosed):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrProjectNotFound),
		errors.Is(err, ErrEvaluationNotFound), errors.Is(err, ErrNotTeamMember),
		errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrMobileTaken),
		errors.Is(err, ErrProjectLimit), errors.Is(err, ErrNotCompleted),
		errors.Is(err, ErrAlreadyEvaluated), errors.Is(err, ErrTeamClosed),
		errors.Is(err, repo.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrWeakPassword), errors.Is(err, ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidScore), errors.Is(err, ErrEmptyTeam),
		errors.Is(err, ErrInvalidTeamMember):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrAccountLocked):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage hides internal failures behind a generic message. Storage
// conflicts lose their constraint detail.
func PublicMessage(err error) string {
	switch {
	case HTTPStatus(err) == http.StatusInternalServerError:
		return "internal error"
	case errors.Is(err, repo.ErrDuplicate):
		return "resource already exists"
	}
	return err.Error()
}

package http

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vadimbarashkov/alias-shortener/internal/entity"
)

const statusError = "error"

// shortenRequest represents the structure for a request to shorten a URL.
// A nil Alias asks for a generated one; a present alias must not be empty.
type shortenRequest struct {
	LongURL string  `json:"long_url" validate:"required,url"`
	Alias   *string `json:"alias" validate:"omitnil,min=1,max=64,alphanum"`
}

// urlResponse represents the structure for a response containing shortened URL information.
type urlResponse struct {
	ID        uuid.UUID  `json:"id"`
	Alias     string     `json:"alias"`
	LongURL   string     `json:"long_url"`
	ShortURL  string     `json:"short_url"`
	HitCount  int64      `json:"hit_count"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// toURLResponse converts an entity.URL to a urlResponse.
func toURLResponse(url *entity.URL, baseURL string) urlResponse {
	return urlResponse{
		ID:        url.ID,
		Alias:     url.Alias,
		LongURL:   url.LongURL,
		ShortURL:  shortURL(baseURL, url.Alias),
		HitCount:  url.HitCount,
		State:     string(url.State()),
		CreatedAt: url.CreatedAt,
		DeletedAt: url.DeletedAt,
	}
}

func shortURL(baseURL, alias string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + alias
}

// urlStatsResponse represents the usage statistics of one URL.
type urlStatsResponse struct {
	ID               uuid.UUID        `json:"id"`
	Alias            string           `json:"alias"`
	LongURL          string           `json:"long_url"`
	HitCount         int64            `json:"hit_count"`
	TotalAccessCount int64            `json:"total_access_count"`
	SignatureCounts  map[string]int64 `json:"signature_counts"`
}

// statisticsResponse wraps the statistics of every active URL.
type statisticsResponse struct {
	Statistics []urlStatsResponse `json:"statistics"`
}

func toStatisticsResponse(stats []entity.URLStats) statisticsResponse {
	resp := statisticsResponse{
		Statistics: make([]urlStatsResponse, 0, len(stats)),
	}

	for _, s := range stats {
		resp.Statistics = append(resp.Statistics, urlStatsResponse{
			ID:               s.ID,
			Alias:            s.Alias,
			LongURL:          s.LongURL,
			HitCount:         s.HitCount,
			TotalAccessCount: s.TotalAccessCount,
			SignatureCounts:  s.SignatureCounts,
		})
	}

	return resp
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

// Predefined error responses for common scenarios.
var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	invalidURLIDResponse = errorResponse{
		Status:  statusError,
		Message: "invalid url id",
	}

	urlNotFoundResponse = errorResponse{
		Status:  statusError,
		Message: "url not found",
	}

	aliasConflictResponse = errorResponse{
		Status:  statusError,
		Message: "alias is not available",
	}

	tooManyRequestsResponse = errorResponse{
		Status:  statusError,
		Message: "too many requests",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	case "alphanum":
		return "only letters and digits are allowed"
	default:
		return "invalid value"
	}
}

// getValidationErrors processes validation errors and returns a list of validationError.
func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

// validationErrorResponse constructs an errorResponse for validation errors.
func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}

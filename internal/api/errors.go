package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Belphemur/SuperCaptions/internal/apperrors"
)

const couldNotLoadCaption = "could not load this subtitle"

// statusOf returns the HTTP status an error will be rendered with
func statusOf(err error) int {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// captionError maps download and normalization failures of a remote caption
func captionError(err error) error {
	switch {
	case errors.Is(err, &apperrors.ErrEmptyContent{}), errors.Is(err, &apperrors.ErrInvalidFormat{}):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, couldNotLoadCaption).SetInternal(err)
	case errors.Is(err, &apperrors.ErrCaptionResourceNotFound{}):
		return echo.NewHTTPError(http.StatusNotFound, "caption not found").SetInternal(err)
	case errors.Is(err, &apperrors.ErrCaptionNotFoundInArchive{}):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	case errors.Is(err, &apperrors.ErrProviderStatus{}):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error()).SetInternal(err)
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "caption download timed out").SetInternal(err)
	case errors.Is(err, context.Canceled):
		// Client went away; 499 is the nginx convention for that
		return echo.NewHTTPError(499, "request cancelled").SetInternal(err)
	default:
		return err
	}
}

// normalizeError maps errors for raw text posted by the caller
func normalizeError(err error) error {
	switch {
	case errors.Is(err, &apperrors.ErrEmptyContent{}):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, &apperrors.ErrInvalidFormat{}):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()).SetInternal(err)
	default:
		return err
	}
}

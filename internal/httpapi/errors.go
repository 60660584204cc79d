package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/labstack/echo/v4"

	"github.com/goliatone/go-pokedex/pokemon"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// handleError renders every handler and middleware error as an errorResponse.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := describe(err)

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", requestID,
			"method", c.Request().Method,
			"path", c.Path(),
			"code", body.Error,
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.Error("failed to write error response", "request_id", requestID, "error", err)
	}
}

func describe(err error) (int, errorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{
			Error:   goerrors.HTTPStatusToTextCode(he.Code),
			Message: fmt.Sprint(he.Message),
		}
	}

	if code := pokemon.TextCode(err); code != "" {
		return pokemon.HTTPStatus(err), errorResponse{
			Error:   code,
			Message: pokemon.Message(err),
			Details: pokemon.FieldErrors(err),
		}
	}

	rich := goerrors.MapToError(err, []goerrors.ErrorMapper{goerrors.MapHTTPErrors})
	status := rich.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return status, errorResponse{
		Error:   rich.TextCode,
		Message: http.StatusText(status),
	}
}

package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"paychain/internal/adapter/upstream"
	"paychain/internal/domain/paging"
	"paychain/internal/domain/report"
	"paychain/internal/domain/upload"
	"paychain/internal/usecase/board"
	"paychain/internal/usecase/employer"
	"paychain/internal/usecase/worker"
	"paychain/pkg/flight"
)

// bindPaging reads the uniform list-query contract from the request.
func bindPaging(c echo.Context) (paging.Query, error) {
	q := paging.Query{
		SortBy:     c.QueryParam("sortBy"),
		SortDir:    c.QueryParam("sortDir"),
		Status:     c.QueryParam("status"),
		StartDate:  c.QueryParam("startDate"),
		EndDate:    c.QueryParam("endDate"),
		SingleDate: c.QueryParam("singleDate"),
	}
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("page must be an integer")
		}
		q.Page = n
	}
	if raw := c.QueryParam("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("size must be an integer")
		}
		q.Size = n
	}
	if err := q.Validate(); err != nil {
		return q, err
	}
	return q.Normalize(), nil
}

// respondErr maps domain and upstream errors onto HTTP statuses. Upstream
// messages pass through verbatim.
func respondErr(c echo.Context, err error) error {
	var api *upstream.APIError
	if errors.As(err, &api) {
		return c.JSON(api.StatusCode, ErrorResponse{Error: api.Message})
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, flight.ErrInFlight),
		errors.Is(err, worker.ErrDuplicateUpload):
		status = http.StatusConflict
	case errors.Is(err, worker.ErrNotEligible),
		errors.Is(err, employer.ErrAlreadyFinalized),
		errors.Is(err, board.ErrNotReconciled):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, upload.ErrBadExtension),
		errors.Is(err, upload.ErrFileTooLarge),
		errors.Is(err, upload.ErrEmptyFile),
		errors.Is(err, board.ErrEmptyTxnRef):
		status = http.StatusBadRequest
	case errors.Is(err, report.ErrNotFound):
		status = http.StatusNotFound
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

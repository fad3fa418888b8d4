package api

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/querygate/binder"
	"github.com/dmitrymomot/querygate/handler"
	"github.com/dmitrymomot/querygate/pkg/environment"
	"github.com/dmitrymomot/querygate/pkg/gateway"
)

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Text   string `json:"text"`
	Params []any  `json:"params"`
}

var (
	errQueryTextRequired = handler.NewHTTPError(http.StatusBadRequest, "Query text is required")
	errNotConnected      = handler.NewHTTPError(http.StatusServiceUnavailable, "Database not connected")
	errMethodNotAllowed  = handler.NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed")
)

func (a *api) queryHandler() http.HandlerFunc {
	return handler.Wrap(a.handleQuery,
		handler.WithBinder[handler.Context, QueryRequest](binder.BindJSON()),
		handler.WithErrorHandler[handler.Context, QueryRequest](a.errorHandler),
	)
}

func (a *api) handleQuery(ctx handler.Context, req QueryRequest) handler.Response {
	res, err := a.gateway.Execute(ctx, req.Text, req.Params)
	if err != nil {
		return handler.JSONError(a.httpError(ctx, err))
	}
	return handler.JSON(res)
}

// httpError maps gateway failures to responses. Query error details are only
// exposed in development.
func (a *api) httpError(ctx handler.Context, err error) error {
	switch {
	case errors.Is(err, gateway.ErrInvalidRequest):
		return errQueryTextRequired.Wrap(err)
	case errors.Is(err, gateway.ErrServiceUnavailable):
		return errNotConnected.Wrap(err)
	}

	var qe *gateway.QueryError
	if errors.As(err, &qe) {
		httpErr := handler.NewHTTPError(http.StatusInternalServerError, qe.Message).
			WithCode(qe.Code).
			Wrap(err)
		if environment.IsDevelopment(ctx) {
			httpErr = httpErr.WithDetail(qe.Detail)
		}
		return httpErr
	}

	return err
}

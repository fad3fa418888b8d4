// Package handler provides type-safe HTTP request handling with JSON responses.
//
// Handlers are generic functions that receive a bound request value and
// return a Response. Wrap adapts them to http.HandlerFunc:
//
//	type QueryRequest struct {
//		Text   string `json:"text"`
//		Params []any  `json:"params"`
//	}
//
//	func query(ctx handler.Context, req QueryRequest) handler.Response {
//		res, err := gw.Execute(ctx, req.Text, req.Params)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(res)
//	}
//
//	r.Post("/api/query", handler.Wrap(query,
//		handler.WithBinder[handler.Context, QueryRequest](binder.BindJSON()),
//	))
//
// # Errors
//
// Every error response has the same shape:
//
//	{"error": true, "message": "...", "code": "...", "detail": "..."}
//
// Code and Detail are omitted when empty. The status and fields are taken
// from an *HTTPError found in the error chain. Binding failures from the
// binder package become 400 responses and any other error becomes a generic
// 500 so internal messages never reach the client.
//
// NewErrorHandler builds an ErrorHandler that logs each failure with the
// request ID before rendering it.
package handler

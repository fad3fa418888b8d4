// Package environment propagates the current application environment
// (development, staging, production) through context.Context and HTTP requests.
//
// Parse normalizes the raw APP_ENV value. Middleware attaches the environment
// to every request context so handlers can decide, for example, whether error
// responses may carry debugging detail:
//
//	r := chi.NewRouter()
//	r.Use(environment.Middleware(environment.Parse(os.Getenv("APP_ENV"))))
//
//	if environment.IsDevelopment(r.Context()) {
//	    // expose driver error detail
//	}
package environment

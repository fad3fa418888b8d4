package pg

import (
	"context"
	"errors"
)

// Healthcheck returns a closure that validates database connectivity for health endpoints.
// The probe is a plain SELECT 1 so it travels the same path as proxied queries.
func Healthcheck(q Querier) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := q.Query(ctx, "SELECT 1"); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

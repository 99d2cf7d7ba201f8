package database

import (
	"context"
	"fmt"
	"time"
)

// UpdateExpr executes a single-statement UPDATE whose SET clause is a raw
// SQL expression, e.g. "stock_quantity = stock_quantity - ?". Combined with
// the accumulated WHERE clauses this gives conditional atomic counter
// updates without a read-modify-write cycle. Returns the number of rows
// affected; zero means the guard did not match.
func (q *QueryBuilder[T]) UpdateExpr(ctx context.Context, set string, args ...any) (int, error) {
	start := time.Now()
	var rowsAffected int64

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	err := WithRetry(ctx, func() error {
		var model T
		query := q.db.NewUpdate().Model(&model).Set(set, args...)

		query = q.applyWhereConditionsToUpdate(query)

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute update expression: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}

// UpdateExprReturning is UpdateExpr with RETURNING *, for callers that need
// the post-update row (e.g. the new counter value) in the same round trip.
func (q *QueryBuilder[T]) UpdateExprReturning(ctx context.Context, set string, args ...any) ([]T, error) {
	start := time.Now()
	var results []T

	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	err := WithRetry(ctx, func() error {
		results = nil // Reset on retry
		var model T
		query := q.db.NewUpdate().Model(&model).Set(set, args...)

		query = q.applyWhereConditionsToUpdate(query)
		query = query.Returning("*")

		_, err := query.Exec(ctx, &results)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute update expression: %w (took %v)", err, time.Since(start))
	}

	return results, nil
}

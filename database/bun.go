package database

import (
	"fmt"

	"github.com/uptrace/bun"
)

// buildBunQuery translates the accumulated clauses into a bun SelectQuery
// bound to a fresh model instance.
func (q *QueryBuilder[T]) buildBunQuery() *bun.SelectQuery {
	var model T
	return q.applySelectClauses(q.db.NewSelect().Model(&model))
}

// buildBunQueryWithModel binds the query to the caller's destination, which
// bun requires for has-many and many-to-many preloading.
func (q *QueryBuilder[T]) buildBunQueryWithModel(dest any) *bun.SelectQuery {
	return q.applySelectClauses(q.db.NewSelect().Model(dest))
}

func (q *QueryBuilder[T]) applySelectClauses(query *bun.SelectQuery) *bun.SelectQuery {
	query = q.applyWhereConditionsToSelect(query)

	for _, relation := range q.relations {
		query = query.Relation(relation)
	}

	for _, order := range q.orders {
		query = query.OrderExpr("? ?", bun.Ident(order.Column), bun.Safe(order.Direction))
	}

	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}

	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}

	return query
}

// applyWhereConditionsToSelect applies WHERE conditions to a Bun SelectQuery
func (q *QueryBuilder[T]) applyWhereConditionsToSelect(query *bun.SelectQuery) *bun.SelectQuery {
	for _, where := range q.wheres {
		switch {
		case where.IsRaw:
			query = query.Where(where.RawSQL, where.RawArgs...)
		case where.Operator == "IS NULL" || where.Operator == "IS NOT NULL":
			query = query.Where(fmt.Sprintf("%s %s", where.Column, where.Operator))
		case where.Operator == "IN":
			query = query.Where(fmt.Sprintf("%s IN (?)", where.Column), bun.In(where.Value))
		default:
			query = query.Where(fmt.Sprintf("%s %s ?", where.Column, where.Operator), where.Value)
		}
	}

	return query
}

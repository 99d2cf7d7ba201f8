package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type builderModel struct {
	ID   int    `bun:"id,pk"`
	Name string `bun:"name"`
}

func TestQueryBuilderAccumulatesClauses(t *testing.T) {
	q := Query[builderModel](nil).
		Where("name", "widget").
		WhereOp("stock_quantity", ">=", 3).
		WhereIn("id", []any{1, 2}).
		WhereNull("deleted_at").
		WhereRaw("price < ?", 10).
		OrderBy("created_at", DESC).
		Limit(20).
		Offset(40).
		With("Category").
		Timeout(5 * time.Second)

	require.Len(t, q.wheres, 5)
	assert.Equal(t, "=", q.wheres[0].Operator)
	assert.Equal(t, ">=", q.wheres[1].Operator)
	assert.Equal(t, "IN", q.wheres[2].Operator)
	assert.Equal(t, "IS NULL", q.wheres[3].Operator)
	assert.True(t, q.wheres[4].IsRaw)
	assert.Equal(t, "price < ?", q.wheres[4].RawSQL)

	require.Len(t, q.orders, 1)
	assert.Equal(t, "created_at", q.orders[0].Column)
	assert.Equal(t, "DESC", q.orders[0].Direction)

	require.NotNil(t, q.limitVal)
	assert.Equal(t, 20, *q.limitVal)
	require.NotNil(t, q.offsetVal)
	assert.Equal(t, 40, *q.offsetVal)

	assert.Equal(t, []string{"Category"}, q.relations)
	assert.Equal(t, 5*time.Second, q.timeout)
}

func TestQueryBuilderStartsEmpty(t *testing.T) {
	q := Query[builderModel](nil)

	assert.Empty(t, q.wheres)
	assert.Empty(t, q.orders)
	assert.Nil(t, q.limitVal)
	assert.Nil(t, q.offsetVal)
	assert.Zero(t, q.timeout)
}

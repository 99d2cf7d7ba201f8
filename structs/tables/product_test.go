package tables

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductStatusValid(t *testing.T) {
	assert.True(t, ProductStatusDraft.Valid())
	assert.True(t, ProductStatusPublished.Valid())
	assert.True(t, ProductStatusArchived.Valid())
	assert.False(t, ProductStatus("deleted").Valid())
	assert.False(t, ProductStatus("").Valid())
}

func TestProductIsInStock(t *testing.T) {
	assert.True(t, (&Product{StockQuantity: 5}).IsInStock())
	assert.False(t, (&Product{StockQuantity: 0}).IsInStock())
}

func TestProductProfitMargin(t *testing.T) {
	cost := decimal.NewFromInt(60)
	p := &Product{Price: decimal.NewFromInt(100), Cost: &cost}

	margin := p.ProfitMargin()
	require.NotNil(t, margin)
	assert.True(t, margin.Equal(decimal.NewFromInt(40)), "got %s", margin)
}

func TestProductProfitMarginUndefined(t *testing.T) {
	// No cost recorded
	p := &Product{Price: decimal.NewFromInt(100)}
	assert.Nil(t, p.ProfitMargin())

	// Zero price would divide by zero
	cost := decimal.NewFromInt(10)
	p = &Product{Price: decimal.Zero, Cost: &cost}
	assert.Nil(t, p.ProfitMargin())
}

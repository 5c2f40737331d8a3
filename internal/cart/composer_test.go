package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbenali/kahina/internal/domain"
)

func primaryLine() domain.OrderLineItem {
	return domain.OrderLineItem{
		ProductID: "kabyle-dress-01",
		Name:      "Robe Kabyle",
		UnitPrice: 250000, // 2500 DA
		Size:      "M",
		Quantity:  1,
	}
}

func TestComposer_AggregatePrice(t *testing.T) {
	c := NewComposer(primaryLine(), 1000)

	assert.Equal(t, int64(250000), c.AggregatePrice())

	id := c.AddLine()
	require.NoError(t, c.UpdateLine(id, FieldQuantity, "2"))
	assert.Equal(t, int64(250000+2*250000), c.AggregatePrice())

	c.SetPrimaryQuantity(3)
	assert.Equal(t, int64(3*250000+2*250000), c.AggregatePrice())

	require.NoError(t, c.RemoveLine(id))
	assert.Equal(t, int64(3*250000), c.AggregatePrice())
}

func TestComposer_AggregateWeight(t *testing.T) {
	c := NewComposer(primaryLine(), 1000)
	assert.Equal(t, 1000, c.AggregateWeight())

	id := c.AddLine()
	require.NoError(t, c.UpdateLine(id, FieldQuantity, "2"))
	assert.Equal(t, 3000, c.AggregateWeight())
}

func TestComposer_LinesPrimaryFirst(t *testing.T) {
	c := NewComposer(primaryLine(), 1000)
	id := c.AddLine()
	require.NoError(t, c.UpdateLine(id, FieldSize, "L"))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "M", lines[0].Size)
	assert.Equal(t, "L", lines[1].Size)
	// New lines inherit the product identity
	assert.Equal(t, "kabyle-dress-01", lines[1].ProductID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestComposer_UnparseableQuantityBecomesZero(t *testing.T) {
	c := NewComposer(primaryLine(), 1000)
	id := c.AddLine()

	require.NoError(t, c.UpdateLine(id, FieldQuantity, "abc"))
	assert.Equal(t, 0, c.Lines()[1].Quantity)

	err := c.ValidateLines()
	require.Error(t, err)
	assert.Contains(t, domain.GetValidationFields(err)["lines"], "item 1")
}

func TestComposer_UnknownLine(t *testing.T) {
	c := NewComposer(primaryLine(), 1000)

	err := c.UpdateLine("nope", FieldSize, "S")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	err = c.RemoveLine("nope")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestComposer_ValidateLines(t *testing.T) {
	c := NewComposer(primaryLine(), 1000)
	assert.NoError(t, c.ValidateLines())

	first := c.AddLine()
	second := c.AddLine()
	require.NoError(t, c.UpdateLine(second, FieldSize, "S"))

	// First line has no size yet
	err := c.ValidateLines()
	require.Error(t, err)
	fields := domain.GetValidationFields(err)
	require.NotNil(t, fields)
	assert.Contains(t, fields["lines"], "item 1")
	assert.NotContains(t, fields["lines"], "item 2")

	require.NoError(t, c.UpdateLine(first, FieldSize, "XL"))
	assert.NoError(t, c.ValidateLines())
}

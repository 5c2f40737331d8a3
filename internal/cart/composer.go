// Package cart implements the multi-item order composer: a primary line from
// the product page selection plus user-appended size/quantity lines.
package cart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rbenali/kahina/internal/domain"
)

// LineField names the line attributes UpdateLine can mutate.
type LineField string

const (
	FieldSize     LineField = "size"
	FieldColor    LineField = "color"
	FieldQuantity LineField = "quantity"
)

// Composer owns the order's line items. The primary line is fixed at
// construction; additional lines are appended, edited and removed freely,
// with all value validation deferred to submit time.
//
// The composer is not safe for concurrent use; the checkout form serializes
// access (single writer per session).
type Composer struct {
	primary         domain.OrderLineItem
	additional      []domain.OrderLineItem
	lineIDs         []string
	itemWeightGrams int
}

// NewComposer creates a composer around the primary selection.
// itemWeightGrams is the per-unit parcel weight used for the aggregate;
// products without real weight data fall back to the configured default.
func NewComposer(primary domain.OrderLineItem, itemWeightGrams int) *Composer {
	return &Composer{
		primary:         primary,
		itemWeightGrams: itemWeightGrams,
	}
}

// AddLine appends a new empty line with quantity 1 and no size, returning
// its ID.
func (c *Composer) AddLine() string {
	id := uuid.New().String()
	c.additional = append(c.additional, domain.OrderLineItem{
		ProductID: c.primary.ProductID,
		Name:      c.primary.Name,
		UnitPrice: c.primary.UnitPrice,
		Quantity:  1,
	})
	c.lineIDs = append(c.lineIDs, id)
	return id
}

// UpdateLine mutates one field of one additional line in place. Values are
// stored as given; a quantity that does not parse becomes zero and is caught
// by submit-time validation.
func (c *Composer) UpdateLine(id string, field LineField, value string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return domain.NotFound("cart.updateLine", "cart line", id)
	}

	switch field {
	case FieldSize:
		c.additional[idx].Size = value
	case FieldColor:
		c.additional[idx].Color = value
	case FieldQuantity:
		qty, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			qty = 0
		}
		c.additional[idx].Quantity = qty
	default:
		return domain.Errorf(domain.EINVALID, "cart.updateLine", "unknown line field: %s", field)
	}
	return nil
}

// RemoveLine removes an additional line unconditionally.
func (c *Composer) RemoveLine(id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return domain.NotFound("cart.removeLine", "cart line", id)
	}
	c.additional = append(c.additional[:idx], c.additional[idx+1:]...)
	c.lineIDs = append(c.lineIDs[:idx], c.lineIDs[idx+1:]...)
	return nil
}

// Primary returns the primary line item.
func (c *Composer) Primary() domain.OrderLineItem {
	return c.primary
}

// SetPrimaryQuantity updates the primary line's quantity.
func (c *Composer) SetPrimaryQuantity(qty int) {
	c.primary.Quantity = qty
}

// Lines returns all line items, primary first. The slice is a copy.
func (c *Composer) Lines() []domain.OrderLineItem {
	lines := make([]domain.OrderLineItem, 0, 1+len(c.additional))
	lines = append(lines, c.primary)
	lines = append(lines, c.additional...)
	return lines
}

// LineIDs returns the IDs of the additional lines in order.
func (c *Composer) LineIDs() []string {
	out := make([]string, len(c.lineIDs))
	copy(out, c.lineIDs)
	return out
}

// AggregatePrice sums unit price times quantity over the primary and all
// additional lines. Recomputed on every call; the input set is bounded by
// user patience, not a performance concern.
func (c *Composer) AggregatePrice() int64 {
	total := c.primary.Subtotal()
	for _, line := range c.additional {
		total += line.Subtotal()
	}
	return total
}

// AggregateWeight returns the total parcel weight in grams. This feeds the
// fee calculation, which is how adding cart lines re-triggers a quote.
func (c *Composer) AggregateWeight() int {
	qty := c.primary.Quantity
	for _, line := range c.additional {
		qty += line.Quantity
	}
	return qty * c.itemWeightGrams
}

// ValidateLines checks every additional line at submit time: non-empty size
// and quantity >= 1. Violations are collected into a single aggregate
// message rather than one error per line.
func (c *Composer) ValidateLines() error {
	var bad []string
	for i, line := range c.additional {
		if line.Size == "" || line.Quantity < 1 {
			bad = append(bad, strconv.Itoa(i+1))
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return domain.NewValidationError(
		"cart.validate",
		"lines",
		fmt.Sprintf("each additional item needs a size and a quantity of at least 1 (check item %s)", strings.Join(bad, ", ")),
	)
}

func (c *Composer) indexOf(id string) int {
	for i, lid := range c.lineIDs {
		if lid == id {
			return i
		}
	}
	return -1
}

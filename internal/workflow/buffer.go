package workflow

import (
	"fmt"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
)

// ItemField names an editable column of the review grid.
type ItemField string

const (
	FieldName     ItemField = "name"
	FieldQuantity ItemField = "quantity"
	FieldUnit     ItemField = "unit"
)

// Buffer holds a mutable copy of the line items under review before a
// delivery is confirmed. Only the first recognized document of a scan is
// surfaced for editing; trailing documents are kept on the Document record
// but not reviewed here.
type Buffer struct {
	items []domain.LineItem
}

// Initialize replaces the buffer with the first recognized document's items,
// or empties it when the scan produced nothing. Re-initializing with the
// same payload yields the same buffer state.
func (b *Buffer) Initialize(data domain.RecognizedData) {
	if len(data) == 0 || len(data[0].Items) == 0 {
		b.items = nil
		return
	}
	b.items = make([]domain.LineItem, len(data[0].Items))
	copy(b.items, data[0].Items)
}

// SetField mutates a single field of the item at index. The review grid only
// ever edits rendered rows, so an out-of-range index is a programming error.
func (b *Buffer) SetField(index int, field ItemField, value string) error {
	if index < 0 || index >= len(b.items) {
		return fmt.Errorf("item index %d out of range (%d items)", index, len(b.items))
	}
	switch field {
	case FieldName:
		b.items[index].Name = value
	case FieldQuantity:
		b.items[index].Quantity = value
	case FieldUnit:
		b.items[index].Unit = value
	default:
		return fmt.Errorf("unknown item field %q", field)
	}
	return nil
}

// Snapshot returns a copy of the current items for commit. It does not clear
// the buffer; resetting after a successful commit is the controller's job.
func (b *Buffer) Snapshot() []domain.LineItem {
	if b.items == nil {
		return nil
	}
	out := make([]domain.LineItem, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of items under review.
func (b *Buffer) Len() int {
	return len(b.items)
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.items = nil
}

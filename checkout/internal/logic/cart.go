package logic

import "fmt"

// Line is one (product, quantity) pairing in a cart. Free counts the bonus
// units handed out on top of the paid Quantity.
type Line struct {
	Entry    *Entry
	Quantity int
	Free     int
}

// Units is everything the customer walks out with for this line.
func (l Line) Units() int { return l.Quantity + l.Free }

// Cart accumulates lines for one checkout session.
type Cart struct {
	lines []Line
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem appends a line for quantity paid units of entry. Repeated entries
// get their own line; stock and bonus units are checked against what the
// earlier lines of entry already hold. On error the cart is left as it was.
func (c *Cart) AddItem(entry *Entry, quantity int) (Line, error) {
	if quantity <= 0 {
		return Line{}, fmt.Errorf("%w: %s x%d", ErrInvalidQuantity, entry.Name(), quantity)
	}
	reserved := c.UnitsOf(entry)
	if !entry.HasStock(reserved + quantity) {
		return Line{}, fmt.Errorf("%w: %s x%d (already %d in cart)", ErrOutOfStock, entry.Name(), quantity, reserved)
	}

	line := Line{Entry: entry, Quantity: quantity, Free: entry.BonusFor(quantity, reserved)}
	c.lines = append(c.lines, line)
	return line, nil
}

// Total is the sum of PriceFor over all lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.lines {
		// quantities were validated in AddItem
		price, _ := line.Entry.PriceFor(line.Quantity)
		total += price
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// UnitsOf sums the units, bonus included, that lines of entry hold.
func (c *Cart) UnitsOf(entry *Entry) int {
	units := 0
	for _, line := range c.lines {
		if line.Entry == entry {
			units += line.Units()
		}
	}
	return units
}

// Len returns the number of lines.
func (c *Cart) Len() int { return len(c.lines) }

// Reserve takes every line's units out of stock. If any line fails, the
// lines already taken are put back and the error is returned.
func (c *Cart) Reserve() error {
	for i, line := range c.lines {
		if err := line.Entry.DecrementStock(line.Units()); err != nil {
			for _, done := range c.lines[:i] {
				done.Entry.RestoreStock(done.Units())
			}
			return err
		}
	}
	return nil
}

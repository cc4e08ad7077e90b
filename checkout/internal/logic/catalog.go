package logic

import "fmt"

// EntryData is one already-parsed catalog row.
type EntryData struct {
	Name      string
	UnitPrice int64
	Stock     int
}

// Catalog holds the entries of one process, in load order.
type Catalog struct {
	entries []*Entry
	byName  map[string]*Entry
}

// LoadCatalog builds a catalog from parsed rows. promotions maps a product
// name to the N of its N+1 promotion; names missing from it get none.
func LoadCatalog(rows []EntryData, promotions map[string]int) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Entry, len(rows))}

	for _, row := range rows {
		if _, dup := c.byName[row.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate product %q", ErrInvalidCatalog, row.Name)
		}

		var promo *Promotion
		if n, ok := promotions[row.Name]; ok {
			p, err := NewNPlusOne(n)
			if err != nil {
				return nil, fmt.Errorf("promotion for %q: %w", row.Name, err)
			}
			promo = &p
		}

		entry, err := NewEntry(row.Name, row.UnitPrice, row.Stock, promo)
		if err != nil {
			return nil, err
		}
		c.entries = append(c.entries, entry)
		c.byName[entry.name] = entry
	}
	return c, nil
}

// Lookup returns the entry for name or ErrUnknownProduct.
func (c *Catalog) Lookup(name string) (*Entry, error) {
	entry, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, name)
	}
	return entry, nil
}

// Entries returns the entries in load order.
func (c *Catalog) Entries() []*Entry {
	out := make([]*Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

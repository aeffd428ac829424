package models

// Cart holds product IDs in the order they were added. A product is in the
// cart at most once.
type Cart struct {
	ProductIDs []string
}

// Add appends id unless it is already present and reports whether it was added
func (c *Cart) Add(id string) bool {
	if c.Contains(id) {
		return false
	}
	c.ProductIDs = append(c.ProductIDs, id)
	return true
}

// Remove drops id and reports whether it was present
func (c *Cart) Remove(id string) bool {
	for i, existing := range c.ProductIDs {
		if existing == id {
			c.ProductIDs = append(c.ProductIDs[:i], c.ProductIDs[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Contains(id string) bool {
	for _, existing := range c.ProductIDs {
		if existing == id {
			return true
		}
	}
	return false
}

func (c *Cart) Len() int {
	return len(c.ProductIDs)
}

func (c *Cart) Clear() {
	c.ProductIDs = nil
}

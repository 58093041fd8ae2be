package domain

// CartItem is one line of a customer's cart. Lines from different vendors may
// share a cart.
type CartItem struct {
	VendorID string  `json:"vendorId" validate:"required"`
	ItemID   string  `json:"itemId" validate:"required"`
	Name     string  `json:"name"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

func (c Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// VendorIDs lists the distinct vendors in first-seen order.
func (c Cart) VendorIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, it := range c.Items {
		if !seen[it.VendorID] {
			seen[it.VendorID] = true
			ids = append(ids, it.VendorID)
		}
	}
	return ids
}

package repo

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch carries the fields of a partial user update. A nil field is
// left untouched.
type UserPatch struct {
	Name  *string
	Email *string
}

func (p UserPatch) Empty() bool { return p.Name == nil && p.Email == nil }

type Order struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Items       []Item  `json:"items"`
	TotalAmount float64 `json:"total_amount"`
}

type Item struct {
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Clone returns a copy that does not share the items slice.
func (o Order) Clone() Order {
	if o.Items != nil {
		items := make([]Item, len(o.Items))
		copy(items, o.Items)
		o.Items = items
	}
	return o
}

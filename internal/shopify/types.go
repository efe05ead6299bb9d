package shopify

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ID is a remote identifier. The platform sends numeric IDs but string IDs
// are accepted as well; JSON null decodes to the empty ID.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Amount is a money value. Absent, null or malformed amounts decode to zero
// instead of failing the whole payload.
type Amount struct {
	Value decimal.Decimal
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	a.Value = decimal.Zero
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		a.Value = d
	}
	return nil
}

// Product is a remote catalog entry.
type Product struct {
	ID       ID        `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
	Image    *Image    `json:"image"`
}

// Variant carries the price; the first variant's price is the product price.
type Variant struct {
	ID    ID     `json:"id"`
	Price Amount `json:"price"`
}

// Image is the product's primary image.
type Image struct {
	Src string `json:"src"`
}

// Customer is a remote customer record.
type Customer struct {
	ID        ID     `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at"`
}

// Order is a remote order record. Customer is nil for guest orders.
type Order struct {
	ID         ID             `json:"id"`
	TotalPrice Amount         `json:"total_price"`
	CreatedAt  string         `json:"created_at"`
	Customer   *OrderCustomer `json:"customer"`
}

// OrderCustomer is the customer reference embedded in an order.
type OrderCustomer struct {
	ID ID `json:"id"`
}

// Snapshot is one tenant's remote data from a single fetch cycle.
type Snapshot struct {
	Products  []Product
	Customers []Customer
	Orders    []Order
}

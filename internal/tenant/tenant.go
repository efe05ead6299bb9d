package tenant

import (
	"time"
)

// Tenant represents one onboarded store whose data is isolated by tenant_id
type Tenant struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	ShopURL string `json:"shopUrl"`
	// AccessToken is stored in plaintext and is never rendered in responses.
	AccessToken string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

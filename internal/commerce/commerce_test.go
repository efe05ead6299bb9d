package commerce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomer_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		want     string
	}{
		{"full name", Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, "Ada Lovelace"},
		{"first only", Customer{FirstName: "Ada", Email: "ada@example.com"}, "Ada"},
		{"last only", Customer{LastName: "Lovelace"}, "Lovelace"},
		{"email fallback", Customer{Email: "ada@example.com"}, "ada@example.com"},
		{"blank names", Customer{FirstName: " ", LastName: "", Email: "ada@example.com"}, "ada@example.com"},
		{"unknown", Customer{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.customer.DisplayName())
		})
	}
}

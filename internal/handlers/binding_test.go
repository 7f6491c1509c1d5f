package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	SiteID string          `json:"site_id"`
	Amount decimal.Decimal `json:"amount"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "Nested Structure",
			key:      "expense",
			body:     `{"expense": {"site_id": "S1", "amount": 250.5}}`,
			expected: bindTarget{SiteID: "S1", Amount: decimal.RequireFromString("250.5")},
		},
		{
			name:     "Flat Structure",
			key:      "expense",
			body:     `{"site_id": "S2", "amount": "100"}`,
			expected: bindTarget{SiteID: "S2", Amount: decimal.RequireFromString("100")},
		},
		{
			name:     "Nested Structure with Missing Key Fallback",
			key:      "expense",
			body:     `{"allocation": "value", "site_id": "S3", "amount": 1}`,
			expected: bindTarget{SiteID: "S3", Amount: decimal.RequireFromString("1")},
		},
		{
			name:        "Invalid Amount",
			key:         "expense",
			body:        `{"site_id": "S4", "amount": "lots"}`,
			expectError: true,
		},
		{
			name:        "Nested Key Present but Invalid Type",
			key:         "expense",
			body:        `{"expense": "some string"}`,
			expectError: true,
		},
		{
			name:        "Empty Body",
			key:         "expense",
			body:        "  ",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result bindTarget
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected.SiteID, result.SiteID)
				assert.True(t, tt.expected.Amount.Equal(result.Amount))
			}
		})
	}
}

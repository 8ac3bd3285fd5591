package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type bindTarget struct {
	ClientID uint    `json:"client_id"`
	Amount   float64 `json:"amount"`
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
			name:     "Nested payload",
			key:      "loan",
			body:     `{"loan": {"client_id": 7, "amount": 1500.50}}`,
			expected: bindTarget{ClientID: 7, Amount: 1500.50},
		},
		{
			name:     "Flat payload",
			key:      "loan",
			body:     `{"client_id": 3, "amount": 900}`,
			expected: bindTarget{ClientID: 3, Amount: 900},
		},
		{
			name:     "Missing key falls back to flat",
			key:      "loan",
			body:     `{"other": "value", "client_id": 2, "amount": 100}`,
			expected: bindTarget{ClientID: 2, Amount: 100},
		},
		{
			name:        "Invalid flat content",
			key:         "loan",
			body:        `{"client_id": 1, "amount": "mil"}`,
			expectError: true,
		},
		{
			name:        "Nested key with invalid content",
			key:         "loan",
			body:        `{"loan": {"client_id": 1, "amount": "mil"}}`,
			expectError: true,
		},
		{
			name:        "Nested key holds a scalar",
			key:         "loan",
			body:        `{"loan": "not an object"}`,
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
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

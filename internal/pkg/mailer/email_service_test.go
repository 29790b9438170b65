package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReceipt(t *testing.T) {
	body, err := RenderReceipt(Receipt{
		CustomerName: "Asha <script>",
		Title:        "Subscription confirmed",
		PaymentId:    "pay_123",
		Lines:        []ReceiptLine{{Name: "Basic Plan (monthly) - Lunch", Quantity: 1, Price: 250}},
		Total:        250,
		Currency:     "INR",
		ValidUntil:   "15 Feb 2024",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Basic Plan (monthly) - Lunch x1")
	assert.Contains(t, body, "INR 250.00")
	assert.Contains(t, body, "pay_123")
	assert.Contains(t, body, "valid until 15 Feb 2024")
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "delivered to")
}

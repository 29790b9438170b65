package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time. An empty secret never verifies.
func VerifySignature(secret string, cb Callback) bool {
	if secret == "" || cb.Signature == "" {
		return false
	}
	expected := Sign(secret, cb.OrderID, cb.PaymentID)
	return hmac.Equal([]byte(expected), []byte(cb.Signature))
}

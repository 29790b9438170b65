package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSecret = "rzp_test_secret"

func TestSignKnownVector(t *testing.T) {
	sig := Sign(testSecret, "order_1", "pay_1")
	assert.Len(t, sig, 64)
	assert.Equal(t, sig, Sign(testSecret, "order_1", "pay_1"))
	assert.NotEqual(t, sig, Sign(testSecret, "order_1", "pay_2"))
}

func TestVerifySignature(t *testing.T) {
	cb := Callback{
		OrderID:   "order_Nx1",
		PaymentID: "pay_Nx1",
	}
	cb.Signature = Sign(testSecret, cb.OrderID, cb.PaymentID)

	assert.True(t, VerifySignature(testSecret, cb))
	assert.False(t, VerifySignature("other_secret", cb))
	assert.False(t, VerifySignature("", cb))
}

func TestVerifySignatureRejectsSingleByteChanges(t *testing.T) {
	base := Callback{OrderID: "order_abc", PaymentID: "pay_xyz"}
	base.Signature = Sign(testSecret, base.OrderID, base.PaymentID)

	flip := func(s string, i int) string {
		b := []byte(s)
		b[i] ^= 0x01
		return string(b)
	}

	for i := range base.OrderID {
		cb := base
		cb.OrderID = flip(base.OrderID, i)
		assert.False(t, VerifySignature(testSecret, cb), "order id byte %d", i)
	}
	for i := range base.PaymentID {
		cb := base
		cb.PaymentID = flip(base.PaymentID, i)
		assert.False(t, VerifySignature(testSecret, cb), "payment id byte %d", i)
	}
	for i := range base.Signature {
		cb := base
		cb.Signature = flip(base.Signature, i)
		assert.False(t, VerifySignature(testSecret, cb), "signature byte %d", i)
	}
}

func TestVerifySignatureSeparatorMatters(t *testing.T) {
	cb := Callback{OrderID: "order_a", PaymentID: "b"}
	cb.Signature = Sign(testSecret, "order_a|", "b")
	assert.False(t, VerifySignature(testSecret, Callback{OrderID: "order_a", PaymentID: "b", Signature: Sign(testSecret, "order_", "a|b")}))
	assert.False(t, VerifySignature(testSecret, cb))
}

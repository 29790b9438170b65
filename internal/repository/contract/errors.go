package contract

import "errors"

// ErrDuplicatePayment is returned when a payment id is already in the ledger.
var ErrDuplicatePayment = errors.New("payment already recorded")

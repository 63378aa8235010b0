package models

import "hotel-reservation/apperror"

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment moves only unpaid → paid and paid → refunded. The bool result
// reports whether the status actually changes.

func (p PaymentStatus) MarkPaid() (PaymentStatus, bool, error) {
	switch p {
	case PaymentUnpaid:
		return PaymentPaid, true, nil
	case PaymentPaid:
		return p, false, nil
	case PaymentRefunded:
		return p, false, apperror.InvalidTransition(string(p), "mark_paid", "cannot mark a refunded reservation as paid")
	}
	return p, false, apperror.InvalidTransition(string(p), "mark_paid", "unknown payment status")
}

func (p PaymentStatus) Refund() (PaymentStatus, bool, error) {
	switch p {
	case PaymentPaid:
		return PaymentRefunded, true, nil
	case PaymentRefunded:
		return p, false, nil
	case PaymentUnpaid:
		return p, false, apperror.InvalidTransition(string(p), "refund", "cannot refund an unpaid reservation")
	}
	return p, false, apperror.InvalidTransition(string(p), "refund", "unknown payment status")
}

// OnCancel refunds a paid reservation and leaves any other status alone.
func (p PaymentStatus) OnCancel() (PaymentStatus, bool) {
	if p == PaymentPaid {
		return PaymentRefunded, true
	}
	return p, false
}

// Settle is applied at check-out: the stay is always settled as paid.
func (p PaymentStatus) Settle() (PaymentStatus, bool) {
	return PaymentPaid, p != PaymentPaid
}

package models

import "errors"

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "Unpaid"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPartial PaymentStatus = "Partial"
)

func ParsePaymentStatus(str string) (PaymentStatus, error) {
	switch str {
	case "Unpaid":
		return PaymentStatusUnpaid, nil
	case "Paid":
		return PaymentStatusPaid, nil
	case "Partial":
		return PaymentStatusPartial, nil
	default:
		return "", errors.New("invalid payment status")
	}
}

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "Cash"
	PaymentMethodCard   PaymentMethod = "Card"
	PaymentMethodOnline PaymentMethod = "Online"
)

func ParsePaymentMethod(str string) (PaymentMethod, error) {
	switch str {
	case "Cash":
		return PaymentMethodCash, nil
	case "Card":
		return PaymentMethodCard, nil
	case "Online":
		return PaymentMethodOnline, nil
	default:
		return "", errors.New("invalid payment method")
	}
}

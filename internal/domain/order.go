package domain

import "math"

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderDispatched OrderStatus = "DISPATCHED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentNotPaid PaymentStatus = "NOT_PAID"
	PaymentPaid    PaymentStatus = "PAID"
)

// LinePrice is the stored price of a cart line: quantity times the unit price.
// ok is false for negative inputs or when the product does not fit in an int64.
func LinePrice(quantity int, unitPrice int64) (price int64, ok bool) {
	if quantity < 0 || unitPrice < 0 {
		return 0, false
	}
	if unitPrice != 0 && int64(quantity) > math.MaxInt64/unitPrice {
		return 0, false
	}
	return int64(quantity) * unitPrice, true
}

// OrderTotal sums line prices. ok is false on a negative line or overflow.
func OrderTotal(prices []int64) (total int64, ok bool) {
	for _, p := range prices {
		if p < 0 || total > math.MaxInt64-p {
			return 0, false
		}
		total += p
	}
	return total, true
}

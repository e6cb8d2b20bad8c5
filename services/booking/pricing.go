package booking

import "math"

// DefaultCommissionRate is the platform's share of the booking price.
const DefaultCommissionRate = 0.30

// SplitPrice divides a booking price into the platform commission and the
// therapist payout. The commission is rounded to a whole currency unit.
func SplitPrice(totalPrice, rate float64) (adminCommission, providerPayout float64) {
	if totalPrice <= 0 {
		return 0, 0
	}
	adminCommission = math.Round(totalPrice * rate)
	return adminCommission, totalPrice - adminCommission
}

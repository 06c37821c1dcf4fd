package services

import (
	"math"

	"github.com/resume-studio/resume-studio-api/models"
)

// Revision fee schedule, applied once the free-revision allowance is
// exhausted.
var revisionBaseFee = map[string]float64{
	"simple":       25,
	"moderate":     50,
	"complex":      100,
	"very_complex": 200,
}

// Fee multiplier by revision urgency
var revisionUrgencyMultiplier = map[string]float64{
	"standard": 1.0,
	"urgent":   1.5,
	"express":  2.0,
}

// Baseline effort in hours by revision complexity
var revisionBaseHours = map[string]float64{
	"simple":       1,
	"moderate":     3,
	"complex":      6,
	"very_complex": 12,
}

// Effort multiplier by revision priority. Higher priority work gets a
// tighter estimate because it is scheduled onto senior writers.
var revisionPriorityMultiplier = map[string]float64{
	"low":    1.2,
	"medium": 1.0,
	"high":   0.8,
	"urgent": 0.5,
}

// Effort multiplier by revision urgency (distinct from the fee multiplier)
var revisionUrgencyHoursMultiplier = map[string]float64{
	"standard": 1.0,
	"urgent":   0.7,
	"express":  0.5,
}

// Round2 rounds a monetary amount to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds an hours figure to 1 decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// OrderTotal computes the charged amount from its components:
//
//	(basePrice + urgencyFee + sum(additional services)) * (1 - discount/100)
//
// rounded to 2 decimals. The total is always derived — callers never
// supply it directly, so the charged amount cannot be spoofed
// independently of its components.
func OrderTotal(basePrice, urgencyFee float64, additional []models.AdditionalService, discountPercent float64) float64 {
	subtotal := basePrice + urgencyFee
	for _, svc := range additional {
		subtotal += svc.Price
	}
	return Round2(subtotal * (1 - discountPercent/100))
}

// RecalculateOrderTotal refreshes order.TotalAmount from the pricing
// components. Called on every order save path.
func RecalculateOrderTotal(order *models.Order) {
	order.TotalAmount = OrderTotal(order.BasePrice, order.UrgencyFee, order.AdditionalServices, order.DiscountPercent)
}

// RevisionChargeable decides whether a revision is free or chargeable.
// freeRevisionsUsed is the creation-time count of prior revisions on
// the order.
func RevisionChargeable(freeRevisionsUsed, freeRevisionsLimit int) bool {
	return freeRevisionsUsed >= freeRevisionsLimit
}

// RevisionFee computes the fee for a chargeable revision from the
// complexity fee schedule and the urgency multiplier. Free revisions
// always carry a zero fee.
func RevisionFee(chargeable bool, complexity, urgency string) float64 {
	if !chargeable {
		return 0
	}
	base, ok := revisionBaseFee[complexity]
	if !ok {
		base = revisionBaseFee["moderate"]
	}
	mult, ok := revisionUrgencyMultiplier[urgency]
	if !ok {
		mult = 1.0
	}
	return Round2(base * mult)
}

// EstimateRevisionHours computes the effort heuristic used when staff
// give no explicit estimate:
//
//	baseHours(complexity) * priorityMult * urgencyMult + 0.5 per specific change
//
// rounded to 1 decimal.
func EstimateRevisionHours(complexity, priority, urgency string, specificChanges int) float64 {
	base, ok := revisionBaseHours[complexity]
	if !ok {
		base = revisionBaseHours["moderate"]
	}
	pm, ok := revisionPriorityMultiplier[priority]
	if !ok {
		pm = 1.0
	}
	um, ok := revisionUrgencyHoursMultiplier[urgency]
	if !ok {
		um = 1.0
	}
	return Round1(base*pm*um + 0.5*float64(specificChanges))
}

// PaymentNetAmount computes what the business keeps after fees
func PaymentNetAmount(amount, processingFee, platformFee float64) float64 {
	return Round2(amount - processingFee - platformFee)
}

// FILE: internal/pricing/pricing.go
// Package pricing holds the plan pricing and upgrade eligibility rules.
// Everything here is pure; callers do the I/O.
package pricing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"meal-subscription-be/internal/entity"
	"meal-subscription-be/internal/pkg/apperror"
)

// MinimumCharge is the smallest amount (in major currency units) sent to the gateway.
const MinimumCharge = 1.0

const halfMealMultiplier = 0.5

var tierRanks = map[string]int{
	"Basic":   1,
	"Premium": 2,
	"Exotic":  3,
}

var durationRanks = map[entity.PlanDuration]int{
	entity.PlanDurationMonthly: 1,
	entity.PlanDurationYearly:  2,
}

// ParseMealType normalises client input. Empty input means both meals.
func ParseMealType(raw string) (entity.MealType, error) {
	switch entity.MealType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", entity.MealTypeBoth:
		return entity.MealTypeBoth, nil
	case entity.MealTypeLunch:
		return entity.MealTypeLunch, nil
	case entity.MealTypeDinner:
		return entity.MealTypeDinner, nil
	}
	return "", apperror.PolicyViolation(fmt.Sprintf("unsupported meal type %q", raw))
}

// MealMultiplier is 1 for both meals and 0.5 for a single meal.
func MealMultiplier(mealType entity.MealType) float64 {
	if mealType == entity.MealTypeBoth || mealType == "" {
		return 1
	}
	return halfMealMultiplier
}

func PriceFor(plan *entity.Plan, mealType entity.MealType) float64 {
	return plan.Price * MealMultiplier(mealType)
}

func TierRank(planName string) int {
	return tierRanks[planName]
}

func DurationRank(duration entity.PlanDuration) int {
	return durationRanks[duration]
}

// IsValidUpgrade reports whether candidate is strictly above current:
// a higher tier, or the same tier with a longer duration.
func IsValidUpgrade(current, candidate *entity.Plan) bool {
	if current.Id == candidate.Id {
		return false
	}
	curTier, newTier := TierRank(current.Name), TierRank(candidate.Name)
	if newTier > curTier {
		return true
	}
	return newTier == curTier && DurationRank(candidate.Duration) > DurationRank(current.Duration)
}

// IsMealUpgrade is the same-plan transition, e.g. lunch only to both meals on
// the plan already held. It compares ids only; whether the new meal option
// actually costs more is left to CheckUpgradeCharge.
func IsMealUpgrade(current, candidate *entity.Plan) bool {
	return current.Id == candidate.Id
}

// CanTransition is the rule applied when a user initiates an upgrade.
func CanTransition(current, candidate *entity.Plan) bool {
	return IsValidUpgrade(current, candidate) || IsMealUpgrade(current, candidate)
}

// UpgradeCost credits what was already paid against the new total.
func UpgradeCost(newTotal, alreadyPaid float64) float64 {
	return math.Max(0, newTotal-alreadyPaid)
}

// CheckUpgradeCharge rejects a new total below the amount already paid and
// otherwise returns the prorated cost.
func CheckUpgradeCharge(newTotal, alreadyPaid float64) (float64, error) {
	if newTotal < alreadyPaid {
		return 0, apperror.PolicyViolation("Cannot downgrade to a cheaper plan option.")
	}
	return UpgradeCost(newTotal, alreadyPaid), nil
}

func CheckMinimumCharge(amount float64) error {
	if amount < MinimumCharge {
		return apperror.PolicyViolation(fmt.Sprintf("Order amount must be at least ₹%.0f", MinimumCharge))
	}
	return nil
}

// PeriodEnd uses calendar arithmetic: Jan 31 + 1 month normalises the way time.AddDate does.
func PeriodEnd(start time.Time, duration entity.PlanDuration) time.Time {
	switch duration {
	case entity.PlanDurationYearly:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// ToMinorUnits converts rupees to paise.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}

package calculator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/money"
)

// ErrInvalidSplit is the sentinel wrapped by every InvalidSplitError.
var ErrInvalidSplit = errors.New("invalid split")

// InvalidSplitError reports split inputs that cannot produce a valid allocation.
type InvalidSplitError struct {
	Policy models.SplitPolicy
	Reason string
}

func (e *InvalidSplitError) Error() string {
	if e.Policy == "" {
		return "invalid split: " + e.Reason
	}
	return fmt.Sprintf("invalid %s split: %s", e.Policy, e.Reason)
}

func (e *InvalidSplitError) Unwrap() error {
	return ErrInvalidSplit
}

func invalid(policy models.SplitPolicy, format string, args ...any) error {
	return &InvalidSplitError{Policy: policy, Reason: fmt.Sprintf(format, args...)}
}

const (
	// exactTolerance is how far EXACT amounts may drift from the total.
	exactTolerance money.Cents = 1
	// percentTolerance is how far percentages may drift from 100.
	percentTolerance = 0.01
)

// SplitInput is one participant's input to CalculateSplit.
// Amount is read only for EXACT, Percentage only for PERCENTAGE.
type SplitInput struct {
	UserID     string
	Amount     money.Cents
	Percentage float64
}

// SplitResult is one participant's owed amount.
type SplitResult struct {
	UserID     string
	Amount     money.Cents
	Percentage *float64
}

// CalculateSplit divides total among participants according to policy.
// Results are returned in input order. EQUAL and PERCENTAGE results always
// sum to total and are never negative.
func CalculateSplit(total money.Cents, policy models.SplitPolicy, inputs []SplitInput) ([]SplitResult, error) {
	if !policy.Valid() {
		return nil, invalid("", "unknown split policy %q", policy)
	}
	if len(inputs) == 0 {
		return nil, invalid(policy, "at least one participant is required")
	}
	if total <= 0 {
		return nil, invalid(policy, "total must be positive, got %s", total)
	}

	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		if in.UserID == "" {
			return nil, invalid(policy, "participant user id is required")
		}
		if _, dup := seen[in.UserID]; dup {
			return nil, invalid(policy, "participant %s listed more than once", in.UserID)
		}
		seen[in.UserID] = struct{}{}
	}

	switch policy {
	case models.SplitEqual:
		return splitEqual(total, inputs), nil
	case models.SplitExact:
		return splitExact(total, inputs)
	default:
		return splitPercentage(total, inputs)
	}
}

func splitEqual(total money.Cents, inputs []SplitInput) []SplitResult {
	n := money.Cents(len(inputs))
	share, remainder := total/n, total%n

	results := make([]SplitResult, len(inputs))
	for i, in := range inputs {
		amount := share
		if money.Cents(i) < remainder {
			amount++
		}
		results[i] = SplitResult{UserID: in.UserID, Amount: amount}
	}
	return results
}

func splitExact(total money.Cents, inputs []SplitInput) ([]SplitResult, error) {
	var sum money.Cents
	results := make([]SplitResult, len(inputs))
	for i, in := range inputs {
		if in.Amount < 0 {
			return nil, invalid(models.SplitExact, "amount for %s is negative", in.UserID)
		}
		sum += in.Amount
		results[i] = SplitResult{UserID: in.UserID, Amount: in.Amount}
	}

	if (sum - total).Abs() > exactTolerance {
		return nil, invalid(models.SplitExact, "amounts sum to %s, expected %s", sum, total)
	}
	return results, nil
}

func splitPercentage(total money.Cents, inputs []SplitInput) ([]SplitResult, error) {
	sum := decimal.Zero
	for _, in := range inputs {
		if in.Percentage < 0 {
			return nil, invalid(models.SplitPercentage, "percentage for %s is negative", in.UserID)
		}
		sum = sum.Add(decimal.NewFromFloat(in.Percentage))
	}

	diff := sum.Sub(decimal.NewFromInt(100)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(percentTolerance)) {
		return nil, invalid(models.SplitPercentage, "percentages sum to %s, expected 100", sum.String())
	}

	// Each share is total*pct/sum, floored. The cents left over go one at a
	// time to the largest remainders, ties in input order, so no amount is
	// negative and a 0% participant never receives a cent.
	totalDec := decimal.NewFromInt(int64(total))
	remainders := make([]decimal.Decimal, len(inputs))
	var allocated money.Cents
	results := make([]SplitResult, len(inputs))
	for i, in := range inputs {
		pct := in.Percentage
		floor, rem := totalDec.Mul(decimal.NewFromFloat(pct)).QuoRem(sum, 0)
		amount := money.Cents(floor.IntPart())
		allocated += amount
		remainders[i] = rem
		results[i] = SplitResult{UserID: in.UserID, Amount: amount, Percentage: &pct}
	}

	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return remainders[b].Cmp(remainders[a])
	})
	for _, i := range order[:total-allocated] {
		results[i].Amount++
	}

	return results, nil
}

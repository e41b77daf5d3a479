package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/money"
)

func users(ids ...string) []SplitInput {
	inputs := make([]SplitInput, len(ids))
	for i, id := range ids {
		inputs[i] = SplitInput{UserID: id}
	}
	return inputs
}

func sumResults(results []SplitResult) money.Cents {
	var sum money.Cents
	for _, r := range results {
		sum += r.Amount
	}
	return sum
}

func TestCalculateSplit(t *testing.T) {
	tests := []struct {
		name   string
		total  money.Cents
		policy models.SplitPolicy
		inputs []SplitInput
		want   []money.Cents
	}{
		{
			name:   "equal three ways",
			total:  30000,
			policy: models.SplitEqual,
			inputs: users("A", "B", "C"),
			want:   []money.Cents{10000, 10000, 10000},
		},
		{
			name:   "equal with remainder goes to first participants",
			total:  100,
			policy: models.SplitEqual,
			inputs: users("A", "B", "C"),
			want:   []money.Cents{34, 33, 33},
		},
		{
			name:   "equal single participant",
			total:  1234,
			policy: models.SplitEqual,
			inputs: users("A"),
			want:   []money.Cents{1234},
		},
		{
			name:   "exact amounts",
			total:  9000,
			policy: models.SplitExact,
			inputs: []SplitInput{
				{UserID: "A", Amount: 3000},
				{UserID: "B", Amount: 4000},
				{UserID: "C", Amount: 2000},
			},
			want: []money.Cents{3000, 4000, 2000},
		},
		{
			name:   "exact within one cent is accepted as given",
			total:  9000,
			policy: models.SplitExact,
			inputs: []SplitInput{
				{UserID: "A", Amount: 3000},
				{UserID: "B", Amount: 3000},
				{UserID: "C", Amount: 2999},
			},
			want: []money.Cents{3000, 3000, 2999},
		},
		{
			name:   "percentage halves",
			total:  5000,
			policy: models.SplitPercentage,
			inputs: []SplitInput{
				{UserID: "A", Percentage: 50},
				{UserID: "B", Percentage: 50},
			},
			want: []money.Cents{2500, 2500},
		},
		{
			name:   "percentage residual goes to largest remainder",
			total:  1000,
			policy: models.SplitPercentage,
			inputs: []SplitInput{
				{UserID: "A", Percentage: 33.33},
				{UserID: "B", Percentage: 33.33},
				{UserID: "C", Percentage: 33.34},
			},
			want: []money.Cents{333, 333, 334},
		},
		{
			name:   "percentage zero share stays zero",
			total:  3,
			policy: models.SplitPercentage,
			inputs: []SplitInput{
				{UserID: "A", Percentage: 0},
				{UserID: "B", Percentage: 50},
				{UserID: "C", Percentage: 50},
			},
			want: []money.Cents{0, 2, 1},
		},
		{
			name:   "percentage ties broken by input order",
			total:  100,
			policy: models.SplitPercentage,
			inputs: []SplitInput{
				{UserID: "A", Percentage: 33.335},
				{UserID: "B", Percentage: 33.335},
				{UserID: "C", Percentage: 33.33},
			},
			want: []money.Cents{34, 33, 33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := CalculateSplit(tt.total, tt.policy, tt.inputs)
			require.NoError(t, err)
			require.Len(t, results, len(tt.want))

			for i, r := range results {
				assert.Equal(t, tt.inputs[i].UserID, r.UserID, "order must follow input")
				assert.Equal(t, tt.want[i], r.Amount, "amount for %s", r.UserID)
			}
			assert.LessOrEqual(t, (sumResults(results) - tt.total).Abs(), money.Cents(1))
		})
	}
}

func TestCalculateSplitKeepsPercentage(t *testing.T) {
	results, err := CalculateSplit(1000, models.SplitPercentage, []SplitInput{
		{UserID: "A", Percentage: 25},
		{UserID: "B", Percentage: 75},
	})
	require.NoError(t, err)

	require.NotNil(t, results[0].Percentage)
	require.NotNil(t, results[1].Percentage)
	assert.Equal(t, 25.0, *results[0].Percentage)
	assert.Equal(t, 75.0, *results[1].Percentage)

	equal, err := CalculateSplit(1000, models.SplitEqual, users("A", "B"))
	require.NoError(t, err)
	assert.Nil(t, equal[0].Percentage)
}

func assertNonNegative(t *testing.T, results []SplitResult) {
	t.Helper()
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Amount, money.Cents(0), "amount for %s", r.UserID)
	}
}

func TestCalculateSplitSumsToTotal(t *testing.T) {
	percentages := [][]float64{
		{33.33, 33.33, 33.34},
		{0, 50, 50},
		{50, 50, 0},
		{0, 0, 100},
		{99.99, 0.01},
		{33.335, 33.335, 33.335},
		{12.5, 12.5, 25, 49.99},
	}

	for total := money.Cents(1); total <= 500; total += 7 {
		for n := 1; n <= 7; n++ {
			ids := make([]string, n)
			for i := range ids {
				ids[i] = string(rune('A' + i))
			}
			results, err := CalculateSplit(total, models.SplitEqual, users(ids...))
			require.NoError(t, err)
			assert.Equal(t, total, sumResults(results), "equal split of %d among %d", total, n)
			assertNonNegative(t, results)
		}

		for _, pcts := range percentages {
			inputs := make([]SplitInput, len(pcts))
			for i, pct := range pcts {
				inputs[i] = SplitInput{UserID: string(rune('A' + i)), Percentage: pct}
			}
			results, err := CalculateSplit(total, models.SplitPercentage, inputs)
			require.NoError(t, err)
			assert.Equal(t, total, sumResults(results), "percentage split of %d by %v", total, pcts)
			assertNonNegative(t, results)
			for i, pct := range pcts {
				if pct == 0 {
					assert.Zero(t, results[i].Amount, "0%% share of %d by %v", total, pcts)
				}
			}
		}
	}
}

func TestCalculateSplitInvalid(t *testing.T) {
	tests := []struct {
		name       string
		total      money.Cents
		policy     models.SplitPolicy
		inputs     []SplitInput
		wantPolicy models.SplitPolicy
		wantReason string
	}{
		{
			name:       "exact sum mismatch",
			total:      9000,
			policy:     models.SplitExact,
			inputs:     []SplitInput{{UserID: "A", Amount: 3000}, {UserID: "B", Amount: 3000}, {UserID: "C", Amount: 2900}},
			wantPolicy: models.SplitExact,
			wantReason: "amounts sum to 89.00, expected 90.00",
		},
		{
			name:       "percentages over 100",
			total:      9000,
			policy:     models.SplitPercentage,
			inputs:     []SplitInput{{UserID: "A", Percentage: 50}, {UserID: "B", Percentage: 50}, {UserID: "C", Percentage: 1}},
			wantPolicy: models.SplitPercentage,
			wantReason: "percentages sum to 101, expected 100",
		},
		{
			name:       "empty participants",
			total:      9000,
			policy:     models.SplitEqual,
			wantPolicy: models.SplitEqual,
			wantReason: "at least one participant is required",
		},
		{
			name:       "unknown policy",
			total:      9000,
			policy:     "SHARES",
			inputs:     users("A"),
			wantReason: `unknown split policy "SHARES"`,
		},
		{
			name:       "non-positive total",
			total:      0,
			policy:     models.SplitEqual,
			inputs:     users("A"),
			wantPolicy: models.SplitEqual,
			wantReason: "total must be positive, got 0.00",
		},
		{
			name:       "duplicate participant",
			total:      9000,
			policy:     models.SplitEqual,
			inputs:     users("A", "A"),
			wantPolicy: models.SplitEqual,
			wantReason: "participant A listed more than once",
		},
		{
			name:       "negative exact amount",
			total:      1000,
			policy:     models.SplitExact,
			inputs:     []SplitInput{{UserID: "A", Amount: 2000}, {UserID: "B", Amount: -1000}},
			wantPolicy: models.SplitExact,
			wantReason: "amount for B is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := CalculateSplit(tt.total, tt.policy, tt.inputs)
			require.Error(t, err)
			assert.Nil(t, results)
			assert.True(t, errors.Is(err, ErrInvalidSplit))

			var splitErr *InvalidSplitError
			require.True(t, errors.As(err, &splitErr))
			assert.Equal(t, tt.wantPolicy, splitErr.Policy)
			assert.Equal(t, tt.wantReason, splitErr.Reason)
		})
	}
}

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siddhardh4356/slipwise/internal/calculator"
	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/money"
)

type splitOptions struct {
	total  string
	policy string
	shares []string
}

// ShareResult is one line of split output.
type ShareResult struct {
	User       string   `json:"user"`
	Amount     string   `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// NewSplitCommand creates the split command.
func NewSplitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &splitOptions{}

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Divide an amount among participants",
		Long: `Divide an amount among participants using an EQUAL, EXACT or PERCENTAGE split.

Each --share names a participant. EXACT shares carry an amount and
PERCENTAGE shares a percentage, written user=value.`,
		Example: `  slipctl split --total 100 --share alice --share bob --share carol
  slipctl split --total 90 --policy EXACT --share alice=60 --share bob=30
  slipctl split --total 200 --policy PERCENTAGE --share alice=25 --share bob=75`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(rootOpts, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.total, "total", "", "amount to split, e.g. 12.34")
	cmd.Flags().StringVar(&opts.policy, "policy", string(models.SplitEqual), "split policy (EQUAL|EXACT|PERCENTAGE)")
	cmd.Flags().StringArrayVar(&opts.shares, "share", nil, "participant as user or user=value (repeatable)")
	_ = cmd.MarkFlagRequired("total")

	return cmd
}

func parseShare(policy models.SplitPolicy, share string) (calculator.SplitInput, error) {
	user, value, hasValue := strings.Cut(share, "=")
	in := calculator.SplitInput{UserID: strings.TrimSpace(user)}
	if !hasValue {
		return in, nil
	}

	switch policy {
	case models.SplitExact:
		amount, err := money.Parse(strings.TrimSpace(value))
		if err != nil {
			return in, fmt.Errorf("share %q: %w", share, err)
		}
		in.Amount = amount
	case models.SplitPercentage:
		pct, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return in, fmt.Errorf("share %q: invalid percentage", share)
		}
		in.Percentage = pct
	}
	return in, nil
}

func runSplit(rootOpts *RootOptions, opts *splitOptions, out io.Writer) error {
	total, err := money.Parse(opts.total)
	if err != nil {
		return err
	}
	policy := models.SplitPolicy(strings.ToUpper(opts.policy))

	inputs := make([]calculator.SplitInput, 0, len(opts.shares))
	for _, share := range opts.shares {
		in, err := parseShare(policy, share)
		if err != nil {
			return err
		}
		inputs = append(inputs, in)
	}

	results, err := calculator.CalculateSplit(total, policy, inputs)
	if err != nil {
		return err
	}

	shares := make([]ShareResult, len(results))
	for i, r := range results {
		shares[i] = ShareResult{User: r.UserID, Amount: r.Amount.String(), Percentage: r.Percentage}
	}

	f := &OutputFormatter{Format: rootOpts.Format, Writer: out}
	return f.Write(shares, func(w io.Writer) {
		for _, s := range shares {
			if s.Percentage != nil {
				fmt.Fprintf(w, "%s\t%s\t(%g%%)\n", s.User, s.Amount, *s.Percentage)
			} else {
				fmt.Fprintf(w, "%s\t%s\n", s.User, s.Amount)
			}
		}
	})
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/siddhardh4356/slipwise/internal/calculator"
)

// TransferResult is one simplified payment.
type TransferResult struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// MemberResult is a member's position in the group.
type MemberResult struct {
	User  string `json:"user"`
	Paid  string `json:"paid"`
	Share string `json:"share"`
	Net   string `json:"net"`
}

// BalancesResult is the output of the balances command.
type BalancesResult struct {
	Group     string           `json:"group,omitempty"`
	Members   []MemberResult   `json:"members"`
	Transfers []TransferResult `json:"transfers"`
}

// NewBalancesCommand creates the balances command.
func NewBalancesCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show who pays whom to settle a ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalances(rootOpts, file, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML ledger file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runBalances(rootOpts *RootOptions, file string, out io.Writer) error {
	lf, err := ReadLedgerFile(file)
	if err != nil {
		return err
	}
	ledger, err := lf.Ledger()
	if err != nil {
		return err
	}

	balances := calculator.CalculateGroupBalances(ledger)
	result := BalancesResult{
		Group:     lf.Group,
		Members:   make([]MemberResult, len(balances.Members)),
		Transfers: make([]TransferResult, len(balances.Transfers)),
	}
	for i, m := range balances.Members {
		result.Members[i] = MemberResult{
			User:  m.UserID,
			Paid:  m.Paid.String(),
			Share: m.Share.String(),
			Net:   m.Net.String(),
		}
	}
	for i, t := range balances.Transfers {
		result.Transfers[i] = TransferResult{From: t.From, To: t.To, Amount: t.Amount.String()}
	}

	f := &OutputFormatter{Format: rootOpts.Format, Writer: out}
	return f.Write(result, func(w io.Writer) {
		fmt.Fprintln(w, "MEMBER\tPAID\tSHARE\tNET")
		for _, m := range result.Members {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.User, m.Paid, m.Share, m.Net)
		}
		fmt.Fprintln(w)
		if len(result.Transfers) == 0 {
			fmt.Fprintln(w, "All settled up.")
			return
		}
		for _, t := range result.Transfers {
			fmt.Fprintf(w, "%s pays %s\t%s\n", t.From, t.To, t.Amount)
		}
	})
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/siddhardh4356/slipwise/internal/calculator"
)

// SummaryResult is a user's position across the given ledgers.
type SummaryResult struct {
	User       string `json:"user"`
	TotalOwes  string `json:"total_owes"`
	TotalOwed  string `json:"total_owed"`
	NetBalance string `json:"net_balance"`
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		files []string
		user  string
	)

	cmd := &cobra.Command{
		Use:     "summary",
		Short:   "Total what a user owes and is owed across ledgers",
		Example: `  slipctl summary --user alice --file trip.yaml --file flat.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(rootOpts, files, user, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVarP(&files, "file", "f", nil, "YAML ledger file (repeatable)")
	cmd.Flags().StringVarP(&user, "user", "u", "", "user to summarize")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runSummary(rootOpts *RootOptions, files []string, user string, out io.Writer) error {
	ledgers := make([]calculator.GroupLedger, 0, len(files))
	for _, file := range files {
		lf, err := ReadLedgerFile(file)
		if err != nil {
			return err
		}
		ledger, err := lf.Ledger()
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		ledgers = append(ledgers, ledger)
	}

	sum := calculator.SummarizeUser(user, ledgers)
	result := SummaryResult{
		User:       user,
		TotalOwes:  sum.TotalOwes.String(),
		TotalOwed:  sum.TotalOwed.String(),
		NetBalance: sum.NetBalance.String(),
	}

	f := &OutputFormatter{Format: rootOpts.Format, Writer: out}
	return f.Write(result, func(w io.Writer) {
		fmt.Fprintf(w, "User\t%s\n", result.User)
		fmt.Fprintf(w, "Owes\t%s\n", result.TotalOwes)
		fmt.Fprintf(w, "Is owed\t%s\n", result.TotalOwed)
		fmt.Fprintf(w, "Net\t%s\n", result.NetBalance)
	})
}

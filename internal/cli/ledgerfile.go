package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/siddhardh4356/slipwise/internal/calculator"
	"github.com/siddhardh4356/slipwise/internal/models"
	"github.com/siddhardh4356/slipwise/internal/money"
)

// Amount is a money value written as a plain YAML number or string.
type Amount money.Cents

func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a number", value.Line)
	}
	c, err := money.Parse(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*a = Amount(c)
	return nil
}

// Participant is one share of an expense. Amount is read for EXACT splits
// and Percentage for PERCENTAGE splits.
type Participant struct {
	User       string  `yaml:"user"`
	Amount     Amount  `yaml:"amount,omitempty"`
	Percentage float64 `yaml:"percentage,omitempty"`
}

// ExpenseEntry is an expense as written in a ledger file.
type ExpenseEntry struct {
	ID           string        `yaml:"id,omitempty"`
	Description  string        `yaml:"description"`
	PaidBy       string        `yaml:"paid_by"`
	Amount       Amount        `yaml:"amount"`
	Split        string        `yaml:"split"`
	Participants []Participant `yaml:"participants"`
}

// SettlementEntry is a direct payment between two members.
type SettlementEntry struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Amount Amount `yaml:"amount"`
}

// LedgerFile is a snapshot of one group's records.
//
//	group: Trip
//	members: [alice, bob, carol]
//	expenses:
//	  - description: Dinner
//	    paid_by: alice
//	    amount: 90
//	    split: EQUAL
//	    participants: [{user: alice}, {user: bob}, {user: carol}]
//	settlements:
//	  - {from: bob, to: alice, amount: 30}
type LedgerFile struct {
	Group       string            `yaml:"group"`
	Members     []string          `yaml:"members"`
	Expenses    []ExpenseEntry    `yaml:"expenses"`
	Settlements []SettlementEntry `yaml:"settlements"`
}

// ReadLedgerFile parses a YAML ledger file.
func ReadLedgerFile(path string) (*LedgerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var lf LedgerFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", path, err)
	}
	return &lf, nil
}

// Ledger splits every expense and returns the calculator input. The first
// invalid expense or settlement aborts with an error naming it. Expense IDs,
// given or generated, must be unique within the file.
func (lf *LedgerFile) Ledger() (calculator.GroupLedger, error) {
	ledger := calculator.GroupLedger{
		GroupID: lf.Group,
		Members: lf.Members,
		Splits:  make(map[string][]calculator.SplitForBalance, len(lf.Expenses)),
	}

	for i, e := range lf.Expenses {
		id := e.ID
		if id == "" {
			id = "expense-" + strconv.Itoa(i+1)
		}
		if _, dup := ledger.Splits[id]; dup {
			return ledger, fmt.Errorf("%s: %w", id, errDuplicateExpense)
		}
		if e.PaidBy == "" {
			return ledger, fmt.Errorf("%s: paid_by is required", id)
		}

		inputs := make([]calculator.SplitInput, len(e.Participants))
		for j, p := range e.Participants {
			inputs[j] = calculator.SplitInput{UserID: p.User, Amount: money.Cents(p.Amount), Percentage: p.Percentage}
		}
		policy := models.SplitPolicy(strings.ToUpper(e.Split))
		if policy == "" {
			policy = models.SplitEqual
		}
		results, err := calculator.CalculateSplit(money.Cents(e.Amount), policy, inputs)
		if err != nil {
			return ledger, fmt.Errorf("%s: %w", id, err)
		}

		ledger.Expenses = append(ledger.Expenses, calculator.ExpenseForBalance{
			ID:       id,
			PaidByID: e.PaidBy,
			Amount:   money.Cents(e.Amount),
		})
		splits := make([]calculator.SplitForBalance, len(results))
		for j, r := range results {
			splits[j] = calculator.SplitForBalance{UserID: r.UserID, Amount: r.Amount}
		}
		ledger.Splits[id] = splits
	}

	for i, s := range lf.Settlements {
		if s.From == "" || s.To == "" || s.Amount <= 0 {
			return ledger, fmt.Errorf("settlement %d: %w", i+1, errInvalidSettlement)
		}
		ledger.Settlements = append(ledger.Settlements, calculator.SettlementForBalance{
			FromUserID: s.From,
			ToUserID:   s.To,
			Amount:     money.Cents(s.Amount),
		})
	}

	return ledger, nil
}

var (
	errInvalidSettlement = errors.New("from, to and a positive amount are required")
	errDuplicateExpense  = errors.New("expense id used more than once")
)

package budget

import "fmt"

// AccountType identifies the kind of bank account funding an envelope.
type AccountType string

const (
	ChequeAccount  AccountType = "cheque"
	SavingsAccount AccountType = "savings"
	CreditAccount  AccountType = "credit"
)

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case ChequeAccount, SavingsAccount, CreditAccount:
		return AccountType(s), nil
	default:
		return "", fmt.Errorf("unknown account type: %q", s)
	}
}

// Account is the identity of a bank account. Two accounts with the same name
// are the same account.
type Account struct {
	Name string      `json:"name"`
	Type AccountType `json:"type"`
}

// NewAccount creates a new account identity.
func NewAccount(name string, accountType AccountType) Account {
	return Account{Name: name, Type: accountType}
}

func (a Account) String() string { return a.Name }

// IsZero returns true if the account is the zero value.
func (a Account) IsZero() bool { return a.Name == "" && a.Type == "" }

// MarshalJSON implements the json.Marshaler interface for Account.
func (a Account) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", a.Name)
	w.Optional("type", a.Type)
	return w.MarshalJSON()
}

// BankBalance is the balance of one bank account on the reconciliation date.
// It is a snapshot, not a ledger: several may exist per line (e.g. cheque +
// savings).
type BankBalance struct {
	Account Account
	Balance Money
}

// NewBankBalance creates a bank balance snapshot.
func NewBankBalance(account Account, balance Money) BankBalance {
	return BankBalance{Account: account, Balance: balance}
}

// MarshalJSON implements the json.Marshaler interface for BankBalance.
func (b BankBalance) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("account", b.Account)
	w.Append("balance", b.Balance)
	return w.MarshalJSON()
}

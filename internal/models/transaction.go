package models

import "github.com/shopspring/decimal"

// ClientID identifies the owner of an account.
type ClientID uint16

// TxID identifies a deposit or withdrawal within one client's ledger.
type TxID uint32

// Kind is the closed set of instructions a record can carry.
type Kind uint8

const (
	// KindUnknown is any type text the replay does not understand.
	// Records of this kind are accepted and ignored.
	KindUnknown Kind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

var kindNames = map[Kind]string{
	KindDeposit:    "deposit",
	KindWithdrawal: "withdrawal",
	KindDispute:    "dispute",
	KindResolve:    "resolve",
	KindChargeback: "chargeback",
}

// ParseKind maps the input type column to a Kind. Matching is case sensitive.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return k
		}
	}
	return KindUnknown
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MovesFunds reports whether records of this kind carry an amount.
func (k Kind) MovesFunds() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// TransactionRecord is one instruction from the input stream.
// The amount is only retained for deposits and withdrawals.
type TransactionRecord struct {
	Kind   Kind
	Client ClientID
	Tx     TxID

	amount decimal.NullDecimal
}

// NewRecord builds a record from parsed columns. Any amount given for a kind
// that does not move funds is dropped.
func NewRecord(kind Kind, client ClientID, tx TxID, amount decimal.NullDecimal) TransactionRecord {
	r := TransactionRecord{Kind: kind, Client: client, Tx: tx}
	if kind.MovesFunds() {
		r.amount = amount
	}
	return r
}

func NewDeposit(client ClientID, tx TxID, amount decimal.Decimal) TransactionRecord {
	return NewRecord(KindDeposit, client, tx, decimal.NewNullDecimal(amount))
}

func NewWithdrawal(client ClientID, tx TxID, amount decimal.Decimal) TransactionRecord {
	return NewRecord(KindWithdrawal, client, tx, decimal.NewNullDecimal(amount))
}

func NewDispute(client ClientID, tx TxID) TransactionRecord {
	return TransactionRecord{Kind: KindDispute, Client: client, Tx: tx}
}

func NewResolve(client ClientID, tx TxID) TransactionRecord {
	return TransactionRecord{Kind: KindResolve, Client: client, Tx: tx}
}

func NewChargeback(client ClientID, tx TxID) TransactionRecord {
	return TransactionRecord{Kind: KindChargeback, Client: client, Tx: tx}
}

// Amount returns the record's amount and whether one is present.
func (r TransactionRecord) Amount() (decimal.Decimal, bool) {
	return r.amount.Decimal, r.amount.Valid
}

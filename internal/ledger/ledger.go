package ledger

import (
	"github.com/sheikh-saqib/toy-payments-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// precision is the number of decimal places balances are kept at.
const precision = 4

// TxState is the dispute lifecycle of a stored transaction.
type TxState uint8

const (
	TxActive TxState = iota
	TxDisputed
	TxChargedBack
)

func (s TxState) String() string {
	switch s {
	case TxActive:
		return "active"
	case TxDisputed:
		return "disputed"
	case TxChargedBack:
		return "chargedback"
	default:
		return "invalid"
	}
}

// StoredTransaction is an accepted deposit or withdrawal kept so later
// disputes can refer to it by tx id.
type StoredTransaction struct {
	Kind   models.Kind
	Amount decimal.Decimal
	State  TxState
}

// Disputed reports whether the transaction currently has an open dispute.
func (t StoredTransaction) Disputed() bool {
	return t.State == TxDisputed
}

// Ledger is the state machine of a single client's account.
// It is not safe for concurrent use; the Registry serialises access.
type Ledger struct {
	client   models.ClientID
	balances models.AccountBalances
	txs      map[models.TxID]*StoredTransaction
}

// NewLedger returns an empty, unlocked account for client.
func NewLedger(client models.ClientID) *Ledger {
	return &Ledger{
		client: client,
		txs:    make(map[models.TxID]*StoredTransaction),
	}
}

func (l *Ledger) Client() models.ClientID { return l.client }

// Balances returns a copy of the current balances.
func (l *Ledger) Balances() models.AccountBalances { return l.balances }

// Transaction looks up a stored deposit or withdrawal.
func (l *Ledger) Transaction(tx models.TxID) (StoredTransaction, bool) {
	t, ok := l.txs[tx]
	if !ok {
		return StoredTransaction{}, false
	}
	return *t, true
}

// Apply dispatches one record to the account. A nil error means the record
// was applied and the balances were recomputed and rounded. Any non-nil error
// is one of the package's sentinel errors and means nothing changed.
func (l *Ledger) Apply(rec models.TransactionRecord) error {
	var err error
	switch rec.Kind {
	case models.KindDeposit:
		err = l.deposit(rec)
	case models.KindWithdrawal:
		err = l.withdraw(rec)
	case models.KindDispute:
		err = l.dispute(rec.Tx)
	case models.KindResolve:
		err = l.resolve(rec.Tx)
	case models.KindChargeback:
		err = l.chargeback(rec.Tx)
	default:
		return ErrUnknownKind
	}
	if err != nil {
		return err
	}

	l.settle()
	return nil
}

func (l *Ledger) deposit(rec models.TransactionRecord) error {
	amount, err := l.fundingAmount(rec)
	if err != nil {
		return err
	}
	l.balances.Available = l.balances.Available.Add(amount)
	l.store(rec, amount)
	return nil
}

// withdraw performs no sufficiency check: available may go negative.
func (l *Ledger) withdraw(rec models.TransactionRecord) error {
	amount, err := l.fundingAmount(rec)
	if err != nil {
		return err
	}
	l.balances.Available = l.balances.Available.Sub(amount)
	l.store(rec, amount)
	return nil
}

func (l *Ledger) fundingAmount(rec models.TransactionRecord) (decimal.Decimal, error) {
	if l.balances.Locked {
		return decimal.Zero, ErrAccountLocked
	}
	amount, ok := rec.Amount()
	if !ok {
		return decimal.Zero, ErrMissingAmount
	}
	return amount, nil
}

// store overwrites any earlier transaction with the same id.
func (l *Ledger) store(rec models.TransactionRecord, amount decimal.Decimal) {
	l.txs[rec.Tx] = &StoredTransaction{Kind: rec.Kind, Amount: amount, State: TxActive}
}

func (l *Ledger) dispute(tx models.TxID) error {
	t, err := l.lookup(tx)
	if err != nil {
		return err
	}
	if t.State != TxActive {
		return ErrAlreadyDisputed
	}
	l.balances.Available = l.balances.Available.Sub(t.Amount)
	l.balances.Held = l.balances.Held.Add(t.Amount)
	t.State = TxDisputed
	return nil
}

func (l *Ledger) resolve(tx models.TxID) error {
	t, err := l.lookup(tx)
	if err != nil {
		return err
	}
	if !t.Disputed() {
		return ErrNotDisputed
	}
	l.balances.Available = l.balances.Available.Add(t.Amount)
	l.balances.Held = l.balances.Held.Sub(t.Amount)
	t.State = TxActive
	return nil
}

// chargeback requires an open dispute and an unlocked account, so held and
// available never move once the account is frozen. A second open dispute
// cannot be charged back after the first chargeback locks the account.
func (l *Ledger) chargeback(tx models.TxID) error {
	t, err := l.lookup(tx)
	if err != nil {
		return err
	}
	if !t.Disputed() {
		return ErrNotDisputed
	}
	l.balances.Held = l.balances.Held.Sub(t.Amount)
	l.balances.Locked = true
	t.State = TxChargedBack
	return nil
}

// lookup returns the stored transaction a dispute-family record refers to.
func (l *Ledger) lookup(tx models.TxID) (*StoredTransaction, error) {
	if l.balances.Locked {
		return nil, ErrAccountLocked
	}
	t, ok := l.txs[tx]
	if !ok {
		return nil, ErrUnknownTx
	}
	return t, nil
}

// settle rounds every balance half away from zero and recomputes the total.
// Available and held are rounded before they are summed so the total is
// always exactly their sum, even for amounts finer than four places.
func (l *Ledger) settle() {
	b := &l.balances
	b.Available = b.Available.Round(precision)
	b.Held = b.Held.Round(precision)
	b.Total = b.Available.Add(b.Held).Round(precision)
}

package budget

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The book is persisted as JSONL: one JSON object per record, each carrying
// a "record" discriminator. The file starts with the book header, then the
// envelope registry, then the reconciliation lines oldest first.
//
// The lock state is not persisted. Every decoded line is Locked, because a
// persisted line is history. The caller unlocks the head explicitly
// when corrections are needed.
const (
	recordBook   = "book"
	recordLedger = "ledger"
	recordLine   = "line"
)

// EncodeLedgerBook persists the whole book to an io.Writer in JSONL format
// with canonical field order.
func EncodeLedgerBook(w io.Writer, b *LedgerBook) error {
	var header jsonObjectWriter
	header.Append("record", recordBook)
	header.Append("name", b.name)
	header.Optional("storageKey", b.storageKey)
	header.Append("modified", b.modified.UTC().Format(time.RFC3339))
	if err := writeRecord(w, &header); err != nil {
		return err
	}

	for bucket := range b.Ledgers() {
		var rec jsonObjectWriter
		rec.Append("record", recordLedger)
		rec.EmbedFrom(bucket)
		if err := writeRecord(w, &rec); err != nil {
			return err
		}
	}

	// oldest first, so the file grows by appending.
	for _, line := range slices.Backward(b.reconciliations) {
		var rec jsonObjectWriter
		rec.Append("record", recordLine)
		rec.EmbedFrom(line)
		if err := writeRecord(w, &rec); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w io.Writer, rec *jsonObjectWriter) error {
	data, err := rec.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Decode records mirror the encoded shapes.

type txRecord struct {
	Id        string          `json:"id"`
	Kind      TransactionKind `json:"kind"`
	Date      Date            `json:"date"`
	Amount    Money           `json:"amount"`
	Narrative string          `json:"narrative"`
	Reference string          `json:"reference"`
	Account   Account         `json:"account"`
}

func (r txRecord) transaction() (LedgerTransaction, error) {
	base := baseTx{Id: r.Id, Command: r.Kind, Date: r.Date, Sum: r.Amount, Memo: r.Narrative, AutoMatch: r.Reference}
	switch r.Kind {
	case KindBudgetCredit:
		return BudgetCredit{baseTx: base}, nil
	case KindCredit:
		return Credit{baseTx: base}, nil
	case KindDebit:
		return Debit{baseTx: base}, nil
	case KindBalanceAdjustment:
		return BalanceAdjustment{baseTx: base, Account: r.Account}, nil
	default:
		return nil, fmt.Errorf("unknown transaction kind: %q", r.Kind)
	}
}

type bankBalanceRecord struct {
	Account Account `json:"account"`
	Balance Money   `json:"balance"`
}

type entryRecord struct {
	Bucket       string     `json:"bucket"`
	Account      Account    `json:"account"`
	Opening      Money      `json:"opening"`
	Balance      Money      `json:"balance"`
	Transactions []txRecord `json:"transactions"`
}

type lineRecord struct {
	Date         Date                `json:"date"`
	Remarks      string              `json:"remarks"`
	BankBalances []bankBalanceRecord `json:"bankBalances"`
	Adjustments  []txRecord          `json:"adjustments"`
	Entries      []entryRecord       `json:"entries"`
}

func (r lineRecord) line() (*LedgerEntryLine, error) {
	balances := make([]BankBalance, 0, len(r.BankBalances))
	for _, b := range r.BankBalances {
		balances = append(balances, NewBankBalance(b.Account, b.Balance))
	}
	line := newLedgerEntryLine(r.Date, balances)
	line.remarks = r.Remarks

	for _, a := range r.Adjustments {
		tx, err := a.transaction()
		if err != nil {
			return nil, err
		}
		adjustment, ok := tx.(BalanceAdjustment)
		if !ok {
			return nil, fmt.Errorf("line %s: adjustment record has kind %q", r.Date, tx.Kind())
		}
		line.adjustments = append(line.adjustments, adjustment)
	}

	for _, e := range r.Entries {
		entry := newLedgerEntry(NewLedgerBucket(e.Bucket, e.Account), e.Opening)
		for _, t := range e.Transactions {
			tx, err := t.transaction()
			if err != nil {
				return nil, err
			}
			if err := entry.applyTransactions(tx); err != nil {
				return nil, fmt.Errorf("line %s: %w", r.Date, err)
			}
		}
		if !entry.Balance().Equal(e.Balance) {
			return nil, fmt.Errorf("line %s: entry %s balance %s does not match its transactions (recomputed %s)",
				r.Date, entry.Bucket(), e.Balance, entry.Balance())
		}
		line.entries = append(line.entries, entry)
	}
	return line, nil
}

// DecodeLedgerBook reads a book from a stream of JSONL records. Decoded
// lines are all Locked and ordered newest first; the decoder rejects a file
// whose line dates are not strictly increasing.
func DecodeLedgerBook(r io.Reader) (*LedgerBook, error) {
	book := NewLedgerBook("", "")
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Record {
		case recordBook:
			var temp struct {
				Name       string `json:"name"`
				StorageKey string `json:"storageKey"`
				Modified   string `json:"modified"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			book.name = temp.Name
			book.storageKey = temp.StorageKey
			if temp.Modified != "" {
				modified, err := time.Parse(time.RFC3339, temp.Modified)
				if err != nil {
					return nil, fmt.Errorf("invalid modified timestamp %q: %w", temp.Modified, err)
				}
				book.modified = modified
			}
		case recordLedger:
			var temp struct {
				Bucket  string  `json:"bucket"`
				Account Account `json:"account"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			bucket := NewLedgerBucket(temp.Bucket, temp.Account)
			if _, ok := book.ledgers[bucket.key()]; ok {
				return nil, fmt.Errorf("envelope %s %w", bucket, ErrDuplicate)
			}
			book.ledgers[bucket.key()] = bucket
		case recordLine:
			var temp lineRecord
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			line, err := temp.line()
			if err != nil {
				return nil, err
			}
			if head := book.MostRecentLine(); head != nil && !line.date.After(head.date) {
				return nil, fmt.Errorf("reconciliation dates out of order: %s is not after %s", line.date, head.date)
			}
			line.lock()
			book.reconciliations = append([]*LedgerEntryLine{line}, book.reconciliations...)
		default:
			return nil, fmt.Errorf("unknown record: %q", identifier.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return book, nil
}

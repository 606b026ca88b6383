package budget

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"
)

// LedgerBook is the aggregate root: the registry of tracked envelopes and
// the ordered history of reconciliations, newest first.
//
// The book assumes a single logical owner; operations are synchronous and
// side-effect-local, and every mutation validates before it applies so a
// failure leaves the book in its prior valid state.
type LedgerBook struct {
	name       string
	storageKey string
	modified   time.Time

	ledgers         map[string]LedgerBucket // envelopes by (code, account) key
	reconciliations []*LedgerEntryLine      // descending by date
	tasks           []ToDoTask
}

// NewLedgerBook creates an empty book.
func NewLedgerBook(name, storageKey string) *LedgerBook {
	return &LedgerBook{
		name:       name,
		storageKey: storageKey,
		modified:   time.Now(),
		ledgers:    make(map[string]LedgerBucket),
	}
}

// Name returns the book's display name.
func (b *LedgerBook) Name() string { return b.name }

// StorageKey returns the opaque key the persistence layer filed the book under.
func (b *LedgerBook) StorageKey() string { return b.storageKey }

// Modified returns the time of the last mutation.
func (b *LedgerBook) Modified() time.Time { return b.modified }

func (b *LedgerBook) touch() { b.modified = time.Now() }

// Rename changes the book's display name.
func (b *LedgerBook) Rename(newName string) error {
	if newName == "" {
		return fmt.Errorf("%w: book name cannot be empty", ErrInvalidArgument)
	}
	b.name = newName
	b.touch()
	return nil
}

// Close clears in-memory transient state: the outstanding to-do tasks.
// It does not touch the reconciliation history.
func (b *LedgerBook) Close() {
	b.tasks = nil
}

// AddLedger registers a new envelope tracking the given bucket code funded
// from the given account. It fails if that envelope already exists.
func (b *LedgerBook) AddLedger(code string, account Account) (LedgerBucket, error) {
	if code == "" {
		return LedgerBucket{}, fmt.Errorf("%w: bucket code is missing", ErrInvalidArgument)
	}
	if account.IsZero() {
		return LedgerBucket{}, fmt.Errorf("%w: funding account is missing", ErrInvalidArgument)
	}
	bucket := NewLedgerBucket(code, account)
	if _, ok := b.ledgers[bucket.key()]; ok {
		return LedgerBucket{}, fmt.Errorf("envelope %s %w", bucket, ErrDuplicate)
	}
	b.ledgers[bucket.key()] = bucket
	b.touch()
	return bucket, nil
}

// SetLedgerAccount re-points an envelope's funding account. Only future
// reconciliations are affected; historical entries keep the account they
// were reconciled with.
func (b *LedgerBook) SetLedgerAccount(bucket LedgerBucket, newAccount Account) (LedgerBucket, error) {
	if newAccount.IsZero() {
		return LedgerBucket{}, fmt.Errorf("%w: funding account is missing", ErrInvalidArgument)
	}
	if _, ok := b.ledgers[bucket.key()]; !ok {
		return LedgerBucket{}, fmt.Errorf("envelope %s %w", bucket, ErrNotFound)
	}
	moved := NewLedgerBucket(bucket.Code, newAccount)
	if moved == bucket {
		return bucket, nil
	}
	if _, ok := b.ledgers[moved.key()]; ok {
		return LedgerBucket{}, fmt.Errorf("envelope %s %w", moved, ErrDuplicate)
	}
	delete(b.ledgers, bucket.key())
	b.ledgers[moved.key()] = moved
	b.touch()
	return moved, nil
}

// Ledger returns the tracked envelope for (code, account), if any.
func (b *LedgerBook) Ledger(code string, account Account) (LedgerBucket, bool) {
	bucket, ok := b.ledgers[NewLedgerBucket(code, account).key()]
	return bucket, ok
}

// Ledgers iterates over the tracked envelopes in a stable order.
func (b *LedgerBook) Ledgers() iter.Seq[LedgerBucket] {
	return func(yield func(LedgerBucket) bool) {
		keys := slices.Collect(maps.Keys(b.ledgers))
		slices.Sort(keys)
		for _, key := range keys {
			if !yield(b.ledgers[key]) {
				return
			}
		}
	}
}

// Reconciliations iterates over the reconciliation history, newest first.
func (b *LedgerBook) Reconciliations() iter.Seq[*LedgerEntryLine] {
	return func(yield func(*LedgerEntryLine) bool) {
		for _, line := range b.reconciliations {
			if !yield(line) {
				return
			}
		}
	}
}

// MostRecentLine returns the head of the reconciliation history, or nil for
// a book that has never been reconciled.
func (b *LedgerBook) MostRecentLine() *LedgerEntryLine {
	if len(b.reconciliations) == 0 {
		return nil
	}
	return b.reconciliations[0]
}

// UnlockMostRecentLine transitions the head line back to its mutable state
// so corrections can be applied. Older lines are permanently immutable.
func (b *LedgerBook) UnlockMostRecentLine() (*LedgerEntryLine, error) {
	head := b.MostRecentLine()
	if head == nil {
		return nil, fmt.Errorf("%w: book has no reconciliation to unlock", ErrInvalidState)
	}
	head.unlock()
	b.touch()
	return head, nil
}

// LockMostRecentLine marks the head line as persisted, making it immutable
// history. The persistence layer calls it after a successful save.
func (b *LedgerBook) LockMostRecentLine() {
	if head := b.MostRecentLine(); head != nil {
		head.lock()
	}
}

// Tasks iterates over the outstanding follow-up tasks.
func (b *LedgerBook) Tasks() iter.Seq[ToDoTask] {
	return func(yield func(ToDoTask) bool) {
		for _, t := range b.tasks {
			if !yield(t) {
				return
			}
		}
	}
}

// addTasks records follow-up tasks raised by a reconciliation.
func (b *LedgerBook) addTasks(tasks ...ToDoTask) {
	b.tasks = append(b.tasks, tasks...)
}

// appendLine inserts a freshly built line at the head of the history. The
// former head, having been reconciled past, becomes locked so the invariant
// that only the head may be mutable keeps holding.
func (b *LedgerBook) appendLine(line *LedgerEntryLine) {
	if head := b.MostRecentLine(); head != nil {
		head.lock()
	}
	b.reconciliations = append([]*LedgerEntryLine{line}, b.reconciliations...)
	b.touch()
}

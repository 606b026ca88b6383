package budget

import "fmt"

// ValidateAgainstOrphanedAutoMatchingTransactions checks every transaction
// of the book's most recent line carrying an auto-matching reference against
// the statement. A reference with no matching statement transaction means
// the expected bank-side event has not occurred (yet); each orphan becomes a
// warning message. All transactions are checked before returning so the
// caller sees the complete picture in one pass.
func ValidateAgainstOrphanedAutoMatchingTransactions(book *LedgerBook, statement *StatementModel) []string {
	head := book.MostRecentLine()
	if head == nil || statement == nil {
		return nil
	}
	var warnings []string
	for entry := range head.Entries() {
		for _, tx := range entry.Transactions() {
			reference := tx.Reference()
			if reference == "" {
				continue
			}
			if statement.HasReference(reference) {
				continue
			}
			warnings = append(warnings, fmt.Sprintf(
				"no statement transaction matches auto-matching reference %s (%s %s on %s, %s)",
				reference, entry.Bucket().Code, tx.Kind(), tx.When(), tx.Amount()))
		}
	}
	return warnings
}

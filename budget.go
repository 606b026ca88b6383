package budget

import (
	"iter"
	"maps"
	"slices"
)

// BudgetModel maps bucket codes to their signed monthly allocation amounts.
// A model applies from its effective date until a later model supersedes it.
//
// The reconciliation builder receives the effective model explicitly; the
// engine never reaches into ambient state for the "current" budget.
type BudgetModel struct {
	effectiveFrom Date
	allocations   map[string]Money
}

// NewBudgetModel creates an empty budget effective from the given date.
func NewBudgetModel(effectiveFrom Date) *BudgetModel {
	return &BudgetModel{
		effectiveFrom: effectiveFrom,
		allocations:   make(map[string]Money),
	}
}

// EffectiveFrom returns the first date the model applies to.
func (m *BudgetModel) EffectiveFrom() Date { return m.effectiveFrom }

// SetAllocation sets the monthly allocation for a bucket code.
func (m *BudgetModel) SetAllocation(code string, amount Money) {
	m.allocations[code] = amount
}

// Allocation returns the monthly allocation for a bucket code.
func (m *BudgetModel) Allocation(code string) (Money, bool) {
	amount, ok := m.allocations[code]
	return amount, ok
}

// Allocations iterates over the allocations in bucket code order.
func (m *BudgetModel) Allocations() iter.Seq2[string, Money] {
	return func(yield func(string, Money) bool) {
		codes := slices.Collect(maps.Keys(m.allocations))
		slices.Sort(codes)
		for _, code := range codes {
			if !yield(code, m.allocations[code]) {
				return
			}
		}
	}
}

// BudgetCollection is a set of budget models ordered by effective date.
type BudgetCollection []*BudgetModel

// ForDate returns the model effective on the given date: the one with the
// latest effective date that is not after it. Returns nil when no model
// applies yet.
func (c BudgetCollection) ForDate(on Date) *BudgetModel {
	var effective *BudgetModel
	for _, m := range c {
		if m.effectiveFrom.After(on) {
			continue
		}
		if effective == nil || m.effectiveFrom.After(effective.effectiveFrom) {
			effective = m
		}
	}
	return effective
}

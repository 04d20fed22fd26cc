package inventory

import (
	"context"
	"fmt"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
	"github.com/ravenholt/Emberfell_Go/internal/logger"
	"github.com/ravenholt/Emberfell_Go/internal/repository"
)

// Ledger defines stack-aware inventory operations. All methods run inside the
// caller's transaction so that consumption and grants commit (or roll back)
// together with XP and attempt records.
type Ledger interface {
	// Add grants qty of item. Stackable items top up existing stacks
	// oldest-first, then spill into new overflow stacks capped at MaxStack.
	// Non-stackable items get one row per unit.
	Add(ctx context.Context, tx repository.Tx, holderID string, item *domain.Item, qty int) error

	// Remove consumes qty of item oldest-first. If the holder's total across
	// all stacks is less than qty, nothing is mutated and false is returned.
	Remove(ctx context.Context, tx repository.Tx, holderID string, item *domain.Item, qty int) (bool, error)

	// Has reports whether the holder owns at least qty of item.
	Has(ctx context.Context, tx repository.Tx, holderID string, item *domain.Item, qty int) (bool, error)

	// Count returns the holder's total quantity of item across all stacks.
	Count(ctx context.Context, tx repository.Tx, holderID string, item *domain.Item) (int, error)
}

type ledger struct{}

// NewLedger creates a new inventory ledger.
func NewLedger() Ledger {
	return &ledger{}
}

func (l *ledger) Add(ctx context.Context, tx repository.Tx, holderID string, item *domain.Item, qty int) error {
	log := logger.FromContext(ctx)

	if qty <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, qty)
	}

	if !item.Stackable {
		// One unit row per item
		for i := 0; i < qty; i++ {
			if err := tx.InsertStack(ctx, holderID, item.ID, 1); err != nil {
				return fmt.Errorf("failed to insert unit row: %w", err)
			}
		}
		log.Debug("Items added", "holder", holderID, "item", item.Key, "quantity", qty)
		return nil
	}

	if item.MaxStack < 1 {
		return fmt.Errorf("%w: item %s has max_stack %d", domain.ErrInvalidStackCap, item.Key, item.MaxStack)
	}

	stacks, err := tx.GetStacksForUpdate(ctx, holderID, item.ID)
	if err != nil {
		return fmt.Errorf("failed to get stacks: %w", err)
	}

	remaining := qty

	// Top up existing stacks oldest-first
	for _, stack := range stacks {
		if remaining == 0 {
			break
		}
		room := item.MaxStack - stack.Quantity
		if room <= 0 {
			continue
		}
		take := remaining
		if take > room {
			take = room
		}
		if err := tx.UpdateStackQuantity(ctx, stack.ID, stack.Quantity+take); err != nil {
			return fmt.Errorf("failed to top up stack: %w", err)
		}
		remaining -= take
	}

	// Overflow into new stacks
	for remaining > 0 {
		size := remaining
		if size > item.MaxStack {
			size = item.MaxStack
		}
		if err := tx.InsertStack(ctx, holderID, item.ID, size); err != nil {
			return fmt.Errorf("failed to insert overflow stack: %w", err)
		}
		remaining -= size
	}

	log.Debug("Items added", "holder", holderID, "item", item.Key, "quantity", qty)
	return nil
}

func (l *ledger) Remove(ctx context.Context, tx repository.Tx, holderID string, item *domain.Item, qty int) (bool, error) {
	log := logger.FromContext(ctx)

	if qty <= 0 {
		return false, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, qty)
	}

	stacks, err := tx.GetStacksForUpdate(ctx, holderID, item.ID)
	if err != nil {
		return false, fmt.Errorf("failed to get stacks: %w", err)
	}

	// All-or-nothing: check the total before mutating anything
	total := 0
	for _, stack := range stacks {
		total += stack.Quantity
	}
	if total < qty {
		log.Debug("Insufficient quantity", "holder", holderID, "item", item.Key, "have", total, "need", qty)
		return false, nil
	}

	remaining := qty
	for _, stack := range stacks {
		if remaining == 0 {
			break
		}
		if stack.Quantity <= remaining {
			if err := tx.DeleteStack(ctx, stack.ID); err != nil {
				return false, fmt.Errorf("failed to delete drained stack: %w", err)
			}
			remaining -= stack.Quantity
		} else {
			if err := tx.UpdateStackQuantity(ctx, stack.ID, stack.Quantity-remaining); err != nil {
				return false, fmt.Errorf("failed to update stack: %w", err)
			}
			remaining = 0
		}
	}

	log.Debug("Items removed", "holder", holderID, "item", item.Key, "quantity", qty)
	return true, nil
}

func (l *ledger) Has(ctx context.Context, tx repository.Tx, holderID string, item *domain.Item, qty int) (bool, error) {
	total, err := l.Count(ctx, tx, holderID, item)
	if err != nil {
		return false, err
	}
	return total >= qty, nil
}

func (l *ledger) Count(ctx context.Context, tx repository.Tx, holderID string, item *domain.Item) (int, error) {
	stacks, err := tx.GetStacksForUpdate(ctx, holderID, item.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to get stacks: %w", err)
	}
	total := 0
	for _, stack := range stacks {
		total += stack.Quantity
	}
	return total, nil
}

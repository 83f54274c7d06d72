package domain

import (
	"fmt"
	"strings"
)

// SettlementStep names one stage of the sale finalization state machine.
type SettlementStep string

const (
	StepInitiated         SettlementStep = "Initiated"
	StepStockReserved     SettlementStep = "StockReserved"
	StepBalanceCredited   SettlementStep = "BalanceCredited"
	StepTransactionLogged SettlementStep = "TransactionLogged"
	StepConfirmationSent  SettlementStep = "ConfirmationSent"
	StepCompleted         SettlementStep = "Completed"
)

// PartialSettlementError reports a settlement that mutated some entities and
// then failed, on a backing store without a multi-entity transaction
// primitive. Completed lists the steps that were applied (after any
// compensation); the caller decides whether to retry.
type PartialSettlementError struct {
	Completed []SettlementStep
	Err       error
}

func (e *PartialSettlementError) Error() string {
	steps := make([]string, len(e.Completed))
	for i, s := range e.Completed {
		steps[i] = string(s)
	}
	return fmt.Sprintf("settlement partially applied (completed: %s): %v", strings.Join(steps, ", "), e.Err)
}

func (e *PartialSettlementError) Unwrap() error {
	return e.Err
}

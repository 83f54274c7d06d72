package response

import "github.com/astralshopid/astral-api/internal/domain"

type SettlementResponse struct {
	Transaction domain.Transaction `json:"transaction"`
}

// PartialSettlementResponse reports a settlement that failed after some
// steps were applied, so the caller can decide whether to retry.
type PartialSettlementResponse struct {
	Error          string                  `json:"error"`
	CompletedSteps []domain.SettlementStep `json:"completed_steps"`
}

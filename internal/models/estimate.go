package models

import (
	"time"

	"github.com/google/uuid"
)

type EstimateType string

const (
	EstimateRough   EstimateType = "rough"
	EstimateInitial EstimateType = "initial"
	EstimateFinal   EstimateType = "final"
)

func (t EstimateType) Valid() bool {
	return t == EstimateRough || t == EstimateInitial || t == EstimateFinal
}

type EstimateStatus string

const (
	EstimateActive     EstimateStatus = "active"
	EstimateSuperseded EstimateStatus = "superseded"
)

// EstimateLineItem is one priced row of an estimate. Amounts are paise.
type EstimateLineItem struct {
	Description string `json:"description"`
	Area        string `json:"area,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Total       int64  `json:"total"`
}

// Estimate is a priced design quote for a project. At most one estimate of a
// given type is active per project; generating a new one supersedes the prior.
// Immutable once a payment references it.
type Estimate struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Type        EstimateType
	LineItems   []EstimateLineItem
	Subtotal    int64
	DiscountPct float64
	DiscountAmt int64
	GSTPct      float64
	GSTAmt      int64
	TotalAmount int64
	Status      EstimateStatus
	CreatedAt   time.Time
}

// UnlockState is derived per project from the set of paid payments. It is
// recomputed on every read and never stored.
type UnlockState struct {
	RendersUnlocked    bool `json:"renders_unlocked"`
	FinalFilesUnlocked bool `json:"final_files_unlocked"`
}

// ComputeUnlockState projects the paid payment set onto the content gates:
// a paid advance unlocks renders, a paid balance or full payment unlocks the
// final files. Pending, failed and refunded rows carry no weight.
func ComputeUnlockState(payments []Payment) UnlockState {
	var state UnlockState
	for _, p := range payments {
		if p.Status != PaymentPaid {
			continue
		}
		switch p.Type {
		case PaymentTypeAdvance:
			state.RendersUnlocked = true
		case PaymentTypeBalance, PaymentTypeFull:
			state.FinalFilesUnlocked = true
		}
	}
	return state
}

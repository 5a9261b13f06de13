package models

import "time"

// Defaults applied to batch-imported holdings with missing fields.
const (
	DefaultHoldingSymbol = "UNKNOWN"
	DefaultHoldingName   = "Unknown Asset"
	ImportedHoldingNotes = "Auto-imported"
)

// Holding is a single investment position owned by one user. It is visible to
// other users only transitively through shared room membership, and mutable
// only by its owner.
type Holding struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Quantity      float64   `json:"quantity"`
	AvgPrice      float64   `json:"avgPrice"`
	CurrentPrice  float64   `json:"currentPrice"`
	Profit        float64   `json:"profit"`
	ProfitPercent float64   `json:"profitPercent"`
	Notes         string    `json:"notes"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HoldingDraft carries the caller-supplied fields of a new holding. Owner and
// timestamps are stamped by the service.
type HoldingDraft struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	AvgPrice      float64 `json:"avgPrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`
	Notes         string  `json:"notes"`
}

// HoldingPatch is a partial update. Nil fields are left untouched so a caller
// can set a value to zero without it being mistaken for "absent".
type HoldingPatch struct {
	Symbol        *string  `json:"symbol"`
	Name          *string  `json:"name"`
	Quantity      *float64 `json:"quantity"`
	AvgPrice      *float64 `json:"avgPrice"`
	CurrentPrice  *float64 `json:"currentPrice"`
	Profit        *float64 `json:"profit"`
	ProfitPercent *float64 `json:"profitPercent"`
	Notes         *string  `json:"notes"`
}

// Apply merges the patch into the holding.
func (h *Holding) Apply(p HoldingPatch) {
	if p.Symbol != nil {
		h.Symbol = *p.Symbol
	}
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Quantity != nil {
		h.Quantity = *p.Quantity
	}
	if p.AvgPrice != nil {
		h.AvgPrice = *p.AvgPrice
	}
	if p.CurrentPrice != nil {
		h.CurrentPrice = *p.CurrentPrice
	}
	if p.Profit != nil {
		h.Profit = *p.Profit
	}
	if p.ProfitPercent != nil {
		h.ProfitPercent = *p.ProfitPercent
	}
	if p.Notes != nil {
		h.Notes = *p.Notes
	}
}

// ScopeKind selects which holdings a read returns.
type ScopeKind int

const (
	// ScopeMine returns only the caller's own holdings.
	ScopeMine ScopeKind = iota
	// ScopeRoom returns holdings of every member of the named room.
	ScopeRoom
)

// HoldingScope is the typed form of the scope/roomCode query parameters.
type HoldingScope struct {
	Kind     ScopeKind
	RoomCode string
}

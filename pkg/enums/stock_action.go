package enums

import "fmt"

// StockAction distinguishes the three mutation semantics the ledger accepts.
// An admin "set to 50", "received 50 more" and "sold 50" are different
// operations with different failure modes, so the intent travels with the
// request instead of being collapsed into a signed delta.
type StockAction string

const (
	StockActionSet      StockAction = "SET"
	StockActionAdd      StockAction = "ADD"
	StockActionSubtract StockAction = "SUBTRACT"
)

var validStockActions = []StockAction{
	StockActionSet,
	StockActionAdd,
	StockActionSubtract,
}

// String implements fmt.Stringer.
func (s StockAction) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockAction.
func (s StockAction) IsValid() bool {
	for _, candidate := range validStockActions {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStockAction converts raw input into a StockAction.
func ParseStockAction(value string) (StockAction, error) {
	for _, candidate := range validStockActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock action %q", value)
}

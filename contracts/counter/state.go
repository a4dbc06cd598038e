package counter

import "github.com/govm-net/counter/core"

// State is the single record kept by a counter instance
type State struct {
	Count int32        `json:"count"`
	Owner core.Address `json:"owner"`
}

// StateKey is the storage key of the State record
const StateKey = "state"

var stateItem = core.NewItem[State](StateKey)

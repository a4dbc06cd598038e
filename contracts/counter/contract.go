// Package counter is an example contract holding a single integer counter.
// Anyone may increment it; only the instantiating account may reset it.
package counter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/version"
)

// Version info for migration tooling
const (
	ContractName    = "govm:counter"
	ContractVersion = "0.1.0"
)

// Instantiate stores the initial count with the sender as owner
func Instantiate(store core.Storage, env core.Env, info core.MessageInfo, msg InstantiateMsg) (*core.Response, error) {
	state := State{
		Count: msg.Count,
		Owner: info.Sender,
	}
	if err := version.Set(store, ContractName, ContractVersion); err != nil {
		return nil, err
	}
	if err := stateItem.Save(store, &state); err != nil {
		return nil, err
	}

	return core.NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("owner", info.Sender.String()).
		AddAttribute("count", strconv.FormatInt(int64(msg.Count), 10)), nil
}

// Execute dispatches a mutating message
func Execute(store core.Storage, env core.Env, info core.MessageInfo, msg ExecuteMsg) (*core.Response, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case msg.Increment != nil:
		return increment(store)
	default:
		return reset(store, info, msg.Reset.Count)
	}
}

// Query dispatches a read-only message and returns the JSON encoded answer
func Query(store core.Storage, env core.Env, msg QueryMsg) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	resp, err := queryCount(store)
	if err != nil {
		return nil, err
	}
	return core.Marshal(resp)
}

func increment(store core.Storage) (*core.Response, error) {
	state, err := stateItem.Update(store, func(state *State) error {
		if state.Count == math.MaxInt32 {
			return fmt.Errorf("%w: cannot increment %d", core.ErrOverflow, state.Count)
		}
		state.Count++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return countResponse("increment", state.Count)
}

func reset(store core.Storage, info core.MessageInfo, count int32) (*core.Response, error) {
	state, err := stateItem.Update(store, func(state *State) error {
		if info.Sender != state.Owner {
			return core.ErrUnauthorized
		}
		state.Count = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return countResponse("reset", state.Count)
}

// countResponse tags the response with action and returns the new count as data
func countResponse(action string, count int32) (*core.Response, error) {
	data, err := core.Marshal(GetCountResponse{Count: count})
	if err != nil {
		return nil, err
	}
	return core.NewResponse().AddAttribute("action", action).SetData(data), nil
}

func queryCount(store core.Storage) (*GetCountResponse, error) {
	state, err := stateItem.Load(store)
	if err != nil {
		return nil, err
	}
	return &GetCountResponse{Count: state.Count}, nil
}

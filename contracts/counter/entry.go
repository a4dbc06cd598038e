package counter

import (
	"github.com/govm-net/counter/core"
)

// Contract adapts the typed entry points to raw JSON messages so the
// engine can route host messages to them.
type Contract struct{}

// New returns the counter contract
func New() *Contract {
	return &Contract{}
}

func (Contract) Instantiate(store core.Storage, env core.Env, info core.MessageInfo, msg []byte) (*core.Response, error) {
	var m InstantiateMsg
	if err := core.Unmarshal(msg, &m); err != nil {
		return nil, err
	}
	return Instantiate(store, env, info, m)
}

func (Contract) Execute(store core.Storage, env core.Env, info core.MessageInfo, msg []byte) (*core.Response, error) {
	var m ExecuteMsg
	if err := core.Unmarshal(msg, &m); err != nil {
		return nil, err
	}
	return Execute(store, env, info, m)
}

func (Contract) Query(store core.Storage, env core.Env, msg []byte) ([]byte, error) {
	var m QueryMsg
	if err := core.Unmarshal(msg, &m); err != nil {
		return nil, err
	}
	return Query(store, env, m)
}

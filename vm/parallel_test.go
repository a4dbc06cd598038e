package vm_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	_ "github.com/govm-net/counter/context/memory"
	"github.com/govm-net/counter/contracts/counter"
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/vm"
)

// TestParallelExecution checks that concurrent increments are serialized
// and none of them is lost.
func TestParallelExecution(t *testing.T) {
	const (
		workers   = 8
		perWorker = 25
	)

	engine, err := vm.NewEngine(vm.DefaultConfig())
	require.NoError(t, err)
	defer engine.Close()

	require.NoError(t, engine.RegisterContract(counter.ContractName, counter.New()))
	codeID, err := engine.StoreCode(counter.ContractName, nil)
	require.NoError(t, err)
	addr, _, err := engine.Instantiate(codeID, "alice", []byte(`{"count":0}`), "parallel")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, (2*workers+1)*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := engine.Execute(addr, "bob", []byte(`{"increment":{}}`)); err != nil {
					errs <- err
				}
				if _, err := engine.Query(addr, []byte(`{"get_count":{}}`)); err != nil {
					errs <- err
				}
			}
		}()
	}
	// readers share the backend with the writers
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < perWorker; j++ {
			if _, err := engine.Events(addr); err != nil {
				errs <- err
			}
			_ = engine.GetContext().BlockHeight()
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	data, err := engine.Query(addr, []byte(`{"get_count":{}}`))
	require.NoError(t, err)
	var resp counter.GetCountResponse
	require.NoError(t, core.Unmarshal(data, &resp))
	require.Equal(t, int32(workers*perWorker), resp.Count)

	events, err := engine.Events(addr)
	require.NoError(t, err)
	require.Len(t, events, 1+workers*perWorker)
}

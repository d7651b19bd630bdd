package capi_test

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/sghaida/hostapi/capi"
	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Shared fixtures
// -----------------------------------------------------------------------------

const storageID = "storage"

type (
	readFn  = func(key []byte) ([]byte, bool)
	writeFn = func(key, value []byte) bool
)

// newRegistry returns an isolated registry that does not log.
func newRegistry() *capi.Registry {
	return capi.NewRegistry(capi.WithLogger(slog.New(slog.DiscardHandler)))
}

// declareStorage declares the two-function storage interface used across tests.
func declareStorage(t *testing.T, reg *capi.Registry) *capi.Interface {
	t.Helper()

	iface, err := reg.Declare(storageID,
		capi.Doc("Key/value storage"),
		capi.Func[readFn]("Read", "Read the value stored under key"),
		capi.Func[writeFn]("Write", "Store value under key"),
	)
	require.NoError(t, err)
	return iface
}

// memTable is an in-memory storage implementation. It is safe for concurrent use.
type memTable struct {
	mu     sync.Mutex
	items  map[string][]byte
	writes int
}

func newMemTable() *memTable { return &memTable{items: map[string][]byte{}} }

func (m *memTable) Read(key []byte) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[string(key)]
	return v, ok
}

func (m *memTable) Write(key, value []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.items[string(key)] = value
	return true
}

// Size is a helper method that is not part of the interface.
func (m *memTable) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// storageBlock builds a complete block for the storage interface.
func storageBlock(m *memTable) *capi.Block {
	return capi.Implement(storageID).
		Func("Read", m.Read).
		Func("Write", m.Write)
}

// requirePanicContains asserts fn panics and the panic message contains wantSub.
func requirePanicContains(t *testing.T, wantSub string, fn func()) {
	t.Helper()

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)

		var message string
		switch v := recovered.(type) {
		case error:
			message = v.Error()
		case string:
			message = v
		default:
			message = fmt.Sprintf("%v", v)
		}
		require.Contains(t, message, wantSub)
	}()

	fn()
}

// recoverPanic runs fn and returns its panic value.
func recoverPanic(fn func()) (recovered any) {
	defer func() { recovered = recover() }()
	fn()
	return nil
}

package storage

import (
	"context"
	"errors"
)

// StoreState loads the serialized reference nutrition data. Implementations
// are read-only; the core never writes reference data back.
type StoreState interface {
	Load(ctx context.Context) ([]byte, error)
}

// TestStoreState is a simple in-memory implementation for testing
type TestStoreState struct {
	data []byte
	err  error
}

func NewTestStoreState(data []byte) *TestStoreState {
	return &TestStoreState{data: data}
}

func NewTestStoreStateWithError() *TestStoreState {
	return &TestStoreState{err: errors.New("not found")}
}

func (t *TestStoreState) Load(ctx context.Context) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.data, nil
}

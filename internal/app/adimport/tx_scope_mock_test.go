package adimport

import (
	"context"
	"sync"
)

var _ TxScope = &txScopeMock{}

type txScopeMock struct {
	RunInScopeFunc func(ctx context.Context, discard bool, fn func(ctx context.Context) error) error

	calls struct {
		RunInScope []struct {
			Ctx     context.Context
			Discard bool
		}
	}
	lockRunInScope sync.RWMutex
}

func (mock *txScopeMock) RunInScope(ctx context.Context, discard bool, fn func(ctx context.Context) error) error {
	if mock.RunInScopeFunc == nil {
		panic("txScopeMock.RunInScopeFunc: method is nil but TxScope.RunInScope was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Discard bool
	}{Ctx: ctx, Discard: discard}
	mock.lockRunInScope.Lock()
	mock.calls.RunInScope = append(mock.calls.RunInScope, callInfo)
	mock.lockRunInScope.Unlock()
	return mock.RunInScopeFunc(ctx, discard, fn)
}

func (mock *txScopeMock) RunInScopeCalls() []struct {
	Ctx     context.Context
	Discard bool
} {
	mock.lockRunInScope.RLock()
	calls := mock.calls.RunInScope
	mock.lockRunInScope.RUnlock()
	return calls
}

// passthroughScope runs fn directly, like a transaction that always commits.
func passthroughScope() *txScopeMock {
	return &txScopeMock{
		RunInScopeFunc: func(ctx context.Context, _ bool, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

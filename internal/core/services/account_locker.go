package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/rivanna_bank_ledger/internal/apperrors"
)

// accountLocker grants exclusive access to accounts within this process.
// Entries are reference counted so the map only holds accounts in use.
type accountLocker struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	sem  chan struct{}
	refs int
}

func newAccountLocker() *accountLocker {
	return &accountLocker{locks: make(map[string]*accountLock)}
}

// acquire locks every account in ascending id order and returns the release func.
// If ctx ends first, nothing remains locked and ErrBusy is returned.
func (l *accountLocker) acquire(ctx context.Context, accountIDs ...string) (func(), error) {
	ids := sortedUnique(accountIDs)
	held := make([]*accountLock, 0, len(ids))
	heldIDs := make([]string, 0, len(ids))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i].sem
			l.unref(heldIDs[i])
		}
	}

	for _, id := range ids {
		lk := l.ref(id)
		select {
		case lk.sem <- struct{}{}:
			held = append(held, lk)
			heldIDs = append(heldIDs, id)
		case <-ctx.Done():
			l.unref(id)
			release()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: account %s", apperrors.ErrBusy, id)
			}
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *accountLocker) ref(id string) *accountLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &accountLock{sem: make(chan struct{}, 1)}
		l.locks[id] = lk
	}
	lk.refs++
	return lk
}

func (l *accountLocker) unref(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[id]
	if !ok {
		return
	}
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, id)
	}
}

// size reports how many accounts currently have waiters or holders.
func (l *accountLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func sortedUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Copyright (c) 2026, The meshkit Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshkit

// Lock implements the "locked while an iterator is active" rule every
// Loader follows (spec.md §3, §5). It is not a mutex: meshkit's core is
// single-threaded cooperative, so Lock rejects reentrant use rather than
// serializing it.
type Lock struct {
	locked bool
}

// Acquire fails with Kind=Locked if already locked, otherwise locks and
// succeeds. op is used as the returned Error's operation name.
func (l *Lock) Acquire(op string) error {
	if l.locked {
		return NewError(Locked, op, errf("a load or write is already in progress"))
	}
	l.locked = true
	return nil
}

// Release unlocks. It is a no-op if not currently locked.
func (l *Lock) Release() { l.locked = false }

// Locked reports whether the lock is currently held.
func (l *Lock) Locked() bool { return l.locked }

// RequireUnlocked returns a Kind=Locked error if locked, naming op as the
// attempted operation. Configuration mutators on a Loader call this
// before taking effect.
func (l *Lock) RequireUnlocked(op string) error {
	if l.locked {
		return NewError(Locked, op, errf("cannot be changed while locked"))
	}
	return nil
}

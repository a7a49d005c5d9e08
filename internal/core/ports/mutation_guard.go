package ports

import "context"

// MutationGuard de-duplicates in-flight mutations. Acquire reports true when
// the caller holds the slot for (requester, op, target); false means an
// identical mutation is already in flight and the request must be rejected.
// The slot expires on its own after a short TTL; there is no release.
type MutationGuard interface {
	Acquire(ctx context.Context, requester, op, target string) (bool, error)
}

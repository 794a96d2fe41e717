// Package testutil provides helpers shared by the ledger's integration
// tests: deterministic ids, callers and event recorders.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
)

var testNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// NewTestUUID generates a deterministic UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(testNamespace, []byte(seed))
}

// AdminCaller returns an administrator caller with a fixed id.
func AdminCaller() identity.Caller {
	return identity.Caller{
		UserID:   NewTestUUID("admin"),
		Username: "admin",
		Role:     identity.RoleAdmin,
	}
}

// OwnerCaller returns an owner caller whose id is derived from name.
func OwnerCaller(name string) identity.Caller {
	return identity.Caller{
		UserID:   NewTestUUID("owner:" + name),
		Username: name,
		Role:     identity.RoleOwner,
	}
}

// ContextWithTimeout returns a context cancelled when the test ends or
// after timeout, whichever comes first.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

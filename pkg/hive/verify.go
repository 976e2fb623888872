package hive

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Verifier checks that an Aura database accepts the given credentials.
type Verifier interface {
	Verify(ctx context.Context, url, username, password string) error
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, url, username, password string) error

// Verify implements Verifier.
func (f VerifierFunc) Verify(ctx context.Context, url, username, password string) error {
	return f(ctx, url, username, password)
}

// Neo4jVerifier opens a driver against the Aura instance and checks
// connectivity.
type Neo4jVerifier struct {
	Timeout time.Duration
}

// Verify implements Verifier.
func (v Neo4jVerifier) Verify(ctx context.Context, url, username, password string) error {
	timeout := v.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return fmt.Errorf("open driver: %w", err)
	}
	defer driver.Close(ctx)

	return driver.VerifyConnectivity(ctx)
}

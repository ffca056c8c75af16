package remote

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// Set STREAMIZ_TEST_DATABASE_URL to a disposable database to run these.
func setupPostgres(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv("STREAMIZ_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("STREAMIZ_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	p, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	_, err = p.pool.Exec(ctx, `TRUNCATE movies, tv_shows`)
	require.NoError(t, err)
	return p
}

func TestPostgres_Contract(t *testing.T) {
	testRemoteContract(t, setupPostgres(t))
}

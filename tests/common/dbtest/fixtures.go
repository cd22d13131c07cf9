//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestResource inserts a resource with the given counters and returns its id.
func CreateTestResource(t *testing.T, db DBLike, ownerID uuid.UUID, capacity, committed int, unitPriceCents int64) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO resources (id, owner_id, name, capacity, committed, unit_price_cents)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, ownerID, "Room "+id.String()[:8], capacity, committed, unitPriceCents)
	require.NoError(t, err)

	return id
}

// CreateTestHold inserts a holding reservation created at createdAt and bumps the
// resource counter in the same statement batch, keeping committed equal to the holds.
func CreateTestHold(t *testing.T, db DBLike, resourceID, requesterID uuid.UUID, quantity int, status string, paymentRef *string, createdAt time.Time) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	_, err := db.Exec(ctx,
		`INSERT INTO reservations (id, resource_id, requester_id, quantity, status, payment_ref, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		id, resourceID, requesterID, quantity, status, paymentRef, createdAt)
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		`UPDATE resources SET committed = committed + $2, version = version + 1 WHERE id = $1`,
		resourceID, quantity)
	require.NoError(t, err)

	return id
}

type ResourceCounters struct {
	Capacity  int
	Committed int
	Version   int64
}

func GetResourceCounters(t *testing.T, db DBLike, id uuid.UUID) ResourceCounters {
	t.Helper()

	var c ResourceCounters
	err := db.QueryRow(context.Background(),
		`SELECT capacity, committed, version FROM resources WHERE id = $1`, id).
		Scan(&c.Capacity, &c.Committed, &c.Version)
	require.NoError(t, err)
	return c
}

func GetReservationStatus(t *testing.T, db DBLike, id uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), `SELECT status FROM reservations WHERE id = $1`, id).Scan(&status)
	require.NoError(t, err)
	return status
}

// SumCommittedQuantity adds up quantities that should be reflected in resources.committed.
func SumCommittedQuantity(t *testing.T, db DBLike, resourceID uuid.UUID) int {
	t.Helper()

	var sum int
	err := db.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0)::int FROM reservations
		 WHERE resource_id = $1 AND status IN ('pending_hold', 'confirmed', 'payment_failed', 'completed')`,
		resourceID).Scan(&sum)
	require.NoError(t, err)
	return sum
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every application table.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"seatmap/common/contract"
	"seatmap/model"
	"time"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNoSnapshot        = errors.New("no events snapshot archived")
	ErrSnapshotUnchanged = errors.New("events snapshot unchanged")
)

const (
	createTableQuery = `CREATE TABLE IF NOT EXISTS event_snapshots (
	id          BIGSERIAL PRIMARY KEY,
	token       TEXT        NOT NULL,
	payload     JSONB       NOT NULL,
	event_count INTEGER     NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	insertSnapshotQuery = `INSERT INTO event_snapshots (token, payload, event_count)
SELECT $1::text, $2::jsonb, $3::integer
WHERE NOT EXISTS (
	SELECT 1
	FROM (SELECT payload FROM event_snapshots ORDER BY id DESC LIMIT 1) latest
	WHERE latest.payload = $2::jsonb
)
RETURNING id, created_at`

	pruneSnapshotsQuery = `DELETE FROM event_snapshots
WHERE id NOT IN (SELECT id FROM event_snapshots ORDER BY id DESC LIMIT $1)`

	selectLatestSnapshotQuery = `SELECT id, token, payload, event_count, created_at
FROM event_snapshots
ORDER BY id DESC
LIMIT 1`
)

type Snapshot struct {
	Id         int64
	Token      string
	Events     []model.Event
	EventCount int32
	CreatedAt  time.Time
}

// Repository archives successfully loaded events documents so that the last
// good copy can be served when the source is unreachable. A document equal to
// the latest snapshot is not stored again.
type Repository struct {
	Db contract.DbConn
	// Keep is how many snapshots survive a save; 0 keeps all of them.
	Keep int
}

func (r Repository) Migrate(ctx context.Context) error {
	if _, err := r.Db.Exec(ctx, createTableQuery); err != nil {
		return fmt.Errorf("create event_snapshots: %w", err)
	}

	return nil
}

func (r Repository) Save(ctx context.Context, token string, events []model.Event) (Snapshot, error) {
	if events == nil {
		events = []model.Event{}
	}

	payload, err := json.Marshal(events)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
	}

	snapshot := Snapshot{
		Token:      token,
		Events:     events,
		EventCount: int32(len(events)),
	}

	err = r.Db.QueryRow(ctx, insertSnapshotQuery, token, string(payload), snapshot.EventCount).
		Scan(&snapshot.Id, &snapshot.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrSnapshotUnchanged
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	if r.Keep > 0 {
		if _, err := r.Db.Exec(ctx, pruneSnapshotsQuery, r.Keep); err != nil {
			return snapshot, fmt.Errorf("prune snapshots: %w", err)
		}
	}

	return snapshot, nil
}

func (r Repository) Latest(ctx context.Context) (Snapshot, error) {
	var (
		snapshot Snapshot
		payload  []byte
	)

	err := r.Db.QueryRow(ctx, selectLatestSnapshotQuery).
		Scan(&snapshot.Id, &snapshot.Token, &payload, &snapshot.EventCount, &snapshot.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("select latest snapshot: %w", err)
	}

	snapshot.Events, err = model.DecodeEvents(payload)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %d: %w", snapshot.Id, err)
	}

	return snapshot, nil
}

package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SnapshotInfo describes a stored snapshot without its payload.
type SnapshotInfo struct {
	Name      string
	Version   int
	UpdatedAt time.Time
}

// SaveSnapshot serializes payload as JSON under the store name. The version
// is a serialization contract marker; readers reject versions they do not
// understand.
func (s *Store) SaveSnapshot(ctx context.Context, name string, version int, payload any) error {
	if name == "" {
		return errors.New("snapshot name required")
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal snapshot %q: %w", name, err)
	}
	return s.execWithRetry(ctx, `
		INSERT INTO snapshots (name, version, payload, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		name, version, string(encoded))
}

// LoadSnapshot rehydrates a snapshot into target. The second return reports
// whether a snapshot existed; a version mismatch is an error.
func (s *Store) LoadSnapshot(ctx context.Context, name string, version int, target any) (bool, error) {
	var (
		stored  int
		payload string
	)
	err := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT version, payload FROM snapshots WHERE name = ?", name).Scan(&stored, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if stored != version {
		return false, fmt.Errorf("snapshot %q has version %d, expected %d", name, stored, version)
	}
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return false, fmt.Errorf("decode snapshot %q: %w", name, err)
	}
	return true, nil
}

// DeleteSnapshot removes a snapshot by name.
func (s *Store) DeleteSnapshot(ctx context.Context, name string) error {
	return s.execWithRetry(ctx, "DELETE FROM snapshots WHERE name = ?", name)
}

// ListSnapshots returns metadata for every stored snapshot.
func (s *Store) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT name, version, updated_at FROM snapshots ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var (
			info      SnapshotInfo
			updatedAt string
		)
		if err := rows.Scan(&info.Name, &info.Version, &updatedAt); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse("2006-01-02 15:04:05", updatedAt); err == nil {
			info.UpdatedAt = parsed
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

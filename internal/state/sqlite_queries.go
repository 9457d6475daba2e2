package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

// SaveQuery stores a query under its client id, replacing any previous
// version. An empty tabID leaves the query unattached.
func (s *SQLiteStore) SaveQuery(ctx context.Context, userID int64, tabID core.ID, query core.Query) error {
	if s.db == nil {
		return ErrDatabaseNotOpened
	}

	clientID := query.ID()
	if clientID == "" {
		return errors.New("query has no id")
	}

	var tab sql.NullInt64
	if tabID != "" {
		key, err := tabKey(tabID)
		if err != nil {
			return err
		}
		tab = sql.NullInt64{Int64: key, Valid: true}
	}

	payload, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}
	status, _ := query["status"].(string)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO query (client_id, user_id, tab_state_id, status, payload) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(client_id) DO UPDATE SET
			tab_state_id = excluded.tab_state_id,
			status = excluded.status,
			payload = excluded.payload,
			changed_on = CURRENT_TIMESTAMP`,
		clientID, userID, tab, status, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save query: %w", err)
	}
	return nil
}

// ListQueries returns the user's queries keyed by client id. A non-empty
// tabID restricts the result to queries run from that tab.
func (s *SQLiteStore) ListQueries(ctx context.Context, userID int64, tabID core.ID) (map[string]core.Query, error) {
	if s.db == nil {
		return nil, ErrDatabaseNotOpened
	}

	query := `SELECT client_id, payload FROM query WHERE user_id = ?`
	args := []any{userID}
	if tabID != "" {
		key, err := tabKey(tabID)
		if err != nil {
			return nil, err
		}
		query += ` AND tab_state_id = ?`
		args = append(args, key)
	}

	rows, err := s.db.QueryContext(ctx, query+` ORDER BY changed_on`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	queries := make(map[string]core.Query)
	for rows.Next() {
		var clientID, payload string
		if err := rows.Scan(&clientID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}

		var q core.Query
		if err := json.Unmarshal([]byte(payload), &q); err != nil {
			s.logger.Warn("skipping unreadable query", "client_id", clientID, "error", err)
			continue
		}
		queries[clientID] = q
	}
	return queries, rows.Err()
}

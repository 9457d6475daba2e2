package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

const tabStateColumns = `id, label, active, database_id, catalog, schema, sql, query_limit,
	latest_query_id, autorun, template_params, hide_left_bar, saved_query_id, extra_json`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTabState(row rowScanner) (*core.TabState, error) {
	var (
		tab         core.TabState
		id          int64
		databaseID  sql.NullInt64
		catalog     sql.NullString
		schema      sql.NullString
		latestQuery sql.NullString
		savedQuery  sql.NullInt64
		extraJSON   sql.NullString
	)

	err := row.Scan(&id, &tab.Label, &tab.Active, &databaseID, &catalog, &schema, &tab.SQL, &tab.QueryLimit,
		&latestQuery, &tab.Autorun, &tab.TemplateParams, &tab.HideLeftBar, &savedQuery, &extraJSON)
	if err != nil {
		return nil, err
	}

	tab.ID = core.IDFromInt64(id)
	tab.DatabaseID = int64Ptr(databaseID)
	tab.Catalog = stringPtr(catalog)
	tab.Schema = stringPtr(schema)
	if latestQuery.Valid {
		tab.LatestQuery = &core.QueryRef{ID: latestQuery.String}
	}
	if savedQuery.Valid {
		tab.SavedQuery = &core.SavedQueryRef{ID: savedQuery.Int64}
	}
	if extraJSON.Valid && extraJSON.String != "" {
		var extra core.TabExtra
		if err := json.Unmarshal([]byte(extraJSON.String), &extra); err != nil {
			return nil, fmt.Errorf("invalid extra_json for tab %d: %w", id, err)
		}
		tab.ExtraJSON = &extra
	}
	return &tab, nil
}

// tabColumns returns the editable column values of a tab, in update order.
func tabColumns(tab *core.TabState) ([]any, error) {
	extra, err := nullJSON(tab.ExtraJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extra_json: %w", err)
	}

	var latestQuery sql.NullString
	if tab.LatestQuery != nil {
		latestQuery = sql.NullString{String: tab.LatestQuery.ID, Valid: true}
	}
	var savedQuery sql.NullInt64
	if tab.SavedQuery != nil {
		savedQuery = sql.NullInt64{Int64: tab.SavedQuery.ID, Valid: true}
	}

	return []any{
		tab.Label, nullInt64(tab.DatabaseID), nullString(tab.Catalog), nullString(tab.Schema),
		tab.SQL, tab.QueryLimit, latestQuery, tab.Autorun, tab.TemplateParams, tab.HideLeftBar,
		savedQuery, extra,
	}, nil
}

// CreateTabState inserts a tab for the user and makes it the active one.
// The assigned id is written back to tab.
func (s *SQLiteStore) CreateTabState(ctx context.Context, userID int64, tab *core.TabState) error {
	if s.db == nil {
		return ErrDatabaseNotOpened
	}

	cols, err := tabColumns(tab)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE tab_state SET active = 0 WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to deactivate tabs: %w", err)
		}

		args := append([]any{userID}, cols...)
		result, err := tx.ExecContext(ctx,
			`INSERT INTO tab_state (user_id, label, database_id, catalog, schema, sql, query_limit,
				latest_query_id, autorun, template_params, hide_left_bar, saved_query_id, extra_json, active)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			args...,
		)
		if err != nil {
			return fmt.Errorf("failed to create tab state: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read tab state id: %w", err)
		}
		tab.ID = core.IDFromInt64(id)
		tab.Active = true
		return nil
	})
}

// GetTabState retrieves a tab with its pinned tables.
func (s *SQLiteStore) GetTabState(ctx context.Context, id core.ID) (*core.TabState, error) {
	if s.db == nil {
		return nil, ErrDatabaseNotOpened
	}

	key, err := tabKey(id)
	if err != nil {
		return nil, err
	}

	tab, err := scanTabState(s.db.QueryRowContext(ctx,
		`SELECT `+tabStateColumns+` FROM tab_state WHERE id = ?`, key))
	if isNoRows(err) {
		return nil, fmt.Errorf("%w: %s", ErrTabStateNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tab state: %w", err)
	}

	tab.TableSchemas, err = s.ListTableSchemas(ctx, tab.ID)
	if err != nil {
		return nil, err
	}
	return tab, nil
}

// GetActiveTabState returns the user's active tab, or nil if none is active.
func (s *SQLiteStore) GetActiveTabState(ctx context.Context, userID int64) (*core.TabState, error) {
	if s.db == nil {
		return nil, ErrDatabaseNotOpened
	}

	tab, err := scanTabState(s.db.QueryRowContext(ctx,
		`SELECT `+tabStateColumns+` FROM tab_state WHERE user_id = ? AND active = 1 ORDER BY id DESC LIMIT 1`, userID))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active tab state: %w", err)
	}

	tab.TableSchemas, err = s.ListTableSchemas(ctx, tab.ID)
	if err != nil {
		return nil, err
	}
	return tab, nil
}

// ListTabStates returns the user's tabs in creation order.
func (s *SQLiteStore) ListTabStates(ctx context.Context, userID int64) ([]core.TabRecord, error) {
	if s.db == nil {
		return nil, ErrDatabaseNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label FROM tab_state WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tab states: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tabs := []core.TabRecord{}
	for rows.Next() {
		var (
			id  int64
			rec core.TabRecord
		)
		if err := rows.Scan(&id, &rec.Label); err != nil {
			return nil, fmt.Errorf("failed to scan tab state: %w", err)
		}
		rec.ID = core.IDFromInt64(id)
		tabs = append(tabs, rec)
	}
	return tabs, rows.Err()
}

// ActivateTabState makes id the user's only active tab.
func (s *SQLiteStore) ActivateTabState(ctx context.Context, userID int64, id core.ID) error {
	if s.db == nil {
		return ErrDatabaseNotOpened
	}

	key, err := tabKey(id)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE tab_state SET active = 1, changed_on = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?`, key, userID)
		if err != nil {
			return fmt.Errorf("failed to activate tab state: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrTabStateNotFound, id)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE tab_state SET active = 0 WHERE user_id = ? AND id != ?`, userID, key); err != nil {
			return fmt.Errorf("failed to deactivate tabs: %w", err)
		}
		return nil
	})
}

// UpdateTabState writes the editable fields of tab.
func (s *SQLiteStore) UpdateTabState(ctx context.Context, tab *core.TabState) error {
	if s.db == nil {
		return ErrDatabaseNotOpened
	}

	key, err := tabKey(tab.ID)
	if err != nil {
		return err
	}
	cols, err := tabColumns(tab)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE tab_state SET label = ?, database_id = ?, catalog = ?, schema = ?, sql = ?, query_limit = ?,
			latest_query_id = ?, autorun = ?, template_params = ?, hide_left_bar = ?, saved_query_id = ?,
			extra_json = ?, changed_on = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		append(cols, key)...,
	)
	if err != nil {
		return fmt.Errorf("failed to update tab state: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrTabStateNotFound, tab.ID)
	}
	return nil
}

// DeleteTabState removes a tab with its pinned tables. If it was active,
// the most recently created remaining tab becomes active.
func (s *SQLiteStore) DeleteTabState(ctx context.Context, userID int64, id core.ID) error {
	if s.db == nil {
		return ErrDatabaseNotOpened
	}

	key, err := tabKey(id)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM table_schema WHERE tab_state_id = ?`, key); err != nil {
			return fmt.Errorf("failed to delete table schemas: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM tab_state WHERE id = ? AND user_id = ?`, key, userID)
		if err != nil {
			return fmt.Errorf("failed to delete tab state: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrTabStateNotFound, id)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE tab_state SET active = 1
			 WHERE id = (SELECT MAX(id) FROM tab_state WHERE user_id = ?)
			   AND NOT EXISTS (SELECT 1 FROM tab_state WHERE user_id = ? AND active = 1)`,
			userID, userID)
		if err != nil {
			return fmt.Errorf("failed to activate remaining tab: %w", err)
		}
		return nil
	})
}

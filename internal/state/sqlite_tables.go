package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

// AddTableSchema pins a table to a tab. A nil Description is stored as
// NULL, meaning the metadata has not been fetched yet.
func (s *SQLiteStore) AddTableSchema(ctx context.Context, schema *core.TableSchema) error {
	if s.db == nil {
		return ErrDatabaseNotOpened
	}

	tabID, err := tabKey(schema.TabStateID)
	if err != nil {
		return err
	}

	var description sql.NullString
	if schema.Description != nil {
		data, err := json.Marshal(schema.Description)
		if err != nil {
			return fmt.Errorf("failed to encode description: %w", err)
		}
		description = sql.NullString{String: string(data), Valid: true}
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO table_schema (tab_state_id, database_id, catalog, schema, table_name, description, expanded)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tabID, nullInt64(schema.DatabaseID), nullString(schema.Catalog), schema.Schema, schema.Table,
		description, schema.Expanded,
	)
	if err != nil {
		return fmt.Errorf("failed to add table schema: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read table schema id: %w", err)
	}
	schema.ID = core.IDFromInt64(id)
	return nil
}

// ListTableSchemas returns the tables pinned to a tab in insertion order.
func (s *SQLiteStore) ListTableSchemas(ctx context.Context, tabID core.ID) ([]core.TableSchema, error) {
	if s.db == nil {
		return nil, ErrDatabaseNotOpened
	}

	key, err := tabKey(tabID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tab_state_id, database_id, catalog, schema, table_name, description, expanded
		 FROM table_schema WHERE tab_state_id = ? ORDER BY id`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list table schemas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	schemas := []core.TableSchema{}
	for rows.Next() {
		var (
			ts          core.TableSchema
			id, owner   int64
			databaseID  sql.NullInt64
			catalog     sql.NullString
			description sql.NullString
		)
		if err := rows.Scan(&id, &owner, &databaseID, &catalog, &ts.Schema, &ts.Table, &description, &ts.Expanded); err != nil {
			return nil, fmt.Errorf("failed to scan table schema: %w", err)
		}

		ts.ID = core.IDFromInt64(id)
		ts.TabStateID = core.IDFromInt64(owner)
		ts.DatabaseID = int64Ptr(databaseID)
		ts.Catalog = stringPtr(catalog)
		if description.Valid {
			if err := json.Unmarshal([]byte(description.String), &ts.Description); err != nil {
				return nil, fmt.Errorf("invalid description for table schema %d: %w", id, err)
			}
		}
		schemas = append(schemas, ts)
	}
	return schemas, rows.Err()
}

// SetTableSchemaExpanded records the disclosure state of a table pinned to
// tabID.
func (s *SQLiteStore) SetTableSchemaExpanded(ctx context.Context, tabID, id core.ID, expanded bool) error {
	if s.db == nil {
		return ErrDatabaseNotOpened
	}

	owner, err := tabKey(tabID)
	if err != nil {
		return err
	}
	key, err := id.Int64()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrTableSchemaNotFound, id)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE table_schema SET expanded = ? WHERE id = ? AND tab_state_id = ?`, expanded, key, owner)
	if err != nil {
		return fmt.Errorf("failed to update table schema: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrTableSchemaNotFound, id)
	}
	return nil
}

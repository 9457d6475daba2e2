package core

import (
	"context"
	"errors"
)

// Store defines the server-side persistence operations for SQL Lab state.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)

	// Database operations
	CreateDatabase(ctx context.Context, db *Database) error
	ListDatabases(ctx context.Context) (map[string]Database, error)

	// Tab state operations
	CreateTabState(ctx context.Context, userID int64, tab *TabState) error
	GetTabState(ctx context.Context, id ID) (*TabState, error)
	GetActiveTabState(ctx context.Context, userID int64) (*TabState, error)
	ListTabStates(ctx context.Context, userID int64) ([]TabRecord, error)
	ActivateTabState(ctx context.Context, userID int64, id ID) error
	UpdateTabState(ctx context.Context, tab *TabState) error
	DeleteTabState(ctx context.Context, userID int64, id ID) error

	// Table schema operations
	AddTableSchema(ctx context.Context, schema *TableSchema) error
	ListTableSchemas(ctx context.Context, tabID ID) ([]TableSchema, error)
	SetTableSchemaExpanded(ctx context.Context, tabID, id ID, expanded bool) error

	// Query operations
	SaveQuery(ctx context.Context, userID int64, tabID ID, query Query) error
	ListQueries(ctx context.Context, userID int64, tabID ID) (map[string]Query, error)

	// LoadBootstrap assembles the server bootstrap payload for a user.
	LoadBootstrap(ctx context.Context, userID int64, common CommonPayload) (*BootstrapPayload, error)
}

// LegacyStorage is read/delete access to the browser-persisted key-value
// store that predates server-side persistence.
type LegacyStorage interface {
	// GetItem returns the value stored under key and whether it exists.
	GetItem(key string) (string, bool, error)
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(key string) error
}

// Store errors.
var (
	ErrDatabaseNotOpened = errors.New("database not opened")
	ErrTabStateNotFound  = errors.New("tab state not found")
	ErrUserNotFound      = errors.New("user not found")

	ErrTableSchemaNotFound = errors.New("table schema not found")
)

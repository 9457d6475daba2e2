package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

// CreateUser inserts a user. A zero UserID is assigned by the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *core.User) error {
	if s.db == nil {
		return ErrDatabaseNotOpened
	}

	var id any
	if user.UserID != 0 {
		id = user.UserID
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, first_name, last_name, email) VALUES (?, ?, ?, ?, ?)`,
		id, user.Username, user.FirstName, user.LastName, user.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if user.UserID == 0 {
		user.UserID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read user id: %w", err)
		}
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*core.User, error) {
	if s.db == nil {
		return nil, ErrDatabaseNotOpened
	}

	user := &core.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, first_name, last_name, email FROM users WHERE id = ?`, id,
	).Scan(&user.UserID, &user.Username, &user.FirstName, &user.LastName, &user.Email)

	if isNoRows(err) {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all users ordered by id.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]core.User, error) {
	if s.db == nil {
		return nil, ErrDatabaseNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, first_name, last_name, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := []core.User{}
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.UserID, &u.Username, &u.FirstName, &u.LastName, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// --- Database operations ---

// CreateDatabase registers a database connection.
func (s *SQLiteStore) CreateDatabase(ctx context.Context, db *core.Database) error {
	if s.db == nil {
		return ErrDatabaseNotOpened
	}

	var id any
	if db.ID != 0 {
		id = db.ID
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO dbs (id, database_name, backend, allow_run_async, expose_in_sqllab) VALUES (?, ?, ?, ?, ?)`,
		id, db.DatabaseName, db.Backend, db.AllowRunAsync, db.ExposeInSQLLab,
	)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if db.ID == 0 {
		db.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read database id: %w", err)
		}
	}
	return nil
}

// ListDatabases returns the databases exposed in SQL Lab, keyed by id.
func (s *SQLiteStore) ListDatabases(ctx context.Context) (map[string]core.Database, error) {
	if s.db == nil {
		return nil, ErrDatabaseNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, database_name, backend, allow_run_async, expose_in_sqllab
		 FROM dbs WHERE expose_in_sqllab = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	databases := make(map[string]core.Database)
	for rows.Next() {
		var db core.Database
		if err := rows.Scan(&db.ID, &db.DatabaseName, &db.Backend, &db.AllowRunAsync, &db.ExposeInSQLLab); err != nil {
			return nil, fmt.Errorf("failed to scan database: %w", err)
		}
		databases[strconv.FormatInt(db.ID, 10)] = db
	}
	return databases, rows.Err()
}

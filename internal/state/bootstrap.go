package state

import (
	"context"

	"github.com/leapstack-labs/sqllab/pkg/core"
)

// LoadBootstrap assembles the server bootstrap payload for a user: every
// tab record, the active tab in full, exposed databases and the queries
// run from the active tab.
func (s *SQLiteStore) LoadBootstrap(ctx context.Context, userID int64, common core.CommonPayload) (*core.BootstrapPayload, error) {
	if s.db == nil {
		return nil, ErrDatabaseNotOpened
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tabs, err := s.ListTabStates(ctx, userID)
	if err != nil {
		return nil, err
	}

	active, err := s.GetActiveTabState(ctx, userID)
	if err != nil {
		return nil, err
	}

	databases, err := s.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}

	queries := map[string]core.Query{}
	if active != nil {
		queries, err = s.ListQueries(ctx, userID, active.ID)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("loaded bootstrap payload",
		"user_id", userID,
		"tabs", len(tabs),
		"active_tab", activeID(active),
		"queries", len(queries))

	return &core.BootstrapPayload{
		Common:      common,
		ActiveTab:   active,
		TabStateIDs: tabs,
		Databases:   databases,
		Queries:     queries,
		User:        user,
	}, nil
}

func activeID(tab *core.TabState) string {
	if tab == nil {
		return ""
	}
	return tab.ID.String()
}

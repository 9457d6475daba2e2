package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/sqllab/internal/config"
	"github.com/leapstack-labs/sqllab/internal/toast"
	"github.com/leapstack-labs/sqllab/pkg/core"
)

// DefaultSouthPaneTab is the results panel tab selected on load.
const DefaultSouthPaneTab = "Results"

// Options configures Build. The zero value is usable.
type Options struct {
	// Legacy is the browser-persisted store. Nil means there is none.
	Legacy core.LegacyStorage
	// Toasts converts flash messages into toasts. Defaults to toast.FromFlashMessages.
	Toasts func([]core.FlashMessage) []core.Toast
	// Now stamps the update markers. Defaults to time.Now.
	Now func() time.Time
	// DefaultSQL seeds placeholder editors. Defaults to config.DefaultSQL.
	DefaultSQL string
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Toasts == nil {
		o.Toasts = toast.FromFlashMessages
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.DefaultSQL == "" {
		o.DefaultSQL = config.DefaultSQL
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Result is the outcome of Build.
type Result struct {
	State *core.InitialState
	// LegacyCleared reports that the legacy slot was found already migrated
	// and removed.
	LegacyCleared bool
}

// workspace is the state carried between stages.
type workspace struct {
	editors collection[core.QueryEditor]
	tables  collection[core.Table]
	queries map[string]core.Query
	history []core.ID
	unsaved core.Patch
}

// Build computes the initial workspace state from the server payload and the
// legacy store in opts.
//
// A legacy slot that is not JSON or lacks the SQL Lab shape is ignored, and
// malformed entries inside a well-shaped slot are skipped individually.
// The only error is a failure to clear an already-migrated legacy slot;
// Result.State is complete even then.
func Build(payload *core.BootstrapPayload, opts Options) (*Result, error) {
	if payload == nil {
		payload = &core.BootstrapPayload{}
	}
	opts = opts.withDefaults()
	logger := opts.Logger

	active := payload.ActiveTab
	ws := workspace{
		editors: materializeEditors(payload.TabStateIDs, active, editorTemplate(payload.Common.Conf, opts.DefaultSQL)),
		tables:  materializeTables(active),
		queries: cloneQueries(payload.Queries),
		history: seedHistory(active),
		unsaved: core.Patch{},
	}

	result := &Result{}
	var err error

	if legacy, ok := readLegacy(opts.Legacy, logger); ok {
		if legacy.Migrated {
			if rmErr := opts.Legacy.RemoveItem(LegacyStorageKey); rmErr != nil {
				err = fmt.Errorf("failed to clear legacy storage: %w", rmErr)
			} else {
				logger.Info("legacy SQL Lab state already migrated, cleared", "key", LegacyStorageKey)
				result.LegacyCleared = true
			}
		} else {
			ws = overlayLegacy(ws, legacy, logger)
			logger.Debug("merged legacy SQL Lab state",
				"editors", len(legacy.QueryEditors),
				"tables", len(legacy.Tables),
				"queries", len(legacy.Queries))
		}
	}

	result.State = assemble(payload, ws, opts)
	return result, err
}

func seedHistory(active *core.TabState) []core.ID {
	if active == nil {
		return []core.ID{}
	}
	return []core.ID{active.ID}
}

// assemble combines the stage outputs with the pass-through fields.
func assemble(payload *core.BootstrapPayload, ws workspace, opts Options) *core.InitialState {
	now := opts.Now().UnixMilli()
	history := DedupeTabHistory(ws.history)

	var lastActive core.ID
	if n := len(history); n > 0 {
		lastActive = history[n-1]
	}

	databases := payload.Databases
	if databases == nil {
		databases = map[string]core.Database{}
	}
	flash := payload.Common.FlashMessages
	if flash == nil {
		flash = []core.FlashMessage{}
	}
	conf := payload.Common.Conf
	if conf == nil {
		conf = core.ServerConf{}
	}

	return &core.InitialState{
		SQLLab: core.SQLLabState{
			ActiveSouthPaneTab:     DefaultSouthPaneTab,
			Alerts:                 []core.Alert{},
			Databases:              databases,
			Offline:                false,
			Queries:                ws.queries,
			QueryEditors:           ws.editors.values(),
			TabHistory:             history,
			Tables:                 ws.tables.values(),
			QueriesLastUpdate:      now,
			EditorTabLastUpdatedAt: now,
			QueryCostEstimates:     map[string]any{},
			UnsavedQueryEditor:     ws.unsaved,
			LastUpdatedActiveTab:   lastActive,
			DestroyedQueryEditors:  map[string]any{},
		},
		MessageToasts:                opts.Toasts(flash),
		LocalStorageUsageInKilobytes: 0,
		Common: core.CommonOutput{
			FlashMessages: flash,
			Conf:          conf,
		},
		User: payload.User,
	}
}

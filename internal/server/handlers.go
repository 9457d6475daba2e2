package server

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/sqllab/internal/bootstrap"
	"github.com/leapstack-labs/sqllab/internal/config"
	"github.com/leapstack-labs/sqllab/internal/legacy"
	"github.com/leapstack-labs/sqllab/internal/server/notifier"
	"github.com/leapstack-labs/sqllab/pkg/core"
)

const (
	sessionName    = "sqllab_session"
	sessionUserKey = "user_id"

	// DefaultTabLabel names tabs created without a label.
	DefaultTabLabel = "Untitled Query"
)

// flashCategories are the session flash keys drained on bootstrap, in
// display order.
var flashCategories = []string{"danger", "warning", "success", "info"}

var errNoSessionUser = errors.New("no session user")

func init() {
	// Session flashes are stored as []any.
	gob.Register([]any{})
}

// Handlers serves the SQL Lab API.
type Handlers struct {
	store        core.Store
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	sqllab       func() config.SQLLabConfig
	logger       *slog.Logger
	now          func() time.Time
}

// NewHandlers creates a Handlers instance. sqllab is consulted on every
// request so reloaded defaults apply immediately.
func NewHandlers(store core.Store, sessionStore sessions.Store, notify *notifier.Notifier, sqllab func() config.SQLLabConfig, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		store:        store,
		sessionStore: sessionStore,
		notifier:     notify,
		sqllab:       sqllab,
		logger:       logger,
		now:          time.Now,
	}
}

type sessionRequest struct {
	UserID int64 `json:"user_id"`
}

type bootstrapRequest struct {
	LocalStorage map[string]string `json:"local_storage"`
}

type bootstrapResponse struct {
	State         *core.InitialState `json:"state"`
	LegacyCleared bool               `json:"legacy_cleared"`
}

type createTabRequest struct {
	Label      string  `json:"label"`
	SQL        *string `json:"sql"`
	DatabaseID *int64  `json:"database_id"`
	Catalog    *string `json:"catalog"`
	Schema     *string `json:"schema"`
	QueryLimit int     `json:"query_limit"`
}

// updateTabRequest carries the tab fields to change. Omitted fields keep
// their stored value.
type updateTabRequest struct {
	Label          *string `json:"label"`
	SQL            *string `json:"sql"`
	DatabaseID     *int64  `json:"database_id"`
	Catalog        *string `json:"catalog"`
	Schema         *string `json:"schema"`
	QueryLimit     *int    `json:"query_limit"`
	LatestQueryID  *string `json:"latest_query_id"`
	SavedQueryID   *int64  `json:"saved_query_id"`
	Autorun        *bool   `json:"autorun"`
	TemplateParams *string `json:"template_params"`
	HideLeftBar    *bool   `json:"hide_left_bar"`
}

type addTableRequest struct {
	DatabaseID  *int64         `json:"database_id"`
	Catalog     *string        `json:"catalog"`
	Schema      string         `json:"schema"`
	Table       string         `json:"table"`
	Description map[string]any `json:"description"`
	Expanded    bool           `json:"expanded"`
}

type tableExpandedRequest struct {
	Expanded *bool `json:"expanded"`
}

type tabsResponse struct {
	Tabs        []core.TabRecord `json:"tabs"`
	ActiveTabID core.ID          `json:"active_tab_id"`
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Login stores the user in the cookie session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("user_id is required"))
		return
	}

	user, err := h.store.GetUser(r.Context(), req.UserID)
	if err != nil {
		h.fail(w, err)
		return
	}

	// A stale or foreign cookie yields a fresh session alongside the error.
	sess, _ := h.sessionStore.Get(r, sessionName)
	sess.Values[sessionUserKey] = user.UserID
	sess.AddFlash(fmt.Sprintf("Signed in as %s", user.Username), "info")
	if err := sess.Save(r, w); err != nil {
		h.fail(w, fmt.Errorf("failed to save session: %w", err))
		return
	}

	h.logger.Info("session started", "user_id", user.UserID)
	writeJSON(w, http.StatusOK, user)
}

// Logout clears the cookie session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessionStore.Get(r, sessionName)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		h.fail(w, fmt.Errorf("failed to clear session: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Bootstrap computes the initial workspace state for the session user,
// merging the browser's legacy slot snapshot from the request body.
func (h *Handlers) Bootstrap(w http.ResponseWriter, r *http.Request) {
	sess, userID, err := h.sessionUser(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	var req bootstrapRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sqllab := h.sqllab()
	common := core.CommonPayload{
		Conf:          sqllab.ServerConf(),
		FlashMessages: popFlashes(sess),
	}

	payload, err := h.store.LoadBootstrap(r.Context(), userID, common)
	if err != nil {
		h.fail(w, err)
		return
	}

	// The flashes are consumed once the payload exists.
	if err := sess.Save(r, w); err != nil {
		h.logger.Warn("failed to save session", "error", err)
	}

	storage := legacy.NewMemory(req.LocalStorage)
	result, err := bootstrap.Build(payload, bootstrap.Options{
		Legacy:     storage,
		DefaultSQL: sqllab.DefaultSQL,
		Logger:     h.logger,
	})
	if err != nil {
		// The state is complete; only the slot bookkeeping failed.
		h.logger.Warn("bootstrap legacy cleanup failed", "user_id", userID, "error", err)
	}

	writeJSON(w, http.StatusOK, bootstrapResponse{
		State:         result.State,
		LegacyCleared: result.LegacyCleared,
	})
}

// ListTabs returns the session user's tabs and the active one.
func (h *Handlers) ListTabs(w http.ResponseWriter, r *http.Request) {
	_, userID, err := h.sessionUser(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	tabs, err := h.store.ListTabStates(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if tabs == nil {
		tabs = []core.TabRecord{}
	}

	active, err := h.store.GetActiveTabState(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}

	resp := tabsResponse{Tabs: tabs}
	if active != nil {
		resp.ActiveTabID = active.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateTab opens a new active tab seeded from the editor defaults.
func (h *Handlers) CreateTab(w http.ResponseWriter, r *http.Request) {
	_, userID, err := h.sessionUser(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	var req createTabRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tab := newTabState(req, h.sqllab())
	if err := h.store.CreateTabState(r.Context(), userID, tab); err != nil {
		h.fail(w, err)
		return
	}

	h.notifier.Broadcast()
	writeJSON(w, http.StatusCreated, tab)
}

// ActivateTab makes a tab the active one.
func (h *Handlers) ActivateTab(w http.ResponseWriter, r *http.Request) {
	_, userID, err := h.sessionUser(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	if err := h.store.ActivateTabState(r.Context(), userID, core.ID(chi.URLParam(r, "id"))); err != nil {
		h.fail(w, err)
		return
	}

	h.notifier.Broadcast()
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTab closes a tab.
func (h *Handlers) DeleteTab(w http.ResponseWriter, r *http.Request) {
	_, userID, err := h.sessionUser(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	if err := h.store.DeleteTabState(r.Context(), userID, core.ID(chi.URLParam(r, "id"))); err != nil {
		h.fail(w, err)
		return
	}

	h.notifier.Broadcast()
	w.WriteHeader(http.StatusNoContent)
}

// UpdateTab persists editor changes to one of the session user's tabs.
func (h *Handlers) UpdateTab(w http.ResponseWriter, r *http.Request) {
	_, userID, err := h.sessionUser(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	var req updateTabRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	tab, err := h.ownedTab(r, userID, core.ID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := applyTabUpdate(tab, req, h.sqllab()); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.store.UpdateTabState(r.Context(), tab); err != nil {
		h.fail(w, err)
		return
	}

	h.notifier.Broadcast()
	writeJSON(w, http.StatusOK, tab)
}

// AddTable pins a table to one of the session user's tabs.
func (h *Handlers) AddTable(w http.ResponseWriter, r *http.Request) {
	_, userID, err := h.sessionUser(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	var req addTableRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Table == "" {
		writeError(w, http.StatusBadRequest, errors.New("table is required"))
		return
	}

	tab, err := h.ownedTab(r, userID, core.ID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, err)
		return
	}

	schema := &core.TableSchema{
		TabStateID:  tab.ID,
		DatabaseID:  req.DatabaseID,
		Catalog:     req.Catalog,
		Schema:      req.Schema,
		Table:       req.Table,
		Description: req.Description,
		Expanded:    req.Expanded,
	}
	if schema.DatabaseID == nil {
		schema.DatabaseID = tab.DatabaseID
	}
	if err := h.store.AddTableSchema(r.Context(), schema); err != nil {
		h.fail(w, err)
		return
	}

	h.notifier.Broadcast()
	writeJSON(w, http.StatusCreated, schema)
}

// SetTableExpanded records whether a pinned table is disclosed.
func (h *Handlers) SetTableExpanded(w http.ResponseWriter, r *http.Request) {
	_, userID, err := h.sessionUser(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	var req tableExpandedRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Expanded == nil {
		writeError(w, http.StatusBadRequest, errors.New("expanded is required"))
		return
	}

	tab, err := h.ownedTab(r, userID, core.ID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, err)
		return
	}

	tableID := core.ID(chi.URLParam(r, "tableID"))
	if err := h.store.SetTableSchemaExpanded(r.Context(), tab.ID, tableID, *req.Expanded); err != nil {
		h.fail(w, err)
		return
	}

	h.notifier.Broadcast()
	w.WriteHeader(http.StatusNoContent)
}

// SaveQuery records a query run from one of the session user's tabs and
// points the tab at it.
func (h *Handlers) SaveQuery(w http.ResponseWriter, r *http.Request) {
	_, userID, err := h.sessionUser(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	var query core.Query
	if err := decodeBody(r, &query); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	clientID := query.ID()
	if clientID == "" {
		writeError(w, http.StatusBadRequest, errors.New("query id is required"))
		return
	}

	tab, err := h.ownedTab(r, userID, core.ID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, err)
		return
	}

	ctx := r.Context()
	if err := h.store.SaveQuery(ctx, userID, tab.ID, query); err != nil {
		h.fail(w, err)
		return
	}
	tab.LatestQuery = &core.QueryRef{ID: clientID}
	if err := h.store.UpdateTabState(ctx, tab); err != nil {
		h.fail(w, err)
		return
	}

	h.notifier.Broadcast()
	writeJSON(w, http.StatusCreated, query)
}

// Events is the long-lived SSE endpoint. Each change patches the
// tabsUpdatedAt signal so clients know to re-fetch.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			signals := map[string]any{"tabsUpdatedAt": h.now().UnixMilli()}
			if err := sse.MarshalAndPatchSignals(signals); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func newTabState(req createTabRequest, sqllab config.SQLLabConfig) *core.TabState {
	config.ApplyDefaults(&sqllab)

	tab := &core.TabState{
		Label:      req.Label,
		SQL:        sqllab.DefaultSQL,
		DatabaseID: req.DatabaseID,
		Catalog:    req.Catalog,
		Schema:     req.Schema,
		QueryLimit: req.QueryLimit,
	}
	if tab.Label == "" {
		tab.Label = DefaultTabLabel
	}
	if req.SQL != nil {
		tab.SQL = *req.SQL
	}
	if tab.DatabaseID == nil && sqllab.DefaultDBID != 0 {
		dbID := sqllab.DefaultDBID
		tab.DatabaseID = &dbID
	}
	if tab.QueryLimit <= 0 {
		tab.QueryLimit = sqllab.DefaultLimit
	}
	if tab.QueryLimit > sqllab.MaxLimit {
		tab.QueryLimit = sqllab.MaxLimit
	}
	return tab
}

// applyTabUpdate copies the fields set in req onto tab.
func applyTabUpdate(tab *core.TabState, req updateTabRequest, sqllab config.SQLLabConfig) error {
	config.ApplyDefaults(&sqllab)

	if req.Label != nil {
		if *req.Label == "" {
			return errors.New("label must not be empty")
		}
		tab.Label = *req.Label
	}
	if req.SQL != nil {
		tab.SQL = *req.SQL
	}
	if req.DatabaseID != nil {
		tab.DatabaseID = req.DatabaseID
	}
	if req.Catalog != nil {
		tab.Catalog = req.Catalog
	}
	if req.Schema != nil {
		tab.Schema = req.Schema
	}
	if req.QueryLimit != nil {
		if *req.QueryLimit <= 0 {
			return errors.New("query_limit must be positive")
		}
		tab.QueryLimit = min(*req.QueryLimit, sqllab.MaxLimit)
	}
	if req.LatestQueryID != nil {
		tab.LatestQuery = &core.QueryRef{ID: *req.LatestQueryID}
	}
	if req.SavedQueryID != nil {
		tab.SavedQuery = &core.SavedQueryRef{ID: *req.SavedQueryID}
	}
	if req.Autorun != nil {
		tab.Autorun = *req.Autorun
	}
	if req.TemplateParams != nil {
		tab.TemplateParams = *req.TemplateParams
	}
	if req.HideLeftBar != nil {
		tab.HideLeftBar = *req.HideLeftBar
	}
	return nil
}

// ownedTab loads a tab, reporting ErrTabStateNotFound when it belongs to
// another user.
func (h *Handlers) ownedTab(r *http.Request, userID int64, id core.ID) (*core.TabState, error) {
	records, err := h.store.ListTabStates(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(records, func(rec core.TabRecord) bool { return rec.ID == id }) {
		return nil, fmt.Errorf("%w: %s", core.ErrTabStateNotFound, id)
	}
	return h.store.GetTabState(r.Context(), id)
}

// sessionUser loads the cookie session and its user id.
func (h *Handlers) sessionUser(r *http.Request) (*sessions.Session, int64, error) {
	sess, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		return nil, 0, errNoSessionUser
	}
	userID, ok := sess.Values[sessionUserKey].(int64)
	if !ok || userID <= 0 {
		return nil, 0, errNoSessionUser
	}
	return sess, userID, nil
}

// popFlashes drains the session's flash messages.
func popFlashes(sess *sessions.Session) []core.FlashMessage {
	var msgs []core.FlashMessage
	for _, category := range flashCategories {
		for _, f := range sess.Flashes(category) {
			msgs = append(msgs, core.FlashMessage{Category: category, Message: fmt.Sprint(f)})
		}
	}
	return msgs
}

// fail maps err to a status code and writes it.
func (h *Handlers) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errNoSessionUser):
		status = http.StatusUnauthorized
	case errors.Is(err, core.ErrTabStateNotFound), errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrTableSchemaNotFound):
		status = http.StatusNotFound
	default:
		h.logger.Error("request failed", "error", err)
	}
	writeError(w, status, err)
}

// decodeBody decodes a JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

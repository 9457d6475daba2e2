package core

// InitialState is the reconciled workspace state produced on load.
type InitialState struct {
	SQLLab                       SQLLabState  `json:"sqlLab"`
	MessageToasts                []Toast      `json:"messageToasts"`
	LocalStorageUsageInKilobytes int          `json:"localStorageUsageInKilobytes"`
	Common                       CommonOutput `json:"common"`
	User                         *User        `json:"user"`
}

// SQLLabState is the editor workspace slice of the initial state.
type SQLLabState struct {
	ActiveSouthPaneTab     string              `json:"activeSouthPaneTab"`
	Alerts                 []Alert             `json:"alerts"`
	Databases              map[string]Database `json:"databases"`
	Offline                bool                `json:"offline"`
	Queries                map[string]Query    `json:"queries"`
	QueryEditors           []QueryEditor       `json:"queryEditors"`
	TabHistory             []ID                `json:"tabHistory"`
	Tables                 []Table             `json:"tables"`
	QueriesLastUpdate      int64               `json:"queriesLastUpdate"`
	EditorTabLastUpdatedAt int64               `json:"editorTabLastUpdatedAt"`
	QueryCostEstimates     map[string]any      `json:"queryCostEstimates"`
	UnsavedQueryEditor     UnsavedQueryEditor  `json:"unsavedQueryEditor"`
	LastUpdatedActiveTab   ID                  `json:"lastUpdatedActiveTab"`
	DestroyedQueryEditors  map[string]any      `json:"destroyedQueryEditors"`
}

// Alert is a workspace-level alert raised after load.
type Alert map[string]any

// CommonOutput is the subset of server configuration forwarded downstream.
type CommonOutput struct {
	FlashMessages []FlashMessage `json:"flash_messages"`
	Conf          ServerConf     `json:"conf"`
}

// ToastType classifies a toast notification.
type ToastType string

// Toast types.
const (
	ToastInfo    ToastType = "INFO_TOAST"
	ToastSuccess ToastType = "SUCCESS_TOAST"
	ToastWarning ToastType = "WARNING_TOAST"
	ToastDanger  ToastType = "DANGER_TOAST"
)

// Toast is a displayable notification.
type Toast struct {
	ID        string    `json:"id"`
	ToastType ToastType `json:"toastType"`
	Text      string    `json:"text"`
	Duration  int       `json:"duration"`
}

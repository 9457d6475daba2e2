package bootstrap

import "github.com/leapstack-labs/sqllab/pkg/core"

// untitledQueryName names editors created from the template.
const untitledQueryName = "Untitled query"

// editorTemplate returns the defaults shared by placeholder editors.
func editorTemplate(conf core.ServerConf, defaultSQL string) core.QueryEditor {
	return core.QueryEditor{
		Name:       untitledQueryName,
		SQL:        defaultSQL,
		DBID:       conf.DefaultDBID(),
		QueryLimit: conf.DefaultQueryLimit(),
		Loaded:     true,
	}
}

// materializeEditors builds one editor per tab record. The record matching
// the active tab is fully populated; the others are placeholders.
func materializeEditors(tabs []core.TabRecord, active *core.TabState, template core.QueryEditor) collection[core.QueryEditor] {
	editors := newCollection[core.QueryEditor]()

	for _, tab := range tabs {
		var qe core.QueryEditor
		if active != nil && active.ID == tab.ID {
			qe = activeEditor(active)
		} else {
			qe = placeholderEditor(tab, template)
		}
		editors.put(qe.ID, qe)
	}

	return editors
}

func activeEditor(tab *core.TabState) core.QueryEditor {
	qe := core.QueryEditor{
		ID:             tab.ID,
		Name:           tab.Label,
		SQL:            tab.SQL,
		DBID:           cloneInt64(tab.DatabaseID),
		Catalog:        cloneString(tab.Catalog),
		Schema:         cloneString(tab.Schema),
		QueryLimit:     tab.QueryLimit,
		Autorun:        tab.Autorun,
		TemplateParams: tab.TemplateParams,
		HideLeftBar:    tab.HideLeftBar,
		Loaded:         true,
	}
	if tab.LatestQuery != nil {
		id := tab.LatestQuery.ID
		qe.LatestQueryID = &id
	}
	if tab.SavedQuery != nil {
		id := tab.SavedQuery.ID
		qe.RemoteID = &id
	}
	if tab.ExtraJSON != nil {
		qe.Version = tab.ExtraJSON.Version
		qe.UpdatedAt = tab.ExtraJSON.UpdatedAt
	}
	return qe
}

func placeholderEditor(tab core.TabRecord, template core.QueryEditor) core.QueryEditor {
	qe := template
	qe.ID = tab.ID
	qe.Name = tab.Label
	qe.DBID = cloneInt64(template.DBID)
	qe.Loaded = false
	return qe
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

package ui

import (
	"cargodesk/internal/model"
	"cargodesk/internal/prefs"
	"cargodesk/internal/table"

	"go.uber.org/zap"
)

func agentColumns() []table.Column[model.Agent] {
	return []table.Column[model.Agent]{
		{Key: "COMPID", Title: "Company ID", Value: func(a model.Agent) string { return a.COMPID }},
		{Key: "AGNTID", Title: "ID", Value: func(a model.Agent) string { return a.AGNTID }},
		{Key: "AGNTDSC", Title: "Description", Value: func(a model.Agent) string { return a.AGNTDSC }},
		{Key: "ADDRL1", Title: "Address Line 1", Value: func(a model.Agent) string { return a.ADDRL1 }},
		{Key: "ADDRL2", Title: "Address Line 2", Value: func(a model.Agent) string { return a.ADDRL2 }},
		{Key: "City", Title: "City", Value: func(a model.Agent) string { return a.City }},
		{Key: "ZIPCODE", Title: "ZIP Code", Value: func(a model.Agent) string { return a.ZIPCODE }},
		{Key: "Phone", Title: "Phone", Value: func(a model.Agent) string { return a.Phone }},
		{Key: "Fax", Title: "Fax", Value: func(a model.Agent) string { return a.Fax }},
		{Key: "eMail", Title: "Email", Value: func(a model.Agent) string { return a.EMail }},
		{Key: "WebSite", Title: "Website", Value: func(a model.Agent) string { return a.WebSite }},
		{Key: "FEDTXID", Title: "Federal Tax ID", Value: func(a model.Agent) string { return a.FEDTXID }},
		{Key: "STETXID", Title: "State Tax ID", Value: func(a model.Agent) string { return a.STETXID }},
		{Key: "CNTYCOD", Title: "Country Code", Value: func(a model.Agent) string { return a.CNTYCOD }},
		{Key: "STAID", Title: "State ID", Value: func(a model.Agent) string { return a.STAID }},
		{Key: "CRTUSR", Title: "Created By", Value: func(a model.Agent) string { return a.CRTUSR }},
		{Key: "CRTDAT", Title: "Created Date", Value: func(a model.Agent) string { return a.CRTDAT }},
		{Key: "CRTTIM", Title: "Created Time", Value: func(a model.Agent) string { return a.CRTTIM }},
		{Key: "CHGUSR", Title: "Last Modified By", Value: func(a model.Agent) string { return a.CHGUSR }},
		{Key: "CHGDAT", Title: "Last Modified Date", Value: func(a model.Agent) string { return a.CHGDAT }},
		{Key: "CHGTIM", Title: "Last Modified Time", Value: func(a model.Agent) string { return a.CHGTIM }},
	}
}

func agentDefaultVisibility() map[string]bool {
	vis := map[string]bool{
		"AGNTID":  true,
		"AGNTDSC": true,
		"Phone":   true,
		"CHGUSR":  true,
		"CHGDAT":  true,
		"actions": true,
	}
	for _, key := range []string{
		"COMPID", "ADDRL1", "ADDRL2", "City", "ZIPCODE", "Fax", "eMail",
		"WebSite", "FEDTXID", "STETXID", "CNTYCOD", "STAID",
		"CRTUSR", "CRTDAT", "CRTTIM", "CHGTIM",
	} {
		vis[key] = false
	}
	return vis
}

// NewAgentsScreen builds the agents list screen.
func NewAgentsScreen(kv prefs.KV, baseURL string, logger *zap.Logger) *ListModel[model.Agent] {
	cols := agentColumns()
	order := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		order = append(order, c.Key)
	}
	order = append(order, prefs.ActionsColumn)

	store := prefs.NewStore(kv, "agents", order, agentDefaultVisibility(), logger)

	return NewListModel(ListSpec[model.Agent]{
		TableID:           "agents",
		Title:             "Agents",
		Route:             "agents",
		Columns:           cols,
		DefaultOrder:      order,
		DefaultVisibility: agentDefaultVisibility(),
		IDParam:           "AGNTID",
		RowID:             func(a model.Agent) string { return a.AGNTID },
		RowCompanyID:      func(a model.Agent) string { return a.COMPID },
		FormFields: []FormField{
			{Key: "COMPID", Label: "Company ID", Required: true, MaxLen: 10},
			{Key: "AGNTID", Label: "Agent ID", Required: true, MaxLen: 20},
			{Key: "AGNTDSC", Label: "Description", Required: true},
			{Key: "ADDRL1", Label: "Address Line 1"},
			{Key: "ADDRL2", Label: "Address Line 2"},
			{Key: "City", Label: "City"},
			{Key: "STAID", Label: "State ID", MaxLen: 10},
			{Key: "ZIPCODE", Label: "ZIP Code", MaxLen: 10},
			{Key: "Phone", Label: "Phone", MaxLen: 20},
			{Key: "Fax", Label: "Fax", MaxLen: 20},
			{Key: "eMail", Label: "Email"},
			{Key: "WebSite", Label: "Website"},
			{Key: "FEDTXID", Label: "Federal Tax ID", MaxLen: 20},
			{Key: "STETXID", Label: "State Tax ID", MaxLen: 20},
			{Key: "CNTYCOD", Label: "Country Code", MaxLen: 10},
		},
		RowValues: func(a model.Agent) map[string]any {
			return map[string]any{
				"COMPID": a.COMPID, "AGNTID": a.AGNTID, "AGNTDSC": a.AGNTDSC,
				"ADDRL1": a.ADDRL1, "ADDRL2": a.ADDRL2, "City": a.City,
				"STAID": a.STAID, "ZIPCODE": a.ZIPCODE, "Phone": a.Phone,
				"Fax": a.Fax, "eMail": a.EMail, "WebSite": a.WebSite,
				"FEDTXID": a.FEDTXID, "STETXID": a.STETXID, "CNTYCOD": a.CNTYCOD,
			}
		},
	}, baseURL, store)
}

package ui

import (
	"cargodesk/internal/model"
	"cargodesk/internal/prefs"
	"cargodesk/internal/table"

	"go.uber.org/zap"
)

func clientColumns() []table.Column[model.Client] {
	return []table.Column[model.Client]{
		{Key: "COMPID", Title: "Company ID", Value: func(c model.Client) string { return c.COMPID }},
		{Key: "CLNTID", Title: "ID", Value: func(c model.Client) string { return c.CLNTID }},
		{Key: "CLNTDSC", Title: "Description", Value: func(c model.Client) string { return c.CLNTDSC }},
		{Key: "ADDRL1", Title: "Address Line 1", Value: func(c model.Client) string { return c.ADDRL1 }},
		{Key: "ADDRL2", Title: "Address Line 2", Value: func(c model.Client) string { return c.ADDRL2 }},
		{Key: "City", Title: "City", Value: func(c model.Client) string { return c.City }},
		{Key: "ZIPCODE", Title: "ZIP Code", Value: func(c model.Client) string { return c.ZIPCODE }},
		{Key: "Phone", Title: "Phone", Value: func(c model.Client) string { return c.Phone }},
		{Key: "Fax", Title: "Fax", Value: func(c model.Client) string { return c.Fax }},
		{Key: "eMail", Title: "Email", Value: func(c model.Client) string { return c.EMail }},
		{Key: "WebSite", Title: "Website", Value: func(c model.Client) string { return c.WebSite }},
		{Key: "FEDTXID", Title: "Federal Tax ID", Value: func(c model.Client) string { return c.FEDTXID }},
		{Key: "STETXID", Title: "State Tax ID", Value: func(c model.Client) string { return c.STETXID }},
		{Key: "CLBILL", Title: "Billing Method", Value: func(c model.Client) string { return c.CLBILL }},
		{Key: "CLEC1", Title: "ClientExChar1", Value: func(c model.Client) string { return c.CLEC1 }},
		{Key: "CLEC2", Title: "ClientExChar2", Value: func(c model.Client) string { return c.CLEC2 }},
		{Key: "CLEC3", Title: "ClientExChar3", Value: func(c model.Client) string { return c.CLEC3 }},
		{Key: "CLEC4", Title: "ClientExChar4", Value: func(c model.Client) string { return c.CLEC4 }},
		{Key: "CLEC5", Title: "ClientExChar5", Value: func(c model.Client) string { return c.CLEC5 }},
		{Key: "CLEN1", Title: "ClientExNum1", Value: func(c model.Client) string { return c.CLEN1 }},
		{Key: "CLEN2", Title: "ClientExNum2", Value: func(c model.Client) string { return c.CLEN2 }},
		{Key: "CLEN3", Title: "ClientExNum3", Value: func(c model.Client) string { return c.CLEN3 }},
		{Key: "CLEN4", Title: "ClientExNum4", Value: func(c model.Client) string { return c.CLEN4 }},
		{Key: "CLEN5", Title: "ClientExNum5", Value: func(c model.Client) string { return c.CLEN5 }},
		{Key: "CNTYCOD", Title: "Country Code", Value: func(c model.Client) string { return c.CNTYCOD }},
		{Key: "STAID", Title: "State ID", Value: func(c model.Client) string { return c.STAID }},
		{Key: "CRTUSR", Title: "Created By", Value: func(c model.Client) string { return c.CRTUSR }},
		{Key: "CRTDAT", Title: "Created Date", Value: func(c model.Client) string { return c.CRTDAT }},
		{Key: "CRTTIM", Title: "Created Time", Value: func(c model.Client) string { return c.CRTTIM }},
		{Key: "CHGUSR", Title: "Last Modified By", Value: func(c model.Client) string { return c.CHGUSR }},
		{Key: "CHGDAT", Title: "Last Modified Date", Value: func(c model.Client) string { return c.CHGDAT }},
		{Key: "CHGTIM", Title: "Last Modified Time", Value: func(c model.Client) string { return c.CHGTIM }},
	}
}

func clientDefaultVisibility() map[string]bool {
	vis := map[string]bool{
		"CLNTID":  true,
		"CLNTDSC": true,
		"Phone":   true,
		"CHGUSR":  true,
		"CHGDAT":  true,
		"actions": true,
	}
	for _, key := range []string{
		"COMPID", "ADDRL1", "ADDRL2", "City", "ZIPCODE", "Fax", "eMail",
		"WebSite", "FEDTXID", "STETXID", "CLBILL",
		"CLEC1", "CLEC2", "CLEC3", "CLEC4", "CLEC5",
		"CLEN1", "CLEN2", "CLEN3", "CLEN4", "CLEN5",
		"CNTYCOD", "STAID", "CRTUSR", "CRTDAT", "CRTTIM", "CHGTIM",
	} {
		vis[key] = false
	}
	return vis
}

// NewClientsScreen builds the clients list screen.
func NewClientsScreen(kv prefs.KV, baseURL string, logger *zap.Logger) *ListModel[model.Client] {
	cols := clientColumns()
	order := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		order = append(order, c.Key)
	}
	order = append(order, prefs.ActionsColumn)

	store := prefs.NewStore(kv, "clients", order, clientDefaultVisibility(), logger)

	return NewListModel(ListSpec[model.Client]{
		TableID:           "clients",
		Title:             "Clients",
		Route:             "clients",
		Columns:           cols,
		DefaultOrder:      order,
		DefaultVisibility: clientDefaultVisibility(),
		IDParam:           "CLNTID",
		RowID:             func(c model.Client) string { return c.CLNTID },
		RowCompanyID:      func(c model.Client) string { return c.COMPID },
		FormFields: []FormField{
			{Key: "COMPID", Label: "Company ID", Required: true, MaxLen: 10},
			{Key: "CLNTID", Label: "Client ID", Required: true, MaxLen: 20},
			{Key: "CLNTDSC", Label: "Description", Required: true},
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
			{Key: "CLBILL", Label: "Billing Method", MaxLen: 10},
			{Key: "CLEC1", Label: "ClientExChar1"},
			{Key: "CLEC2", Label: "ClientExChar2"},
			{Key: "CLEC3", Label: "ClientExChar3"},
			{Key: "CLEC4", Label: "ClientExChar4"},
			{Key: "CLEC5", Label: "ClientExChar5"},
			{Key: "CLEN1", Label: "ClientExNum1", MaxLen: 20},
			{Key: "CLEN2", Label: "ClientExNum2", MaxLen: 20},
			{Key: "CLEN3", Label: "ClientExNum3", MaxLen: 20},
			{Key: "CLEN4", Label: "ClientExNum4", MaxLen: 20},
			{Key: "CLEN5", Label: "ClientExNum5", MaxLen: 20},
		},
		RowValues: func(c model.Client) map[string]any {
			return map[string]any{
				"COMPID": c.COMPID, "CLNTID": c.CLNTID, "CLNTDSC": c.CLNTDSC,
				"ADDRL1": c.ADDRL1, "ADDRL2": c.ADDRL2, "City": c.City,
				"STAID": c.STAID, "ZIPCODE": c.ZIPCODE, "Phone": c.Phone,
				"Fax": c.Fax, "eMail": c.EMail, "WebSite": c.WebSite,
				"FEDTXID": c.FEDTXID, "STETXID": c.STETXID,
				"CNTYCOD": c.CNTYCOD, "CLBILL": c.CLBILL,
				"CLEC1": c.CLEC1, "CLEC2": c.CLEC2, "CLEC3": c.CLEC3,
				"CLEC4": c.CLEC4, "CLEC5": c.CLEC5,
				"CLEN1": c.CLEN1, "CLEN2": c.CLEN2, "CLEN3": c.CLEN3,
				"CLEN4": c.CLEN4, "CLEN5": c.CLEN5,
			}
		},
	}, baseURL, store)
}

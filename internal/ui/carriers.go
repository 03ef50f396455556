package ui

import (
	"cargodesk/internal/model"
	"cargodesk/internal/prefs"
	"cargodesk/internal/table"

	"go.uber.org/zap"
)

func carrierColumns() []table.Column[model.Carrier] {
	return []table.Column[model.Carrier]{
		{Key: "COMPID", Title: "Company ID", Value: func(c model.Carrier) string { return c.COMPID }},
		{Key: "CARID", Title: "ID", Value: func(c model.Carrier) string { return c.CARID }},
		{Key: "CARDSC", Title: "Description", Value: func(c model.Carrier) string { return c.CARDSC }},
		{Key: "ADDRL1", Title: "Address Line 1", Value: func(c model.Carrier) string { return c.ADDRL1 }},
		{Key: "ADDRL2", Title: "Address Line 2", Value: func(c model.Carrier) string { return c.ADDRL2 }},
		{Key: "City", Title: "City", Value: func(c model.Carrier) string { return c.City }},
		{Key: "ZIPCODE", Title: "ZIP Code", Value: func(c model.Carrier) string { return c.ZIPCODE }},
		{Key: "Phone", Title: "Phone", Value: func(c model.Carrier) string { return c.Phone }},
		{Key: "Fax", Title: "Fax", Value: func(c model.Carrier) string { return c.Fax }},
		{Key: "eMail", Title: "Email", Value: func(c model.Carrier) string { return c.EMail }},
		{Key: "WebSite", Title: "Website", Value: func(c model.Carrier) string { return c.WebSite }},
		{Key: "CONNME", Title: "Contact Name", Value: func(c model.Carrier) string { return c.CONNME }},
		{Key: "CNTYCOD", Title: "Country Code", Value: func(c model.Carrier) string { return c.CNTYCOD }},
		{Key: "STAID", Title: "State ID", Value: func(c model.Carrier) string { return c.STAID }},
		{Key: "CRTUSR", Title: "Created By", Value: func(c model.Carrier) string { return c.CRTUSR }},
		{Key: "CRTDAT", Title: "Created Date", Value: func(c model.Carrier) string { return c.CRTDAT }},
		{Key: "CRTTIM", Title: "Created Time", Value: func(c model.Carrier) string { return c.CRTTIM }},
		{Key: "CHGUSR", Title: "Last Modified By", Value: func(c model.Carrier) string { return c.CHGUSR }},
		{Key: "CHGDAT", Title: "Last Modified Date", Value: func(c model.Carrier) string { return c.CHGDAT }},
		{Key: "CHGTIM", Title: "Last Modified Time", Value: func(c model.Carrier) string { return c.CHGTIM }},
	}
}

func carrierDefaultVisibility() map[string]bool {
	vis := map[string]bool{
		"CARID":   true,
		"CARDSC":  true,
		"Phone":   true,
		"CHGUSR":  true,
		"CHGDAT":  true,
		"actions": true,
	}
	for _, key := range []string{
		"COMPID", "ADDRL1", "ADDRL2", "City", "ZIPCODE", "Fax", "eMail",
		"WebSite", "CONNME", "CNTYCOD", "STAID",
		"CRTUSR", "CRTDAT", "CRTTIM", "CHGTIM",
	} {
		vis[key] = false
	}
	return vis
}

// NewCarriersScreen builds the carriers list screen.
func NewCarriersScreen(kv prefs.KV, baseURL string, logger *zap.Logger) *ListModel[model.Carrier] {
	cols := carrierColumns()
	order := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		order = append(order, c.Key)
	}
	order = append(order, prefs.ActionsColumn)

	store := prefs.NewStore(kv, "carriers", order, carrierDefaultVisibility(), logger)

	return NewListModel(ListSpec[model.Carrier]{
		TableID:           "carriers",
		Title:             "Carriers",
		Route:             "carriers",
		Columns:           cols,
		DefaultOrder:      order,
		DefaultVisibility: carrierDefaultVisibility(),
		IDParam:           "CARID",
		RowID:             func(c model.Carrier) string { return c.CARID },
		RowCompanyID:      func(c model.Carrier) string { return c.COMPID },
		FormFields: []FormField{
			{Key: "COMPID", Label: "Company ID", Required: true, MaxLen: 10},
			{Key: "CARID", Label: "Carrier ID", Required: true, MaxLen: 20},
			{Key: "CARDSC", Label: "Description", Required: true},
			{Key: "ADDRL1", Label: "Address Line 1"},
			{Key: "ADDRL2", Label: "Address Line 2"},
			{Key: "City", Label: "City"},
			{Key: "STAID", Label: "State ID", MaxLen: 10},
			{Key: "ZIPCODE", Label: "ZIP Code", MaxLen: 10},
			{Key: "Phone", Label: "Phone", MaxLen: 20},
			{Key: "Fax", Label: "Fax", MaxLen: 20},
			{Key: "eMail", Label: "Email"},
			{Key: "WebSite", Label: "Website"},
			{Key: "CONNME", Label: "Contact Name"},
			{Key: "CNTYCOD", Label: "Country Code", MaxLen: 10},
		},
		RowValues: func(c model.Carrier) map[string]any {
			return map[string]any{
				"COMPID": c.COMPID, "CARID": c.CARID, "CARDSC": c.CARDSC,
				"ADDRL1": c.ADDRL1, "ADDRL2": c.ADDRL2, "City": c.City,
				"STAID": c.STAID, "ZIPCODE": c.ZIPCODE, "Phone": c.Phone,
				"Fax": c.Fax, "eMail": c.EMail, "WebSite": c.WebSite,
				"CONNME": c.CONNME, "CNTYCOD": c.CNTYCOD,
			}
		},
	}, baseURL, store)
}

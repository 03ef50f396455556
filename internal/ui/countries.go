package ui

import (
	"cargodesk/internal/model"
	"cargodesk/internal/prefs"
	"cargodesk/internal/table"

	"go.uber.org/zap"
)

func countryColumns() []table.Column[model.Country] {
	return []table.Column[model.Country]{
		{Key: "COMPID", Title: "Company ID", Value: func(c model.Country) string { return c.COMPID }},
		{Key: "CNTYCOD", Title: "Country Code", Value: func(c model.Country) string { return c.CNTYCOD }},
		{Key: "CNTYDSC", Title: "Description", Value: func(c model.Country) string { return c.CNTYDSC }},
		{Key: "CRTUSR", Title: "Created By", Value: func(c model.Country) string { return c.CRTUSR }},
		{Key: "CRTDAT", Title: "Created Date", Value: func(c model.Country) string { return c.CRTDAT }},
		{Key: "CRTTIM", Title: "Created Time", Value: func(c model.Country) string { return c.CRTTIM }},
		{Key: "CHGUSR", Title: "Last Modified By", Value: func(c model.Country) string { return c.CHGUSR }},
		{Key: "CHGDAT", Title: "Last Modified Date", Value: func(c model.Country) string { return c.CHGDAT }},
		{Key: "CHGTIM", Title: "Last Modified Time", Value: func(c model.Country) string { return c.CHGTIM }},
	}
}

func countryDefaultVisibility() map[string]bool {
	return map[string]bool{
		"COMPID":  false,
		"CNTYCOD": true,
		"CNTYDSC": true,
		"CRTUSR":  false,
		"CRTDAT":  false,
		"CRTTIM":  false,
		"CHGUSR":  true,
		"CHGDAT":  true,
		"CHGTIM":  false,
		"actions": true,
	}
}

// NewCountriesScreen builds the countries list screen. Country filters use
// the backend's Filter_ prefixed parameter names.
func NewCountriesScreen(kv prefs.KV, baseURL string, logger *zap.Logger) *ListModel[model.Country] {
	cols := countryColumns()
	order := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		order = append(order, c.Key)
	}
	order = append(order, prefs.ActionsColumn)

	store := prefs.NewStore(kv, "countries", order, countryDefaultVisibility(), logger)

	return NewListModel(ListSpec[model.Country]{
		TableID:           "countries",
		Title:             "Countries",
		Route:             "countries",
		Columns:           cols,
		DefaultOrder:      order,
		DefaultVisibility: countryDefaultVisibility(),
		IDParam:           "CNTYCOD",
		RowID:             func(c model.Country) string { return c.CNTYCOD },
		RowCompanyID:      func(c model.Country) string { return c.COMPID },
		FilterParams: map[string]string{
			"CNTYCOD": "Filter_CNTYCOD",
			"CNTYDSC": "Filter_CNTYDSC",
		},
		FormFields: []FormField{
			{Key: "COMPID", Label: "Company ID", Required: true, MaxLen: 10},
			{Key: "CNTYCOD", Label: "Country Code", Required: true, MaxLen: 10},
			{Key: "CNTYDSC", Label: "Description", Required: true},
		},
		RowValues: func(c model.Country) map[string]any {
			return map[string]any{
				"COMPID": c.COMPID, "CNTYCOD": c.CNTYCOD, "CNTYDSC": c.CNTYDSC,
			}
		},
	}, baseURL, store)
}

package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DefaultCompanyID is the company partition every record lives under when
// the caller does not say otherwise.
const DefaultCompanyID = "PLL"

// listParam is one query parameter passed through to the backend, with the
// default used when the caller omits it.
type listParam struct {
	name string
	def  string
	from string // incoming query name when it differs from the backend name
}

// Resource describes one proxied entity: its route segment, the upstream
// endpoint name, the identifier required (with COMPID) to address a single
// record, and the pass-through list parameters.
type Resource struct {
	Route      string
	Endpoint   string
	Label      string
	IDParam    string
	listParams []listParam
}

func commonParams() []listParam {
	return []listParam{
		{name: "COMPID", def: DefaultCompanyID},
		{name: "pageNumber", def: "1"},
		{name: "pageSize", def: "100"},
	}
}

func sortParams(sortDefault string) []listParam {
	return []listParam{
		{name: "SortField", def: sortDefault, from: "sortColumn"},
		{name: "SortDirection", def: "ASC", from: "sortDirection"},
	}
}

func passthrough(names ...string) []listParam {
	out := make([]listParam, len(names))
	for i, n := range names {
		out[i] = listParam{name: n}
	}
	return out
}

// Resources is the full proxied entity surface, mirroring the backend's
// general-settings API.
var Resources = []Resource{
	{
		Route: "agents", Endpoint: "agent", Label: "agents", IDParam: "AGNTID",
		listParams: join(commonParams(),
			passthrough("GetOne_AGNTID", "AGNTID", "AGNTDSC", "ADDRL1", "ADDRL2",
				"City", "ZIPCODE", "Phone", "Fax", "eMail", "WebSite",
				"FEDTXID", "STETXID", "CNTYCOD", "STAID"),
			sortParams("AGNTID")),
	},
	{
		Route: "carriers", Endpoint: "carrier", Label: "carriers", IDParam: "CARID",
		listParams: join(commonParams(),
			passthrough("GetOne_CarId", "CARID", "CARDSC", "ADDRL1", "ADDRL2",
				"City", "ZIPCODE", "Phone", "Fax", "eMail", "WebSite",
				"CONNME", "CNTYCOD", "STAID"),
			sortParams("CARID")),
	},
	{
		Route: "clients", Endpoint: "client", Label: "clients", IDParam: "CLNTID",
		listParams: join(commonParams(),
			passthrough("GetOne_CLNTID", "CLNTID", "CLNTDSC", "ADDRL1", "ADDRL2",
				"City", "ZIPCODE", "Phone", "Fax", "eMail", "WebSite",
				"FEDTXID", "STETXID", "CLBILL",
				"CLEC1", "CLEC2", "CLEC3", "CLEC4", "CLEC5"),
			[]listParam{
				{name: "CLEN1", def: "0"}, {name: "CLEN2", def: "0"},
				{name: "CLEN3", def: "0"}, {name: "CLEN4", def: "0"},
				{name: "CLEN5", def: "0"},
			},
			passthrough("CNTYCOD", "STAID"),
			sortParams("CLNTID")),
	},
	{
		Route: "countries", Endpoint: "country", Label: "countries", IDParam: "CNTYCOD",
		listParams: join(commonParams(),
			passthrough("CNTYCOD", "Filter_CNTYCOD", "Filter_CNTYDSC"),
			sortParams("CNTYCOD")),
	},
}

func join(groups ...[]listParam) []listParam {
	var out []listParam
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Server exposes the proxy over HTTP at /api/general-settings/<resource>.
type Server struct {
	proxy   *Proxy
	session Session
	logger  *zap.Logger
}

// NewServer creates the HTTP surface around a proxy.
func NewServer(proxy *Proxy, session Session, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{proxy: proxy, session: session, logger: logger}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for _, res := range Resources {
		res := res
		mux.HandleFunc("/api/general-settings/"+res.Route, func(w http.ResponseWriter, r *http.Request) {
			s.handle(w, r, res)
		})
	}
	return mux
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request, res Resource) {
	switch r.Method {
	case http.MethodGet:
		s.handleList(w, r, res)
	case http.MethodPost:
		s.handleMutate(w, r, res, http.MethodPost, "CRTUSR", "create")
	case http.MethodPut:
		s.handleMutate(w, r, res, http.MethodPut, "CHGUSR", "update")
	case http.MethodDelete:
		s.handleDelete(w, r, res)
	case http.MethodOptions:
		addCORSHeaders(w.Header())
		w.WriteHeader(http.StatusNoContent)
	default:
		envelope(http.StatusMethodNotAllowed, "Method not allowed", "").Write(w)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request, res Resource) {
	query := r.URL.Query()
	params := make(map[string]string, len(res.listParams))
	for _, p := range res.listParams {
		from := p.from
		if from == "" {
			from = p.name
		}
		value := query.Get(from)
		if value == "" {
			value = p.def
		}
		if value == "" {
			continue
		}
		params[p.name] = value
	}

	result := s.proxy.Forward(r.Context(), res.Endpoint, http.MethodGet, Options{
		Params:       params,
		ErrorMessage: "Failed to fetch " + res.Label + " data",
	})
	result.Write(w)
}

// handleMutate forwards a create or update, stamping the authenticated
// username into the audit field the backend expects.
func (s *Server) handleMutate(w http.ResponseWriter, r *http.Request, res Resource, method, userField, verb string) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		envelope(http.StatusBadRequest, "Invalid request body", err.Error()).Write(w)
		return
	}
	// A JSON null decodes without error but leaves the map nil.
	if body == nil {
		body = map[string]any{}
	}
	body[userField] = s.session.Username()

	result := s.proxy.Forward(r.Context(), res.Endpoint, method, Options{
		Body:         body,
		ErrorMessage: "Failed to " + verb + " " + strings.TrimSuffix(res.Label, "s"),
	})
	result.Write(w)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, res Resource) {
	query := r.URL.Query()
	compID := query.Get("COMPID")
	entityID := query.Get(res.IDParam)
	if compID == "" || entityID == "" {
		envelope(http.StatusBadRequest,
			"Missing required parameters: COMPID and "+res.IDParam, "").Write(w)
		return
	}

	result := s.proxy.Forward(r.Context(), res.Endpoint, http.MethodDelete, Options{
		Params:       map[string]string{"COMPID": compID, res.IDParam: entityID},
		ErrorMessage: "Failed to delete " + strings.TrimSuffix(res.Label, "s"),
	})
	result.Write(w)
}

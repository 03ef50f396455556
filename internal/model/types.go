package model

// Audit carries the backend's record bookkeeping fields, shared by every
// entity.
type Audit struct {
	CRTUSR string `json:"CRTUSR"`
	CRTDAT string `json:"CRTDAT"`
	CRTTIM string `json:"CRTTIM"`
	CHGUSR string `json:"CHGUSR"`
	CHGDAT string `json:"CHGDAT"`
	CHGTIM string `json:"CHGTIM"`
}

// Agent represents a booking agent record.
type Agent struct {
	COMPID  string `json:"COMPID"`
	AGNTID  string `json:"AGNTID"`
	AGNTDSC string `json:"AGNTDSC"`
	ADDRL1  string `json:"ADDRL1"`
	ADDRL2  string `json:"ADDRL2"`
	City    string `json:"City"`
	ZIPCODE string `json:"ZIPCODE"`
	Phone   string `json:"Phone"`
	Fax     string `json:"Fax"`
	EMail   string `json:"eMail"`
	WebSite string `json:"WebSite"`
	FEDTXID string `json:"FEDTXID"`
	STETXID string `json:"STETXID"`
	CNTYCOD string `json:"CNTYCOD"`
	STAID   string `json:"STAID"`
	RowNum  int    `json:"RowNum"`
	Audit
}

// Carrier represents a freight carrier record.
type Carrier struct {
	COMPID  string `json:"COMPID"`
	CARID   string `json:"CARID"`
	CARDSC  string `json:"CARDSC"`
	ADDRL1  string `json:"ADDRL1"`
	ADDRL2  string `json:"ADDRL2"`
	City    string `json:"City"`
	ZIPCODE string `json:"ZIPCODE"`
	Phone   string `json:"Phone"`
	Fax     string `json:"Fax"`
	EMail   string `json:"eMail"`
	WebSite string `json:"WebSite"`
	CONNME  string `json:"CONNME"`
	CNTYCOD string `json:"CNTYCOD"`
	STAID   string `json:"STAID"`
	RowNum  int    `json:"RowNum"`
	Audit
}

// Client represents a client company record, including the backend's five
// extension character and numeric slots.
type Client struct {
	COMPID  string `json:"COMPID"`
	CLNTID  string `json:"CLNTID"`
	CLNTDSC string `json:"CLNTDSC"`
	ADDRL1  string `json:"ADDRL1"`
	ADDRL2  string `json:"ADDRL2"`
	City    string `json:"City"`
	ZIPCODE string `json:"ZIPCODE"`
	Phone   string `json:"Phone"`
	Fax     string `json:"Fax"`
	EMail   string `json:"eMail"`
	WebSite string `json:"WebSite"`
	FEDTXID string `json:"FEDTXID"`
	STETXID string `json:"STETXID"`
	CLBILL  string `json:"CLBILL"`
	CLEC1   string `json:"CLEC1"`
	CLEC2   string `json:"CLEC2"`
	CLEC3   string `json:"CLEC3"`
	CLEC4   string `json:"CLEC4"`
	CLEC5   string `json:"CLEC5"`
	CLEN1   string `json:"CLEN1"`
	CLEN2   string `json:"CLEN2"`
	CLEN3   string `json:"CLEN3"`
	CLEN4   string `json:"CLEN4"`
	CLEN5   string `json:"CLEN5"`
	CNTYCOD string `json:"CNTYCOD"`
	STAID   string `json:"STAID"`
	RowNum  int    `json:"RowNum"`
	Audit
}

// Country represents a country code record.
type Country struct {
	COMPID  string `json:"COMPID"`
	CNTYCOD string `json:"CNTYCOD"`
	CNTYDSC string `json:"CNTYDSC"`
	RowNum  int    `json:"RowNum"`
	Audit
}

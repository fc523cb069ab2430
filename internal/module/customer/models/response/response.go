package response

type FieldDiff struct {
	Field    string `json:"field"`
	Existing string `json:"existing"`
	New      string `json:"new"`
}

type Resolution struct {
	CustomerID string      `json:"customer_id,omitempty"`
	Outcome    string      `json:"outcome"`
	Diff       []FieldDiff `json:"diff,omitempty"`
}

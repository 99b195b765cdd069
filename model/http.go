package model

type SubcorpusListing struct {
	Name      string `json:"name"`
	NumPieces int    `json:"num_pieces"`
}

type PieceListing struct {
	Fname    string   `json:"fname"`
	HasScore bool     `json:"has_score"`
	Tables   []string `json:"tables"`
}

type TableResponse struct {
	Subcorpus string           `json:"subcorpus"`
	Fname     string           `json:"fname"`
	Kind      string           `json:"kind"`
	Columns   []string         `json:"columns"`
	Records   []map[string]any `json:"records"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

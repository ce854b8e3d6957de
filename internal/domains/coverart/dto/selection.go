package dto

// Selection is the outcome of choosing a cover for one track. Winner is nil
// when no image was found.
type Selection struct {
	Track        string      `json:"track"`
	Candidates   []Candidate `json:"candidates"`
	DebugLines   []string    `json:"-"`
	EmbeddedPath string      `json:"embedded_path,omitempty"`
	Winner       *Candidate  `json:"winner,omitempty"`
	Meta         string      `json:"meta"`
	Report       string      `json:"report"`
}

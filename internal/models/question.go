package models

type Question struct {
	Text        string   `json:"text" yaml:"text"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
	IdealAnswer string   `json:"idealAnswer" yaml:"idealAnswer"`
}

// QA pairs an asked question with the answer it received.
type QA struct {
	Question Question `json:"question"`
	Answer   string   `json:"answer"`
}

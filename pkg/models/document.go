package models

// Document represents one extracted page (or whole file) of the loaded input
type Document struct {
	ID       string            `json:"id"`
	Index    int               `json:"index"` // 1-based position in the loaded sequence
	Page     int               `json:"page"`  // 1-based page within Source
	Text     string            `json:"text"`
	Source   string            `json:"source"`
	Metadata map[string]string `json:"metadata"`
}

// EvaluationRow is a single question asked against one document page
type EvaluationRow struct {
	Line     int    `json:"line"`
	Page     int    `json:"page"`
	Question string `json:"question"`
}

// ModelDescriptor describes a model installed on the Ollama server
type ModelDescriptor struct {
	Name       string `json:"name"`
	ModifiedAt string `json:"modified_at"`
	Size       int64  `json:"size"`
}

package chat

// MaxMessageLength bounds a single user message in bytes.
const MaxMessageLength = 2000

type Request struct {
	Message string `json:"message"`
	Date    string `json:"date,omitempty"`
}

type Response struct {
	Reply     string `json:"reply"`
	Remaining int    `json:"remaining"`
}

type ContextResponse struct {
	Date    string `json:"date,omitempty"`
	Context string `json:"context"`
}

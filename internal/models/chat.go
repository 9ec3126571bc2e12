package models

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatTurn is one message in the user/assistant exchange.
type ChatTurn struct {
	Sender Sender
	Text   string
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

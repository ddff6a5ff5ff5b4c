package gateway

// OpenAI-compatible wire types for the chat-completions endpoint (unexported).

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	// Temperature is always serialized: 0.0 is a valid configured value
	// and dropping it would let the upstream apply its own default.
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Stream      bool    `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
	Model   string       `json:"model"`
}

type chatChoice struct {
	Message responseMessage `json:"message"`
}

// responseMessage carries Content as a pointer so an absent field is
// distinguishable from a present-but-empty one, like usage.total_tokens.
type responseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type chatUsage struct {
	PromptTokens     int  `json:"prompt_tokens"`
	CompletionTokens int  `json:"completion_tokens"`
	TotalTokens      *int `json:"total_tokens"`
}

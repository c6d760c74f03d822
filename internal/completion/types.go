package completion

// Message is one entry of the chat completion payload.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the single-turn payload posted to the inference endpoint.
type Request struct {
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
	Model     string    `json:"model"`
}

// Response is the subset of an OpenAI-style chat completion we read.
type Response struct {
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Index   int      `json:"index"`
	Message *Message `json:"message"`
}

// Reply extracts choices[0].message.content.
func (r Response) Reply() (string, bool) {
	if len(r.Choices) == 0 {
		return "", false
	}
	msg := r.Choices[0].Message
	if msg == nil || msg.Content == "" {
		return "", false
	}
	return msg.Content, true
}

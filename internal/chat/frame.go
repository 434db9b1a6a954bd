package chat

type FrameKind string

const (
	FrameUser          FrameKind = "user"           // The user's turn, shown immediately
	FrameThinking      FrameKind = "thinking"       // Transient placeholder while the call runs
	FrameClearThinking FrameKind = "clear_thinking" // Removes the placeholder
	FrameTyping        FrameKind = "typing"         // One step of the typing-dots indicator
	FrameAssistant     FrameKind = "assistant"      // Revealed prefix of the assistant text
	FrameNotice        FrameKind = "notice"         // Local assistant-side message, no call made
	FrameDone          FrameKind = "done"           // End of one exchange
)

// Frame is one presentation step of a chat exchange
type Frame struct {
	Kind FrameKind `json:"kind"`
	Text string    `json:"text"`
}

// Emit delivers a frame to the page. An error aborts the presentation.
type Emit func(Frame) error

// Discard drops every frame
func Discard(Frame) error { return nil }

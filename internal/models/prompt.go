package models

// Prompt is a role-delimited prompt with three logical segments: the system
// instruction (persona and grounding rule), the retrieved context, and the
// user's question. Rendering is backend-specific: the exact role delimiters a
// model family expects are a hard compatibility requirement, since malformed
// delimiters degrade grounding quality.
type Prompt struct {
	System  string
	Context string
	User    string
}

// Llama 3.1 instruct turn markers.
const (
	llamaBeginOfText  = "<|begin_of_text|>"
	llamaEndOfTurn    = "<|eot_id|>"
	llamaSystemHeader = "<|start_header_id|>system<|end_header_id|>"
	llamaUserHeader   = "<|start_header_id|>user<|end_header_id|>"
	llamaAsstHeader   = "<|start_header_id|>assistant<|end_header_id|>"
)

// RenderLlama returns the prompt in Llama 3.1 instruct format. The context is
// embedded in the system segment so the model treats it as system-provided fact
// rather than user instruction.
func (p *Prompt) RenderLlama() string {
	return llamaBeginOfText + llamaSystemHeader + "\n\n" +
		p.SystemWithContext() + llamaEndOfTurn +
		llamaUserHeader + "\n\n" + p.User + llamaEndOfTurn +
		llamaAsstHeader
}

// SystemWithContext returns the system segment with the context block appended,
// for backends with native system/user role separation (no turn markers needed).
func (p *Prompt) SystemWithContext() string {
	return p.System + "\n\nCONTEXT:\n" + p.Context
}

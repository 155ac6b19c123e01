package models

import (
	"strings"
	"testing"
)

func TestPromptRenderLlama(t *testing.T) {
	p := &Prompt{
		System:  "You are a helpful assistant.",
		Context: "Vitamin D supports calcium absorption.",
		User:    "What helps bones?",
	}
	got := p.RenderLlama()

	want := "<|begin_of_text|><|start_header_id|>system<|end_header_id|>\n\n" +
		"You are a helpful assistant.\n\nCONTEXT:\nVitamin D supports calcium absorption." +
		"<|eot_id|><|start_header_id|>user<|end_header_id|>\n\n" +
		"What helps bones?<|eot_id|><|start_header_id|>assistant<|end_header_id|>"
	if got != want {
		t.Errorf("RenderLlama():\ngot  %q\nwant %q", got, want)
	}

	// The context must sit in the system segment, before the user turn starts.
	userStart := strings.Index(got, "<|start_header_id|>user<|end_header_id|>")
	ctxStart := strings.Index(got, "CONTEXT:")
	if ctxStart == -1 || userStart == -1 || ctxStart > userStart {
		t.Errorf("context segment must precede user turn (ctx at %d, user at %d)", ctxStart, userStart)
	}
}

func TestPromptSystemWithContext(t *testing.T) {
	p := &Prompt{System: "persona", Context: "facts", User: "q"}
	got := p.SystemWithContext()
	if got != "persona\n\nCONTEXT:\nfacts" {
		t.Errorf("SystemWithContext() = %q", got)
	}
}

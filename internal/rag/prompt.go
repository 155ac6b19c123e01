package rag

import "github.com/hyperjump/eiyo/internal/models"

// systemInstruction pins the assistant to the retrieved context. The refusal
// sentence is quoted verbatim so the model repeats it exactly when the context
// falls short, which keeps partial-knowledge refusals recognizable downstream.
const systemInstruction = `You are a knowledgeable nutritional assistant. Answer the user's question based ONLY on the context provided below. If the context does not contain sufficient information to answer the question, say "I cannot provide a complete answer based on the available nutritional information."

Be concise, accurate, and cite specific information from the context when possible.`

// NoContextAnswer is returned without calling the generator when retrieval
// finds nothing. Distinct from the model's own refusal sentence: this one means
// the database had nothing at all, not that the context was insufficient.
const NoContextAnswer = "I could not find any relevant information in the nutritional database to answer your question."

// BuildPrompt pairs the grounding instruction with the assembled context block
// and the user's question.
func BuildPrompt(contextBlock, query string) *models.Prompt {
	return &models.Prompt{
		System:  systemInstruction,
		Context: contextBlock,
		User:    query,
	}
}

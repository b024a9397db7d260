package rag

import (
	"fmt"
	"strings"
)

// FallbackAnswer is returned when retrieval finds nothing to ground an answer on.
const FallbackAnswer = "I couldn't find any relevant Disney content to answer your question. " +
	"Please try rephrasing or ask about Disney characters, movies, or parks."

const instructions = "You are a helpful Disney expert assistant. " +
	"ONLY answer questions related to Disney. " +
	"If the user asks about non-Disney topics, politely decline and explain that you specialize in Disney content only. " +
	"Suggest they use a general-purpose AI or search engine for non-Disney questions. " +
	"\n\n" +
	"For Disney-related questions:\n" +
	"- Use the context provided below when it's relevant to the question.\n" +
	"- If the context is about different Disney content than what the user asked, use your general Disney knowledge to help them.\n" +
	"- For example, if they ask about 'Disneyland Tokyo' or 'Tokyo park', they likely mean Tokyo Disneyland or Tokyo DisneySea.\n" +
	"- Be conversational, friendly, and helpful.\n\n"

// BuildPrompt renders the instructions, numbered context sources and the question.
func BuildPrompt(query string, sources []ContentEmbedding) string {
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("CONTEXT (may or may not be directly relevant):\n")
	for i, s := range sources {
		fmt.Fprintf(&b, "[Source %d - %s]\n", i+1, s.ContentType)
		b.WriteString(s.TextContent)
		b.WriteString("\n\n")
	}
	b.WriteString("QUESTION: ")
	b.WriteString(query)
	b.WriteString("\n\nANSWER:")
	return b.String()
}

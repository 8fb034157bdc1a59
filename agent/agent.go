// Package agent implements the voice-session side of the RAG pipeline: the
// per-turn controller that queries the retrieval backend after every
// completed user utterance and splices the result into the conversation
// before the language model replies.
package agent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const contextSeparator = "\n\n---\n\n"

const contextPreamble = "Here is relevant context from the knowledge base to help answer the user's question:\n\n"

const noContextMessage = "No relevant context was found in the knowledge base for this question."

// Options tune a RAGAgent.
type Options struct {
	// TopK is the number of chunks requested per turn.
	TopK int
	// RetrieveTimeout bounds the retrieval call; once it fires the turn
	// proceeds without context.
	RetrieveTimeout time.Duration
}

// RAGAgent couples a streaming voice session to the retrieval backend. One
// instance serves one conversation.
type RAGAgent struct {
	retriever Retriever
	publisher *SourcesPublisher
	topK      int
	timeout   time.Duration
}

// New creates a turn-injection controller. publisher may be nil when no
// observer channel exists for the session.
func New(retriever Retriever, publisher *SourcesPublisher, opts Options) *RAGAgent {
	topK := opts.TopK
	if topK <= 0 {
		topK = 4
	}
	timeout := opts.RetrieveTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RAGAgent{
		retriever: retriever,
		publisher: publisher,
		topK:      topK,
		timeout:   timeout,
	}
}

// OnUserTurnCompleted runs when a full user utterance has been transcribed,
// before the model is asked to respond. It appends exactly one synthetic
// assistant-side message per non-empty turn: either the retrieved context
// or an explicit statement that none was found, so the model is discouraged
// from answering out of general knowledge. Retrieval failures are treated
// the same as empty results; the conversation never stalls on this path.
func (a *RAGAgent) OnUserTurnCompleted(ctx context.Context, turnCtx *ChatContext, newMessage ChatMessage) {
	query := strings.TrimSpace(newMessage.Content)
	if query == "" {
		logrus.Info("AGENT: No user query to process for RAG")
		return
	}

	logrus.Infof("AGENT: RAG lookup for: %s", truncate(query, 100))

	retrieveCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := a.retriever.Retrieve(retrieveCtx, query, a.topK)
	if err != nil {
		logrus.Warnf("AGENT: RAG retrieve error: %v", err)
		result = &RetrieveResult{}
	}

	docs := result.Documents
	logrus.Infof("AGENT: Retrieved %d RAG documents", len(docs))

	if len(docs) == 0 {
		turnCtx.AddMessage(RoleAssistant, noContextMessage)
		return
	}

	a.publishSources(result)
	turnCtx.AddMessage(RoleAssistant, contextPreamble+strings.Join(docs, contextSeparator))
	logrus.Info("AGENT: Injected RAG context into chat")
}

// publishSources sends the retrieved chunks and their sources to session
// observers. Best-effort: any failure is swallowed.
func (a *RAGAgent) publishSources(result *RetrieveResult) {
	if a.publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"documents": result.Documents,
		"sources":   result.Sources(),
	})
	if err != nil {
		logrus.Warnf("AGENT: Error encoding RAG sources: %v", err)
		return
	}
	a.publisher.Enqueue(payload)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

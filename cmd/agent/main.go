// Command agent runs the voice-session turn controller over a plain text
// console loop: each line read from stdin is treated as one completed user
// utterance. The audio transport (STT/TTS/VAD) is an external collaborator;
// this harness exercises the full turn-injection and reply path without it.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/ManojKumarKarumanchi/voice-rag-agent/agent"
	"github.com/ManojKumarKarumanchi/voice-rag-agent/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		logrus.Fatalf("FATAL: Failed to load config: %v", err)
	}

	ctx := context.Background()

	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logrus.Fatalf("FATAL: Failed to create Gemini client: %v. Make sure GEMINI_API_KEY is set.", err)
	}

	retrieveTimeout := time.Duration(cfg.Agent.RetrieveTimeoutSecs) * time.Second
	retriever := agent.NewHTTPRetriever(cfg.Agent.BackendURL, &http.Client{Timeout: retrieveTimeout})

	publisher := agent.NewSourcesPublisher(func(topic string, payload []byte) error {
		logrus.Infof("PUBLISH [%s]: %s", topic, string(payload))
		return nil
	}, 16)
	defer publisher.Close()

	ragAgent := agent.New(retriever, publisher, agent.Options{
		TopK:            cfg.Agent.TopK,
		RetrieveTimeout: retrieveTimeout,
	})

	systemPrompt := agent.SystemPromptFromMetadata(os.Getenv("PARTICIPANT_METADATA"))
	chatCtx := agent.NewChatContext()

	fmt.Println("Hello! Ask me anything about your uploaded documents. (Ctrl-D to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		utterance := scanner.Text()

		userMessage := agent.ChatMessage{Role: agent.RoleUser, Content: utterance}
		if strings.TrimSpace(utterance) != "" {
			chatCtx.AddMessage(agent.RoleUser, utterance)
		}

		ragAgent.OnUserTurnCompleted(ctx, chatCtx, userMessage)
		if strings.TrimSpace(utterance) == "" {
			continue
		}

		reply, err := generateReply(ctx, geminiClient, cfg.Agent.LLMModel, systemPrompt, chatCtx)
		if err != nil {
			logrus.Errorf("AGENT: Reply generation failed: %v", err)
			continue
		}
		chatCtx.AddMessage(agent.RoleAssistant, reply)
		fmt.Println(reply)
	}
}

// generateReply asks Gemini for the assistant's next turn over the
// augmented conversation history.
func generateReply(ctx context.Context, client *genai.Client, model, systemPrompt string, chatCtx *agent.ChatContext) (string, error) {
	messages := chatCtx.Messages()
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.RoleUser
		if m.Role == agent.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	result, err := client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.Text(systemPrompt)[0],
	})
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "I'm sorry, I couldn't generate a response.", nil
	}

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			responseText.WriteString(p.Text)
		}
	}
	return responseText.String(), nil
}

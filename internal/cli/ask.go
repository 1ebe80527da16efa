package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"restorag/internal/adapter/llm"
	"restorag/internal/domain"
	"restorag/internal/port"
	"restorag/internal/usecase"
)

const systemPrompt = `Tu es l'assistant du restaurant BOLKIRI, cuisine de rue vietnamienne.
Réponds uniquement à partir du contexte fourni. Si le contexte commence par
NO_CONTEXT, dis que tu n'as pas cette information. Ne donne jamais de prix,
d'horaires ou d'adresses qui ne figurent pas dans le contexte.`

var flagInteractive bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question, answered from the knowledge base",
	Long: `Retrieves the most relevant corpus units, asks the configured chat
model for an answer, and validates the answer against the retrieved context
before printing it. With --interactive, keeps a conversation going.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		chat, err := llm.NewOpenAIChat(
			cfg.Chat.APIKeyEnv,
			cfg.Chat.Model,
			cfg.Chat.BaseURL,
			cfg.Chat.MaxTokens,
			cfg.Chat.Temperature,
		)
		if err != nil {
			return err
		}

		if flagInteractive {
			return runInteractive(cmd.Context(), a, chat)
		}

		if len(args) == 0 {
			return fmt.Errorf("question required (or use --interactive)")
		}
		question := strings.Join(args, " ")

		answer, err := answerQuestion(cmd.Context(), a, chat, question, nil)
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	},
}

// answerQuestion runs one full turn: retrieve, augment, generate, validate.
func answerQuestion(ctx context.Context, a *app, chat port.LLM, question string, session *usecase.Session) (string, error) {
	ragContext, err := a.engine.ContextForAnswer(ctx, question, cfg.Retrieve.TopK, cfg.Retrieve.MaxContextChars)
	if err != nil {
		return "", err
	}
	ragContext = augmentContext(a, question, ragContext)

	var sb strings.Builder
	if session != nil {
		for _, turn := range session.Turns() {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Text)
		}
	}
	fmt.Fprintf(&sb, "Contexte:\n%s\n\nQuestion: %s", ragContext, question)

	raw, err := chat.GenerateWithSystem(ctx, systemPrompt, sb.String())
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}

	answer, _ := a.validator.Check(raw, ragContext, question)

	if session != nil {
		session.Append("user", question)
		session.Append("assistant", answer)
	}
	return answer, nil
}

// augmentContext prepends a found marker plus the canonical restaurant
// record when the question names a covered locality that the corpus can
// resolve. The validator keys its existence rule off this marker.
func augmentContext(a *app, question, ragContext string) string {
	loc, ok := domain.LocalityForQuery(question)
	if !ok {
		return ragContext
	}
	r, ok := a.corpus.FindRestaurant(loc.City)
	if !ok {
		return ragContext
	}
	return "[RESTAURANT TROUVÉ]\n" + r.Describe() + "\n---\n" + ragContext
}

func runInteractive(ctx context.Context, a *app, chat port.LLM) error {
	session := usecase.NewSession(cfg.Session.MaxTurns)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Posez vos questions (exit pour quitter).")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		answer, err := answerQuestion(ctx, a, chat, question, session)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		fmt.Println(answer)
		fmt.Println()
	}
}

func init() {
	askCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "interactive chat session")
	rootCmd.AddCommand(askCmd)
}

package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oldlogancap/logan-screener/internal/contracts"
)

const chatPrompt = `You are an equity research assistant for a growth stock ` +
	`screening tool. Answer questions about tickers, screening criteria and ` +
	`market data concisely. Do not give personalized investment advice.`

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive AI research assistant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(false)
			if err != nil {
				return err
			}
			defer app.close()

			if !app.chat.Configured() {
				return fmt.Errorf("OPENAI_API_KEY is not configured")
			}

			fmt.Println("Research assistant ready. Type 'exit' to quit.")
			scanner := bufio.NewScanner(os.Stdin)
			var history []contracts.ChatMessage

			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				history = append(history, contracts.ChatMessage{Role: "user", Content: line})
				reply, err := app.chat.Complete(cmd.Context(), chatPrompt, history)
				if err != nil {
					fmt.Printf("error: %v\n", err)
					history = history[:len(history)-1]
					continue
				}
				history = append(history, contracts.ChatMessage{Role: "assistant", Content: reply})
				fmt.Println(reply)
			}
		},
	}
}

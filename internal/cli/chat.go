package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DeepaliDagar/Multi-Agent-Ticketing-Support-Assistant/pkg/orchestrator"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive support chat",
	Long: `Starts an interactive chat session. Each message runs through the
supervisor loop; routing decisions and handoffs are shown inline.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	manager, err := a.newManager(renderEvent(out))
	if err != nil {
		return err
	}

	printChatHeader(out)

	// Each clear moves to a fresh thread so sessions and history
	// restart from nothing.
	threadSeq := 0
	threadID := "chat"

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit", "bye", "q":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "clear":
			manager.Reset(threadID)
			threadSeq++
			threadID = fmt.Sprintf("chat_%d", threadSeq)
			fmt.Fprintln(out, "Conversation history cleared.")
			continue
		case "help", "?":
			printChatHelp(out)
			continue
		}

		response := manager.Process(cmd.Context(), threadID, input)
		fmt.Fprintf(out, "\nassistant:\n%s\n\n", indent(response))
	}

	return scanner.Err()
}

func printChatHeader(out io.Writer) {
	fmt.Fprintln(out, "Customer Support Assistant")
	fmt.Fprintln(out, "I can help with customer information, support tickets, and data queries.")
	fmt.Fprintln(out, "Type 'exit' to quit, 'clear' to reset the conversation, 'help' for examples.")
	fmt.Fprintln(out)
}

func printChatHelp(out io.Writer) {
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  Get customer 1")
	fmt.Fprintln(out, "  Show me all active customers")
	fmt.Fprintln(out, "  Create a ticket for customer 2 with issue 'Cannot login'")
	fmt.Fprintln(out, "  How many tickets does each customer have?")
	fmt.Fprintln(out)
}

// renderEvent prints supervisor loop transitions the way the chat
// shows them: routing first, then each handoff and completion.
func renderEvent(out io.Writer) orchestrator.Observer {
	return func(ev orchestrator.Event) {
		switch ev.Type {
		case orchestrator.EventRouting:
			if ev.Decision != nil && ev.Decision.Next != "" {
				fmt.Fprintf(out, "  routing to: %s Agent (%s)\n", ev.Decision.Next.DisplayName(), ev.Decision.Reason)
			}
		case orchestrator.EventHandoff:
			if ev.From != "" {
				fmt.Fprintf(out, "  handoff: %s -> %s Agent (%s)\n", ev.From.DisplayName(), ev.To.DisplayName(), ev.Reason)
			} else {
				fmt.Fprintf(out, "  executing: %s Agent\n", ev.To.DisplayName())
			}
		case orchestrator.EventAgentComplete:
			fmt.Fprintf(out, "  %s Agent completed\n", ev.Executor.DisplayName())
		case orchestrator.EventCompletion:
			if len(ev.Results) > 1 {
				names := make([]string, 0, len(ev.Results))
				for _, r := range ev.Results {
					names = append(names, r.Executor.DisplayName())
				}
				fmt.Fprintf(out, "  completed with %d agents: %s\n", len(ev.Results), strings.Join(names, ", "))
			}
		}
	}
}

func indent(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}

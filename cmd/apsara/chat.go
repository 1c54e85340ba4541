package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/shubharthaksangharsha/apsara2.5/engine"
)

var (
	chatModel   string
	chatSession string
	chatSystem  string
	chatTools   bool
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the model from the terminal",
	Long: `Starts an interactive conversation against the engine. The session is
persisted through the configured store, so a named session can be
resumed later with --session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		eng, _, store, err := buildEngine(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		sessionID, err := eng.CreateSession(ctx, chatSession)
		if err != nil {
			return err
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return err
		}

		fmt.Printf("session %s (model %s, /quit to exit)\n", sessionID, modelOrDefault())

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(promptStyle.Render("you> ") + " ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "/quit" || line == "/exit" {
				break
			}

			result, err := eng.SendMessage(ctx, engine.TurnRequest{
				SessionID:         sessionID,
				Message:           line,
				Model:             chatModel,
				SystemInstruction: chatSystem,
				ToolsEnabled:      chatTools,
			})
			if err != nil {
				fmt.Println(errorStyle.Render("error: " + err.Error()))
				continue
			}

			rendered, err := renderer.Render(result.Response)
			if err != nil {
				rendered = result.Response
			}
			fmt.Println(labelStyle.Render("apsara>"))
			fmt.Print(rendered)
			if n := len(result.Media); n > 0 {
				fmt.Printf("[%d media attachment(s) not shown]\n", n)
			}
		}
		return scanner.Err()
	},
}

func modelOrDefault() string {
	if chatModel != "" {
		return chatModel
	}
	return cfg.DefaultModel
}

func init() {
	chatCmd.Flags().StringVar(&chatModel, "model", "", "model id (default from config)")
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session id to resume or create")
	chatCmd.Flags().StringVar(&chatSystem, "system", "", "system instruction for the conversation")
	chatCmd.Flags().BoolVar(&chatTools, "tools", true, "allow the model to invoke tools")
}

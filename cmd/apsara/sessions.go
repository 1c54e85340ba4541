package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect and manage stored sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		summaries, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("no sessions")
			return nil
		}
		for _, s := range summaries {
			model := s.Model
			if model == "" {
				model = "-"
			}
			fmt.Printf("%s  %s  %s  %d message(s)\n",
				s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), model, s.MessageCount)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session's message log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		sess, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("session %s, created %s\n", sess.ID, sess.CreatedAt.Format("2006-01-02 15:04:05"))
		if sess.Model != "" {
			fmt.Printf("model: %s\n", sess.Model)
		}
		if sess.SystemInstruction != "" {
			fmt.Printf("system instruction: %s\n", sess.SystemInstruction)
		}
		for _, m := range sess.Messages {
			fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("15:04:05"), m.Role, m.Content)
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and all its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		existed, err := store.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !existed {
			fmt.Printf("session %s not found\n", args[0])
			return nil
		}
		fmt.Printf("session %s deleted\n", args[0])
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

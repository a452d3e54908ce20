package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"career_assistant/pkg"
	"career_assistant/src"
	"career_assistant/src/history"
	"career_assistant/src/logger"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

const banner = "Career assistant. Ask a question, /reset to clear the history, /exit to quit."

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := src.NewApp(ctx, config)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, banner)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "\nYou: ")
				if !scanner.Scan() {
					break
				}

				input := strings.TrimSpace(scanner.Text())
				switch input {
				case "":
					continue
				case "/exit", "/quit":
					return nil
				case "/reset":
					if err := app.Assistant.Clear(ctx); err != nil {
						logger.Error().Err(err).Msg("Failed to clear history")
					}
					fmt.Fprintln(out, "\n"+banner)
					continue
				}

				answer, err := app.Assistant.Answer(ctx, input)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					fmt.Fprintf(out, "Error: %v\n", err)
					continue
				}
				fmt.Fprintf(out, "Assistant: %s\n", answer)
			}
			return scanner.Err()
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question and record the turn",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := src.NewApp(ctx, config)
			if err != nil {
				return err
			}
			defer app.Close()

			answer, err := app.Assistant.Answer(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the chat history and the chat memory index",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := history.NewStore(ctx, config.StorageConfig)
			if err != nil {
				return err
			}
			if closer, ok := store.(io.Closer); ok {
				defer closer.Close()
			}

			if _, err := history.ClearAndSave(ctx, store); err != nil {
				return err
			}

			embedder, err := src.NewEmbedder(config)
			if err != nil {
				return err
			}
			if err := src.NewMemoryIndex(config, embedder).Drop(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Chat history cleared")
			return nil
		},
	}
}

func indexCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the document index from DOCUMENTS_DIR",
		Long: `Build the document index from the PDF files in DOCUMENTS_DIR.

An existing index is reused unless --force is given, in which case the
documents are read and embedded again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			embedder, err := src.NewEmbedder(config)
			if err != nil {
				return err
			}

			builder := src.NewDocumentBuilder(config, embedder)
			folder := config.StorageConfig.DocumentsDir

			build := builder.LoadOrBuild
			if force {
				build = builder.Build
			}
			store, err := build(ctx, folder)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Document index ready: %d chunks in %s\n", store.Len(), config.StorageConfig.DocumentIndexDir)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Rebuild even if an index exists")
	return cmd
}

func historyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the recorded conversation without modifying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := history.NewStore(ctx, config.StorageConfig)
			if err != nil {
				return err
			}
			if closer, ok := store.(io.Closer); ok {
				defer closer.Close()
			}

			turns, err := store.Peek(ctx)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), turns, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the conversation as JSON messages")
	return cmd
}

func printHistory(out io.Writer, turns []pkg.Turn, asJSON bool) error {
	if asJSON {
		messages := make([]pkg.ConversationMessage, 0, len(turns)*2)
		for _, turn := range turns {
			messages = append(messages,
				pkg.ConversationMessage{Role: "user", Content: turn.User},
				pkg.ConversationMessage{Role: "assistant", Content: turn.Bot},
			)
		}
		data, err := sonic.ConfigStd.MarshalIndent(messages, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal history: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(turns) == 0 {
		fmt.Fprintln(out, "No conversation recorded")
		return nil
	}
	for _, turn := range turns {
		fmt.Fprintf(out, "You: %s\nAssistant: %s\n\n", turn.User, turn.Bot)
	}
	return nil
}


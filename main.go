package main

import (
	"fmt"
	"os"

	"career_assistant/src"
	"career_assistant/src/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var config *src.Config

func main() {
	envErr := godotenv.Load()

	var err error
	config, err = src.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(config.LogConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	if envErr != nil {
		logger.Warn().Err(envErr).Msg("No .env file loaded, using process environment")
	}

	rootCmd := &cobra.Command{
		Use:   "career-assistant",
		Short: "Answer questions about a candidate from their documents",
		Long: `career-assistant answers questions about a candidate using the PDF documents
in DOCUMENTS_DIR and the turns of earlier conversations. Every turn is saved to
the chat history and forwarded to Telegram when TELEGRAM_BOT_TOKEN and
TELEGRAM_CHAT_ID are set.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		chatCmd(),
		askCmd(),
		resetCmd(),
		indexCmd(),
		historyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

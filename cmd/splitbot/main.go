package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/splitbot/internal/bot"
	"github.com/zombor/splitbot/internal/extraction"
	"github.com/zombor/splitbot/internal/receipt"
	"github.com/zombor/splitbot/internal/session"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Local .env is optional
	_ = godotenv.Load()

	fs := ff.NewFlagSet("splitbot")
	var (
		discordToken   = fs.StringLong("discord-token", "", "Discord bot token (or set SPLITBOT_DISCORD_TOKEN env var)")
		storagePath    = fs.StringLong("storage", "./uploads", "Directory for archived uploads")
		recognizerType = fs.StringLong("recognizer", "gemini", "Recognizer type: 'gemini' or 'ollama'")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, bakllava, qwen2-vl)")
		language       = fs.StringLong("language", "German", "Language of the receipts, passed to the recognizer")
		nameBlockSkip  = fs.IntLong("name-block-skip", 5, "Header lines to skip before product names on structured receipts")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("SPLITBOT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	token := *discordToken
	if token == "" {
		slog.Error("Discord token is required. Set --discord-token flag or SPLITBOT_DISCORD_TOKEN environment variable")
		os.Exit(1)
	}

	// Initialize recognizer based on type
	var recognizer extraction.Recognizer
	var err error
	switch *recognizerType {
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini recognizer...", "model", *geminiModel)
		recognizer, err = extraction.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama recognizer...", "url", *ollamaURL, "model", *ollamaModel)
		recognizer, err = extraction.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid recognizer type", "type", *recognizerType, "valid", "gemini or ollama")
		os.Exit(1)
	}
	defer recognizer.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	storage, err := receipt.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	// Initialize receipt pipeline
	parser := receipt.NewParser()
	parser.NameBlockSkip = *nameBlockSkip
	extractor := extraction.New(recognizer, *language)
	receiptService := receipt.NewService(extractor, parser, storage)

	// The bot delivers the engine's notifications, so it is built first and
	// the engine attached afterwards
	discordBot, err := bot.New(token, receiptService)
	if err != nil {
		slog.Error("Failed to initialize Discord bot", "error", err)
		os.Exit(1)
	}
	engine := session.NewEngine(session.NewStore(), discordBot)
	discordBot.SetEngine(engine)

	if err := discordBot.Start(); err != nil {
		slog.Error("Failed to connect to Discord", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot started", "recognizer", *recognizerType, "language", *language)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
	if err := discordBot.Stop(); err != nil {
		slog.Error("Closing Discord session failed", "error", err)
	}
}

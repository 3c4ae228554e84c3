package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/zombor/splitbot/internal/extraction"
	"github.com/zombor/splitbot/internal/receipt"
	"github.com/zombor/splitbot/internal/session"
)

// decisionPrefix namespaces this bot's button custom IDs
const decisionPrefix = "decision:"

const welcomeText = "Send me a PDF or a photo of your receipt and I will walk you through splitting it item by item."

// Bot bridges Discord events to the receipt pipeline and the confirmation
// engine. One Discord channel is one conversation.
type Bot struct {
	discord *discordgo.Session
	service *receipt.Service
	engine  *session.Engine
	client  *http.Client
}

// New creates a Bot and registers its event handlers. The confirmation
// engine is attached afterwards with SetEngine, since the engine notifies
// through the bot itself.
func New(token string, service *receipt.Service) (*Bot, error) {
	discord, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	b := &Bot{
		discord: discord,
		service: service,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	// Register event handlers
	discord.AddHandler(b.onReady)
	discord.AddHandler(b.onMessageCreate)
	discord.AddHandler(b.onInteractionCreate)

	discord.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return b, nil
}

// SetEngine attaches the confirmation engine. Must be called before Start.
func (b *Bot) SetEngine(engine *session.Engine) {
	b.engine = engine
}

// Start opens the Discord connection
func (b *Bot) Start() error {
	if err := b.discord.Open(); err != nil {
		return fmt.Errorf("opening discord session: %w", err)
	}
	return nil
}

// Stop closes the Discord connection
func (b *Bot) Stop() error {
	return b.discord.Close()
}

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	slog.Info("Connected to Discord", "user", event.User.Username)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore bot messages
	if m.Author.Bot {
		return
	}

	if len(m.Attachments) > 0 {
		b.handleUpload(m)
		return
	}

	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}
	if strings.EqualFold(content, "!split") {
		b.sendText(m.ChannelID, welcomeText)
		return
	}

	// Free text is only meaningful as a price correction; anything else is
	// channel chatter and stays unanswered
	b.engine.HandleCorrection(m.ChannelID, content)
}

// handleUpload acknowledges the upload immediately and runs the slow
// extraction pipeline off the event path, so one conversation's OCR never
// stalls another conversation's button presses.
func (b *Bot) handleUpload(m *discordgo.MessageCreate) {
	attachment := m.Attachments[0]
	b.sendText(m.ChannelID, "Processing your receipt...")

	go func() {
		data, err := b.download(attachment.URL)
		if err != nil {
			slog.Error("Downloading attachment failed",
				"channel", m.ChannelID,
				"filename", attachment.Filename,
				"error", err,
			)
			b.sendText(m.ChannelID, "Could not download the file, please try again.")
			return
		}

		b.processUpload(m.ChannelID, extraction.Document{
			Data:     data,
			Kind:     documentKind(attachment),
			Filename: attachment.Filename,
		})
	}()
}

func (b *Bot) processUpload(conversationID string, doc extraction.Document) {
	rcpt, err := b.service.ProcessUpload(context.Background(), doc)
	switch {
	case errors.Is(err, receipt.ErrNoText):
		b.sendText(conversationID, "Could not read the receipt.")
	case errors.Is(err, receipt.ErrEmptyReceipt):
		b.sendText(conversationID, "No items found on the receipt.")
	case err != nil:
		slog.Error("Processing upload failed", "conversation", conversationID, "error", err)
		b.sendText(conversationID, "Something went wrong while reading the receipt.")
	default:
		b.engine.StartSession(conversationID, rcpt)
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	customID := i.MessageComponentData().CustomID
	if !strings.HasPrefix(customID, decisionPrefix) {
		return
	}

	// Acknowledge the press; all replies arrive as regular channel messages
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		slog.Warn("Acknowledging interaction failed", "error", err)
	}

	decision, ok := parseDecision(strings.TrimPrefix(customID, decisionPrefix))
	if !ok {
		return
	}
	b.engine.HandleDecision(i.ChannelID, decision)
}

func (b *Bot) download(url string) ([]byte, error) {
	resp, err := b.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching attachment: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading attachment body: %w", err)
	}
	return data, nil
}

func (b *Bot) sendText(conversationID string, text string) {
	if _, err := b.discord.ChannelMessageSend(conversationID, text); err != nil {
		slog.Error("Sending message failed", "conversation", conversationID, "error", err)
	}
}

// documentKind classifies an attachment as PDF or raster image
func documentKind(attachment *discordgo.MessageAttachment) extraction.Kind {
	if attachment.ContentType == "application/pdf" ||
		strings.EqualFold(filepath.Ext(attachment.Filename), ".pdf") {
		return extraction.KindPDF
	}
	return extraction.KindImage
}

// parseDecision maps a button custom ID suffix back to a Decision
func parseDecision(s string) (session.Decision, bool) {
	switch session.Action(s) {
	case session.ActionAccept:
		return session.DecisionAccept, true
	case session.ActionEdit:
		return session.DecisionEdit, true
	case session.ActionPersonal:
		return session.DecisionPersonal, true
	case session.ActionDelete:
		return session.DecisionDelete, true
	}
	return 0, false
}

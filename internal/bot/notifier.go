package bot

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"github.com/zombor/splitbot/internal/receipt"
	"github.com/zombor/splitbot/internal/session"
)

// ShowItem presents one product with its decision buttons
func (b *Bot) ShowItem(conversationID string, product receipt.Product, actions []session.Action) {
	_, err := b.discord.ChannelMessageSendComplex(conversationID, &discordgo.MessageSend{
		Content:    fmt.Sprintf("%s\nPrice: %s", product.Name, formatEUR(product.Price)),
		Components: buttonRows(actions),
	})
	if err != nil {
		slog.Error("Sending item failed", "conversation", conversationID, "error", err)
	}
}

// ShowMessage delivers a plain text notice
func (b *Bot) ShowMessage(conversationID string, text string) {
	b.sendText(conversationID, text)
}

// ShowSettlement delivers the final breakdown
func (b *Bot) ShowSettlement(conversationID string, settlement receipt.Settlement) {
	b.sendText(conversationID, settlementMessage(settlement))
}

// buttonRows lays the action buttons out two per row, mirroring the
// two-by-two keyboard the confirmation flow was designed around
func buttonRows(actions []session.Action) []discordgo.MessageComponent {
	styles := map[session.Action]struct {
		label string
		style discordgo.ButtonStyle
	}{
		session.ActionAccept:   {"✅ Looks right", discordgo.SuccessButton},
		session.ActionEdit:     {"✏️ Fix price", discordgo.SecondaryButton},
		session.ActionPersonal: {"🔒 Just mine", discordgo.SecondaryButton},
		session.ActionDelete:   {"❌ Remove", discordgo.DangerButton},
	}

	var buttons []discordgo.MessageComponent
	for _, action := range actions {
		s, ok := styles[action]
		if !ok {
			continue
		}
		buttons = append(buttons, discordgo.Button{
			Label:    s.label,
			Style:    s.style,
			CustomID: decisionPrefix + string(action),
		})
	}

	var rows []discordgo.MessageComponent
	for len(buttons) > 0 {
		n := 2
		if len(buttons) < n {
			n = len(buttons)
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons[:n]})
		buttons = buttons[n:]
	}
	return rows
}

// settlementMessage renders the final breakdown as one message
func settlementMessage(s receipt.Settlement) string {
	var sb strings.Builder
	sb.WriteString("All items confirmed!\n\n")
	sb.WriteString(fmt.Sprintf("Total: %s", formatEUR(s.Total)))
	if s.DiscountApplied.IsPositive() {
		sb.WriteString(fmt.Sprintf("\nCard discount applied: -%s", formatEUR(s.DiscountApplied)))
	}
	sb.WriteString(fmt.Sprintf("\nYour personal items: %s", formatEUR(s.PersonalTotal)))
	sb.WriteString(fmt.Sprintf("\nThe other half owes you: %s", formatEUR(s.OwedByOther)))
	return sb.String()
}

// formatEUR renders a 2dp decimal amount as euros
func formatEUR(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, money.EUR).Display()
}

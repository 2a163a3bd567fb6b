package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/KennethC12/Ticketbot/internal/models"
)

func TestPanelButtonsCoverAllTicketTypes(t *testing.T) {
	seen := map[models.TicketType]bool{}
	for _, tt := range panelButtonTypes {
		seen[tt] = true
	}
	for _, tt := range models.TicketTypes {
		if !seen[tt] {
			t.Errorf("ticket type %q has no panel button", tt)
		}
	}
	if len(panelButtonTypes) != len(models.TicketTypes) {
		t.Errorf("panel has %d buttons, want %d", len(panelButtonTypes), len(models.TicketTypes))
	}
}

func TestPreviewEmbedReflectsTicket(t *testing.T) {
	ticket := &models.Ticket{
		Type:      models.TicketTypeNewOrder,
		OrderLink: "https://example.com/cart",
		OrderDetails: models.OrderDetails{
			AccountName:    "random",
			PaymentMethods: "Cash App",
			Tip:            "$5",
			DeliveryType:   models.DeliveryMeetAtDoor,
			DeliveryNotes:  "ring twice",
		},
	}
	embed := previewEmbed(ticket)

	wantValues := []string{
		"[Open Cart](https://example.com/cart)",
		"random",
		"Cash App",
		"$5",
		models.DeliveryMeetAtDoor,
		"ring twice",
	}
	if len(embed.Fields) != len(wantValues) {
		t.Fatalf("preview has %d fields, want %d", len(embed.Fields), len(wantValues))
	}
	for i, want := range wantValues {
		if embed.Fields[i].Value != want {
			t.Errorf("field %d = %q, want %q", i, embed.Fields[i].Value, want)
		}
	}
}

func TestPreviewEmbedFallsBackToDefaults(t *testing.T) {
	embed := previewEmbed(&models.Ticket{Type: models.TicketTypeNewOrder})
	wantValues := []string{
		"Not set",
		models.DefaultAccountName,
		models.DefaultPaymentMethods,
		models.DefaultTip,
		models.DefaultDeliveryType,
		models.DefaultDeliveryNotes,
	}
	for i, want := range wantValues {
		if embed.Fields[i].Value != want {
			t.Errorf("field %d = %q, want %q", i, embed.Fields[i].Value, want)
		}
	}
}

func TestSubmittedEmbed(t *testing.T) {
	embed := submittedEmbed(&models.Ticket{Type: models.TicketTypeNewOrder})
	if embed.Title != "Philly Eats – Order Submitted" {
		t.Errorf("title = %q", embed.Title)
	}
	if embed.Footer == nil || embed.Footer.Text != "Order submitted • Philly Eats" {
		t.Errorf("footer = %+v", embed.Footer)
	}
}

func TestOrderFormComponentsDisabled(t *testing.T) {
	rows := orderFormComponents(true)
	for _, row := range rows {
		actionsRow, ok := row.(discordgo.ActionsRow)
		if !ok {
			t.Fatalf("unexpected component %T", row)
		}
		for _, c := range actionsRow.Components {
			switch v := c.(type) {
			case discordgo.Button:
				if !v.Disabled {
					t.Errorf("button %s not disabled", v.CustomID)
				}
			case discordgo.SelectMenu:
				if !v.Disabled {
					t.Errorf("select %s not disabled", v.CustomID)
				}
			}
		}
	}
}

func TestStatusBannerEmbed(t *testing.T) {
	open := statusBannerEmbed(true)
	if open.Title != "🟢 We're Open!" || open.Color != colorOpen {
		t.Errorf("open banner = %q color=%#x", open.Title, open.Color)
	}
	closed := statusBannerEmbed(false)
	if closed.Title != "🔴 We're Closed" || closed.Color != colorClosed {
		t.Errorf("closed banner = %q color=%#x", closed.Title, closed.Color)
	}
}

package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/KennethC12/Ticketbot/internal/models"
)

// Цвета embed-ов.
const (
	colorBrand  = 0x00AEFF
	colorOpen   = 0x00FF00
	colorInfo   = 0x3498DB
	colorClosed = 0xFF0000
	colorDanger = 0xE74C3C
)

// custom_id кнопок и меню. Меняются вместе с обработчиками в bot.go.
const (
	idTicketNewOrder   = "ticket_new_order"
	idTicketOrderIssue = "ticket_order_issue"
	idTicketRefund     = "ticket_refund"
	idTicketReferral   = "ticket_referral"
	idTicketSupport    = "ticket_support"

	idOrderSubmit    = "order_submit_btn"
	idOrderName      = "order_name_btn"
	idOrderPayment   = "order_payment_btn"
	idOrderTip       = "order_tip_btn"
	idOrderNotes     = "order_notes_btn"
	idDeliverySelect = "order_delivery_select"

	idCloseTicket = "close_ticket"

	idOrderLinkModal  = "order_link_modal"
	idOrderFieldModal = "order_field_modal"
)

// panelButtonTypes сопоставляет кнопки панели категориям тикетов.
var panelButtonTypes = map[string]models.TicketType{
	idTicketNewOrder:   models.TicketTypeNewOrder,
	idTicketOrderIssue: models.TicketTypeOrderIssue,
	idTicketRefund:     models.TicketTypeRefundRequest,
	idTicketReferral:   models.TicketTypeCheckReferral,
	idTicketSupport:    models.TicketTypeGeneralSupport,
}

func panelEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🎫 Philly Eats - Support Tickets",
		Description: "Need help? Create a ticket by clicking one of the buttons below!\n\n" +
			"**📝 New Order** - Submit a new group order\n" +
			"**⚠️ Order Issue** - Report a problem with your order\n" +
			"**💰 Refund Request** - Request a refund\n" +
			"**🔗 Check Referral** - Verify referral status\n" +
			"**❓ General Support** - Other questions",
		Color:  colorBrand,
		Footer: &discordgo.MessageEmbedFooter{Text: "We're open! Tap a button to get started."},
	}
}

func panelComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "📝 New Order", Style: discordgo.SuccessButton, CustomID: idTicketNewOrder},
			discordgo.Button{Label: "⚠️ Order Issue", Style: discordgo.DangerButton, CustomID: idTicketOrderIssue},
			discordgo.Button{Label: "💰 Refund Request", Style: discordgo.DangerButton, CustomID: idTicketRefund},
			discordgo.Button{Label: "🔗 Check Referral", Style: discordgo.PrimaryButton, CustomID: idTicketReferral},
			discordgo.Button{Label: "❓ General Support", Style: discordgo.SecondaryButton, CustomID: idTicketSupport},
		}},
	}
}

func welcomeEmbed(t *models.Ticket, ownerMention string) *discordgo.MessageEmbed {
	color := colorInfo
	if t.Type == models.TicketTypeNewOrder {
		color = colorOpen
	}
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎫 %s", t.Type),
		Description: fmt.Sprintf("Welcome %s! A staff member will assist you shortly.", ownerMention),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Ticket Type", Value: string(t.Type), Inline: true},
			{Name: "Created By", Value: ownerMention, Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Use /close to close this ticket"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if t.OrderLink != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🔗 Order Link",
			Value: fmt.Sprintf("[Open Cart](%s)", t.OrderLink),
		})
	}
	return embed
}

func closeComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "🔒 Close Ticket", Style: discordgo.DangerButton, CustomID: idCloseTicket},
		}},
	}
}

// previewEmbed собирает превью заказа целиком из текущего состояния тикета.
// Вызывается после каждой правки поля — вид никогда не расходится с записью.
func previewEmbed(t *models.Ticket) *discordgo.MessageEmbed {
	linkValue := "Not set"
	if t.OrderLink != "" {
		linkValue = fmt.Sprintf("[Open Cart](%s)", t.OrderLink)
	}
	d := t.OrderDetails
	return &discordgo.MessageEmbed{
		Title:       "Philly Eats – Helper",
		Description: "**Before you order...**\nReview your info before submitting your ticket.",
		Color:       colorBrand,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📎 Group Link:", Value: linkValue},
			{Name: "🪪 Account Name:", Value: orDefault(d.AccountName, models.DefaultAccountName)},
			{Name: "💳 Preferred Payment Methods:", Value: orDefault(d.PaymentMethods, models.DefaultPaymentMethods)},
			{Name: "💰 Tip:", Value: orDefault(d.Tip, models.DefaultTip)},
			{Name: "📦 Delivery Type:", Value: orDefault(d.DeliveryType, models.DefaultDeliveryType)},
			{Name: "📝 Delivery Notes:", Value: orDefault(d.DeliveryNotes, models.DefaultDeliveryNotes)},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Philly Eats • Preview"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func submittedEmbed(t *models.Ticket) *discordgo.MessageEmbed {
	embed := previewEmbed(t)
	embed.Title = "Philly Eats – Order Submitted"
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Order submitted • Philly Eats"}
	return embed
}

func orderFormComponents(disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "Submit", Style: discordgo.SuccessButton, CustomID: idOrderSubmit, Disabled: disabled},
			discordgo.Button{Label: "Name", Style: discordgo.SecondaryButton, CustomID: idOrderName, Disabled: disabled},
			discordgo.Button{Label: "Payment", Style: discordgo.SecondaryButton, CustomID: idOrderPayment, Disabled: disabled},
			discordgo.Button{Label: "Tip", Style: discordgo.SecondaryButton, CustomID: idOrderTip, Disabled: disabled},
			discordgo.Button{Label: "Notes", Style: discordgo.SecondaryButton, CustomID: idOrderNotes, Disabled: disabled},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				CustomID:    idDeliverySelect,
				Placeholder: "Delivery type (Leave / Meet)...",
				Disabled:    disabled,
				Options: []discordgo.SelectMenuOption{
					{
						Label:       models.DeliveryLeaveAtDoor,
						Value:       models.DeliveryLeaveAtDoor,
						Description: "Default – courier leaves it at your door",
					},
					{
						Label:       models.DeliveryMeetAtDoor,
						Value:       models.DeliveryMeetAtDoor,
						Description: "Meet the courier at the door / outside",
					},
				},
			},
		}},
	}
}

func closedEmbed(actorMention string, delay time.Duration) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🔒 Ticket Closed",
		Description: fmt.Sprintf("This ticket has been closed by %s.\nChannel will be deleted in %d seconds.",
			actorMention, int(delay.Seconds())),
		Color: colorDanger,
	}
}

func statusBannerEmbed(isOpen bool) *discordgo.MessageEmbed {
	if isOpen {
		return &discordgo.MessageEmbed{
			Title:       "🟢 We're Open!",
			Description: "Tap **Order** below to send us your details.\n\nReady to take your orders now! 🍽️",
			Color:       colorOpen,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Status", Value: "✅ Taking Orders", Inline: true},
			},
			Footer:    &discordgo.MessageEmbedFooter{Text: "Philly Eats"},
			Timestamp: time.Now().Format(time.RFC3339),
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "🔴 We're Closed",
		Description: "Sorry, we're not taking orders right now.\n\nCheck back later! 😊",
		Color:       colorClosed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: "❌ Closed", Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Philly Eats"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

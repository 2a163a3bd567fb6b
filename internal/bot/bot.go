package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KennethC12/Ticketbot/internal/config"
	"github.com/KennethC12/Ticketbot/internal/errs"
	"github.com/KennethC12/Ticketbot/internal/models"
	"github.com/KennethC12/Ticketbot/internal/service"
)

// Bot — Discord-фронтенд: слэш-команды, панель тикетов, форма заказа.
// Обработчики не держат состояния: идентификаторы берутся из интеракции,
// запись тикета каждый раз перечитывается из хранилища.
type Bot struct {
	session *discordgo.Session
	config  *config.Config
	tickets *service.TicketService
	status  *service.StatusService
}

func NewBot(cfg *config.Config, adapter *Adapter, tickets *service.TicketService, status *service.StatusService) *Bot {
	return &Bot{
		session: adapter.Session(),
		config:  cfg,
		tickets: tickets,
		status:  status,
	}
}

func (b *Bot) Start() error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as %s", r.User.Username)
		b.registerCommands()
		log.Println("Ticket system ready")
	})
	b.session.AddHandler(b.onInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

var commands = []*discordgo.ApplicationCommand{
	{Name: "panel", Description: "Create the ticket panel (Admin only)"},
	{Name: "close", Description: "Close the current ticket"},
	{
		Name:        "add",
		Description: "Add a user to the current ticket",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "The user to add to the ticket", Required: true},
		},
	},
	{
		Name:        "remove",
		Description: "Remove a user from the current ticket",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "The user to remove from the ticket", Required: true},
		},
	},
	{
		Name:        "status",
		Description: "Set server open/closed status",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "state",
				Description: "Open or closed?",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "🟢 Open", Value: "open"},
					{Name: "🔴 Closed", Value: "closed"},
				},
			},
		},
	},
}

func (b *Bot) registerCommands() {
	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			log.Printf("register command %s: %v", cmd.Name, err)
		}
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(i)
	case discordgo.InteractionModalSubmit:
		b.handleModal(i)
	}
}

func (b *Bot) handleCommand(i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "panel":
		b.handlePanel(i)
	case "close":
		b.handleClose(i)
	case "add":
		b.handleAccess(i, true)
	case "remove":
		b.handleAccess(i, false)
	case "status":
		b.handleStatus(i)
	}
}

func (b *Bot) handleComponent(i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if ticketType, ok := panelButtonTypes[customID]; ok {
		b.handlePanelButton(i, customID, ticketType)
		return
	}
	switch customID {
	case idOrderSubmit:
		b.handleOrderSubmit(i)
	case idOrderName:
		b.presentFieldModal(i, service.FieldAccountName, "Set Account Name",
			"Account name for this order", "e.g. random", discordgo.TextInputShort, true)
	case idOrderPayment:
		b.presentFieldModal(i, service.FieldPaymentMethods, "Set Payment Methods",
			"Payment methods (e.g. Cash App, Zelle)", models.DefaultPaymentMethods, discordgo.TextInputParagraph, false)
	case idOrderTip:
		b.presentFieldModal(i, service.FieldTip, "Set Tip",
			"Tip amount (e.g. $3, 10%)", models.DefaultTip, discordgo.TextInputShort, false)
	case idOrderNotes:
		b.presentFieldModal(i, service.FieldDeliveryNotes, "Set Delivery Notes",
			"Delivery notes for courier", models.DefaultDeliveryNotes, discordgo.TextInputParagraph, false)
	case idDeliverySelect:
		b.handleDeliverySelect(i)
	case idCloseTicket:
		b.handleClose(i)
	}
}

func (b *Bot) handleModal(i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	switch {
	case strings.HasPrefix(data.CustomID, idOrderLinkModal+":"):
		buttonID := strings.TrimPrefix(data.CustomID, idOrderLinkModal+":")
		ticketType, ok := panelButtonTypes[buttonID]
		if !ok {
			return
		}
		b.createTicketChannel(i, ticketType, modalInputValue(data))
	case strings.HasPrefix(data.CustomID, idOrderFieldModal+":"):
		field := strings.TrimPrefix(data.CustomID, idOrderFieldModal+":")
		b.handleFieldModal(i, field, modalInputValue(data))
	}
}

// ---------- панель и создание тикетов ----------

func (b *Bot) handlePanel(i *discordgo.InteractionCreate) {
	if !b.memberHas(i, discordgo.PermissionAdministrator) {
		b.respondEphemeral(i, "❌ You need Administrator permission.")
		return
	}
	_, err := b.session.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{panelEmbed()},
		Components: panelComponents(),
	})
	if err != nil {
		log.Printf("panel: send: %v", err)
		b.respondEphemeral(i, "❌ Failed to create the panel.")
		return
	}
	b.respondEphemeral(i, "✅ Ticket panel created!")
}

func (b *Bot) handlePanelButton(i *discordgo.InteractionCreate, buttonID string, ticketType models.TicketType) {
	if !ticketType.RequiresOrderLink() {
		b.createTicketChannel(i, ticketType, "")
		return
	}
	// Для заказов сначала спрашиваем ссылку на корзину.
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: idOrderLinkModal + ":" + buttonID,
			Title:    fmt.Sprintf("Create %s Ticket", ticketType),
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "order_link",
						Label:       "Group Order Link",
						Placeholder: "https://eats.uber.com/group-orders/.../join",
						Style:       discordgo.TextInputShort,
						Required:    true,
					},
				}},
			},
		},
	})
	if err != nil {
		log.Printf("panel button: modal: %v", err)
	}
}

func (b *Bot) createTicketChannel(i *discordgo.InteractionCreate, ticketType models.TicketType, orderLink string) {
	ctx := context.Background()
	user := i.Member.User

	channelID, err := b.tickets.CreateTicket(ctx, i.GuildID, user.ID, user.Username, ticketType, orderLink)
	if err != nil {
		log.Printf("create ticket: %v", err)
		b.respondEphemeral(i, userMessage(err))
		return
	}

	ticket, err := b.tickets.Ticket(i.GuildID, channelID)
	if err != nil {
		log.Printf("create ticket: reload: %v", err)
		b.respondEphemeral(i, "❌ Something went wrong creating your ticket.")
		return
	}

	if _, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{welcomeEmbed(ticket, user.Mention())},
		Components: closeComponents(),
	}); err != nil {
		log.Printf("create ticket: welcome: %v", err)
	}

	// Превью заказа — для новых заказов и любых тикетов со ссылкой.
	if ticketType == models.TicketTypeNewOrder || orderLink != "" {
		preview, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{previewEmbed(ticket)},
			Components: orderFormComponents(false),
		})
		if err != nil {
			log.Printf("create ticket: preview: %v", err)
		} else if err := b.tickets.RecordPreviewMessage(i.GuildID, channelID, preview.ID); err != nil {
			log.Printf("create ticket: record preview: %v", err)
		}
	}

	b.respondEphemeral(i, fmt.Sprintf("✅ Ticket created! <#%s>", channelID))
}

// ---------- форма заказа ----------

func (b *Bot) presentFieldModal(i *discordgo.InteractionCreate, field, title, label, placeholder string, style discordgo.TextInputStyle, required bool) {
	if _, err := b.tickets.Ticket(i.GuildID, i.ChannelID); err != nil {
		b.respondEphemeral(i, "❌ This is not a valid ticket.")
		return
	}
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: idOrderFieldModal + ":" + field,
			Title:    title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    field,
						Label:       label,
						Placeholder: placeholder,
						Style:       style,
						Required:    required,
					},
				}},
			},
		},
	})
	if err != nil {
		log.Printf("field modal %s: %v", field, err)
	}
}

func (b *Bot) handleFieldModal(i *discordgo.InteractionCreate, field, raw string) {
	if _, err := b.tickets.SetOrderField(i.GuildID, i.ChannelID, field, raw); err != nil {
		log.Printf("set order field %s: %v", field, err)
		b.respondEphemeral(i, userMessage(err))
		return
	}
	b.refreshPreview(i.GuildID, i.ChannelID)
	b.respondEphemeral(i, fieldUpdatedMessage(field))
}

func (b *Bot) handleDeliverySelect(i *discordgo.InteractionCreate) {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}
	if _, err := b.tickets.SetOrderField(i.GuildID, i.ChannelID, service.FieldDeliveryType, values[0]); err != nil {
		b.respondEphemeral(i, userMessage(err))
		return
	}
	ticket, err := b.tickets.Ticket(i.GuildID, i.ChannelID)
	if err != nil {
		b.respondEphemeral(i, userMessage(err))
		return
	}
	// Селект висит на самом превью — обновляем его прямо в ответе.
	err = b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{previewEmbed(ticket)},
			Components: orderFormComponents(false),
		},
	})
	if err != nil {
		log.Printf("delivery select: %v", err)
	}
}

func (b *Bot) handleOrderSubmit(i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := i.Member.User

	if _, err := b.tickets.SubmitOrder(ctx, i.GuildID, i.ChannelID, user.ID, b.isStaff(i)); err != nil {
		if errors.Is(err, errs.ErrUnauthorized) {
			b.respondEphemeral(i, "❌ Only the ticket owner or staff can submit this order.")
			return
		}
		b.respondEphemeral(i, userMessage(err))
		return
	}

	ticket, err := b.tickets.Ticket(i.GuildID, i.ChannelID)
	if err != nil {
		b.respondEphemeral(i, userMessage(err))
		return
	}
	err = b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{submittedEmbed(ticket)},
			Components: orderFormComponents(true),
		},
	})
	if err != nil {
		log.Printf("order submit: %v", err)
	}
	if _, err := b.session.ChannelMessageSend(i.ChannelID, fmt.Sprintf("📥 New order submitted by %s.", user.Mention())); err != nil {
		log.Printf("order submit: announce: %v", err)
	}
}

// refreshPreview пересобирает превью из текущего состояния тикета
// и редактирует сообщение на месте.
func (b *Bot) refreshPreview(guildID, channelID string) {
	ticket, err := b.tickets.Ticket(guildID, channelID)
	if err != nil || ticket.PreviewMessageID == "" {
		return
	}
	edit := discordgo.NewMessageEdit(channelID, ticket.PreviewMessageID)
	edit.Embeds = &[]*discordgo.MessageEmbed{previewEmbed(ticket)}
	components := orderFormComponents(ticket.OrderSubmitted)
	edit.Components = &components
	if _, err := b.session.ChannelMessageEditComplex(edit); err != nil {
		log.Printf("refresh preview %s: %v", channelID, err)
	}
}

// ---------- закрытие и доступ ----------

func (b *Bot) handleClose(i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := i.Member.User

	err := b.tickets.CloseTicket(ctx, i.GuildID, i.ChannelID, user.ID, b.isStaff(i))
	switch {
	case errors.Is(err, errs.ErrTicketNotFound):
		b.respondEphemeral(i, "❌ This command can only be used in ticket channels.")
		return
	case errors.Is(err, errs.ErrUnauthorized):
		b.respondEphemeral(i, "❌ Only the ticket creator or staff can close this ticket.")
		return
	case errors.Is(err, errs.ErrAlreadyClosed):
		b.respondEphemeral(i, "❌ This ticket is already closed.")
		return
	case err != nil:
		log.Printf("close ticket: %v", err)
		b.respondEphemeral(i, "❌ Failed to close the ticket.")
		return
	}

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{closedEmbed(user.Mention(), b.config.CloseDelay)},
		},
	}
	if err := b.session.InteractionRespond(i.Interaction, resp); err != nil {
		log.Printf("close ticket: respond: %v", err)
	}
}

func (b *Bot) handleAccess(i *discordgo.InteractionCreate, allow bool) {
	ctx := context.Background()

	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		return
	}
	target := opts[0].UserValue(b.session)
	isStaff := b.isStaff(i)

	var err error
	if allow {
		err = b.tickets.AddUser(ctx, i.GuildID, i.ChannelID, isStaff, target.ID)
	} else {
		err = b.tickets.RemoveUser(ctx, i.GuildID, i.ChannelID, isStaff, target.ID)
	}
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		b.respondEphemeral(i, "❌ You need 'Manage Channels' permission.")
	case errors.Is(err, errs.ErrTicketNotFound):
		b.respondEphemeral(i, "❌ This command can only be used in ticket channels.")
	case err != nil:
		log.Printf("ticket access: %v", err)
		b.respondEphemeral(i, "❌ Failed to update channel access.")
	case allow:
		b.respond(i, fmt.Sprintf("✅ Added %s to this ticket.", target.Mention()))
	default:
		b.respond(i, fmt.Sprintf("✅ Removed %s from this ticket.", target.Mention()))
	}
}

// ---------- статус сервера ----------

func (b *Bot) handleStatus(i *discordgo.InteractionCreate) {
	ctx := context.Background()

	opts := i.ApplicationCommandData().Options
	if len(opts) == 0 {
		return
	}
	isOpen := opts[0].StringValue() == "open"
	canManage := b.memberHas(i, discordgo.PermissionManageMessages)

	channelID, err := b.status.SetStatus(ctx, i.GuildID, isOpen, canManage, b.postStatusBanner)
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		b.respondEphemeral(i, "❌ You need 'Manage Messages' permission.")
		return
	case errors.Is(err, errs.ErrStatusChannelNotFound):
		b.respondEphemeral(i, fmt.Sprintf(
			"❌ Couldn't find status channel. Please create a channel named `%s` or use this command in the channel where you want status updates.",
			b.config.StatusChannelName))
		return
	case err != nil:
		log.Printf("status: %v", err)
		b.respondEphemeral(i, "❌ Failed to update status.")
		return
	}

	label := "🔴 CLOSED"
	if isOpen {
		label = "🟢 OPEN"
	}
	b.respondEphemeral(i, fmt.Sprintf("✅ Status updated to: **%s**\nMessage sent in <#%s>", label, channelID))
}

// postStatusBanner отправляет баннер: при открытии — с панелью тикетов.
func (b *Bot) postStatusBanner(_ context.Context, channelID string, isOpen bool) (string, error) {
	send := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{statusBannerEmbed(isOpen)},
	}
	if isOpen {
		send.Components = panelComponents()
	}
	m, err := b.session.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// ---------- вспомогательные ----------

// isStaff: права "Manage Channels" на платформе либо админ из конфига.
func (b *Bot) isStaff(i *discordgo.InteractionCreate) bool {
	if i.Member == nil || i.Member.User == nil {
		return false
	}
	if b.config.IsAdmin(i.Member.User.ID) {
		return true
	}
	return b.memberHas(i, discordgo.PermissionManageChannels)
}

func (b *Bot) memberHas(i *discordgo.InteractionCreate, perm int64) bool {
	if i.Member == nil {
		return false
	}
	if i.Member.User != nil && b.config.IsAdmin(i.Member.User.ID) {
		return true
	}
	return i.Member.Permissions&perm != 0
}

func (b *Bot) respond(i *discordgo.InteractionCreate, content string) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		log.Printf("respond: %v", err)
	}
}

func (b *Bot) respondEphemeral(i *discordgo.InteractionCreate, content string) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("respond ephemeral: %v", err)
	}
}

// modalInputValue достаёт значение единственного текстового поля модалки.
func modalInputValue(data discordgo.ModalSubmitInteractionData) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range actionsRow.Components {
			if input, ok := c.(*discordgo.TextInput); ok {
				return input.Value
			}
		}
	}
	return ""
}

// userMessage переводит ошибку ядра в текст для пользователя.
func userMessage(err error) string {
	switch {
	case errors.Is(err, errs.ErrTicketNotFound):
		return "❌ This is not a valid ticket."
	case errors.Is(err, errs.ErrUnauthorized):
		return "❌ You are not allowed to do that."
	case errors.Is(err, errs.ErrAlreadyClosed):
		return "❌ This ticket is already closed."
	case errors.Is(err, errs.ErrOrderLinkRequired):
		return "❌ An order link is required for this ticket type."
	case errors.Is(err, errs.ErrOrderLinkNotAllowed):
		return "❌ This ticket type does not take an order link."
	case errors.Is(err, errs.ErrInvalidOrderField):
		return "❌ That value is not valid here."
	default:
		return "❌ Something went wrong. Please try again."
	}
}

func fieldUpdatedMessage(field string) string {
	switch field {
	case service.FieldAccountName:
		return "✅ Account name updated."
	case service.FieldPaymentMethods:
		return "✅ Payment methods updated."
	case service.FieldTip:
		return "✅ Tip updated."
	case service.FieldDeliveryNotes:
		return "✅ Delivery notes updated."
	default:
		return "✅ Updated."
	}
}

package models

import "time"

type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

type TicketType string

const (
	TicketTypeNewOrder       TicketType = "New Order"
	TicketTypeOrderIssue     TicketType = "Order Issue"
	TicketTypeRefundRequest  TicketType = "Refund Request"
	TicketTypeGeneralSupport TicketType = "General Support"
	TicketTypeCheckReferral  TicketType = "Check Referral"
)

// TicketTypes — закрытый набор категорий тикетов.
var TicketTypes = []TicketType{
	TicketTypeNewOrder,
	TicketTypeOrderIssue,
	TicketTypeRefundRequest,
	TicketTypeGeneralSupport,
	TicketTypeCheckReferral,
}

// Дефолтные значения полей формы заказа.
const (
	DefaultAccountName    = "Not set"
	DefaultPaymentMethods = "Not set (chef will confirm in ticket)"
	DefaultTip            = "$0"
	DefaultDeliveryType   = "Leave at my door"
	DefaultDeliveryNotes  = "N/A"
)

// Варианты доставки (закрытый выбор).
const (
	DeliveryLeaveAtDoor = "Leave at my door"
	DeliveryMeetAtDoor  = "Meet at my door"
)

// OrderDetails — изменяемая часть тикета: поля формы заказа.
type OrderDetails struct {
	AccountName    string `json:"account_name"`
	PaymentMethods string `json:"payment_methods"`
	Tip            string `json:"tip"`
	DeliveryType   string `json:"delivery_type"`
	DeliveryNotes  string `json:"delivery_notes"`
}

// DefaultOrderDetails возвращает форму заказа с дефолтными значениями.
func DefaultOrderDetails() OrderDetails {
	return OrderDetails{
		AccountName:    DefaultAccountName,
		PaymentMethods: DefaultPaymentMethods,
		Tip:            DefaultTip,
		DeliveryType:   DefaultDeliveryType,
		DeliveryNotes:  DefaultDeliveryNotes,
	}
}

// Ticket — запись тикета. Идентичность — пара (guild, channel),
// она же ключ в хранилище, поэтому в самой записи её нет.
type Ticket struct {
	UserID           string       `json:"user_id"`
	Type             TicketType   `json:"type"`
	OrderLink        string       `json:"order_link,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	ClosedAt         *time.Time   `json:"closed_at,omitempty"`
	Status           TicketStatus `json:"status"`
	PreviewMessageID string       `json:"preview_message_id,omitempty"`
	OrderSubmitted   bool         `json:"order_submitted,omitempty"`
	OrderDetails     OrderDetails `json:"order_details"`
}

// RequiresOrderLink сообщает, обязательна ли ссылка на заказ для категории.
func (t TicketType) RequiresOrderLink() bool {
	switch t {
	case TicketTypeNewOrder, TicketTypeOrderIssue, TicketTypeRefundRequest:
		return true
	}
	return false
}

// Valid проверяет, что категория входит в закрытый набор.
func (t TicketType) Valid() bool {
	for _, tt := range TicketTypes {
		if t == tt {
			return true
		}
	}
	return false
}

package errs

import "errors"

// Ошибки, возвращаемые пользователю (не фатальные).
var (
	// ErrTicketNotFound — канал не является тикетом.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrUnauthorized — у инициатора нет прав на операцию.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAlreadyClosed — повторное закрытие уже закрытого тикета.
	ErrAlreadyClosed = errors.New("ticket already closed")
	// ErrOrderLinkRequired — для категории обязательна ссылка на заказ.
	ErrOrderLinkRequired = errors.New("order link required for this ticket type")
	// ErrOrderLinkNotAllowed — категория не принимает ссылку на заказ.
	ErrOrderLinkNotAllowed = errors.New("order link not allowed for this ticket type")
	// ErrInvalidTicketType — категория вне закрытого набора.
	ErrInvalidTicketType = errors.New("invalid ticket type")
	// ErrInvalidOrderField — неизвестное поле формы заказа или недопустимое значение.
	ErrInvalidOrderField = errors.New("invalid order field")
	// ErrStatusChannelNotFound — не найден канал для баннера статуса.
	ErrStatusChannelNotFound = errors.New("status channel not found")
)

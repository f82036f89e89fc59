package service

import "errors"

// Виды ошибок; обработчики переводят их в HTTP-статусы
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	// ErrUpstream - отказ внешнего провайдера, сообщение клиенту отдаётся с 500
	ErrUpstream   = errors.New("upstream failure")
)

// Error несёт сообщение для клиента и вид ошибки
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Сообщения, которые видит клиент
const (
	MsgRegisterFieldsRequired = "Name, email, password required"
	MsgEmailInUse             = "Email already in use"
	MsgInvalidCredentials     = "Invalid credentials"
	MsgUserNotFound           = "User not found"
	MsgProductNotFound        = "Product not found"
	MsgNameAndPriceRequired   = "Name and price are required"
	MsgInvalidPrice           = "Price must be a non-negative number"
	MsgInvalidQuantity        = "Quantity must be a positive number"
	MsgCartItemsRequired      = "Cart items required"
	MsgInvalidStatus          = "Invalid status value"
	MsgOrderNotFound          = "Order not found"
	MsgNoItemsToPay           = "No items to pay for"
	MsgCheckoutFailed         = "Failed to create checkout session"
	MsgInvalidSignature       = "Invalid webhook signature"
)

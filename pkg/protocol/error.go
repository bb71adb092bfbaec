package protocol

// ErrorCode identifies the type of error sent to a client.
type ErrorCode uint16

const (
	ErrUnknown       ErrorCode = 0x0000 // Unknown error
	ErrInvalidFrame  ErrorCode = 0x0001 // Malformed frame or message
	ErrBadEvent      ErrorCode = 0x0002 // Malformed event
	ErrUnknownNode   ErrorCode = 0x0003 // No active node with the event's id
	ErrHandlerPanic  ErrorCode = 0x0004 // Handler panicked
	ErrQueueFull     ErrorCode = 0x0005 // Owner loop cannot take more work
	ErrSessionClosed ErrorCode = 0x0006 // Session no longer valid
	ErrServerError   ErrorCode = 0x0100 // Internal server error
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrInvalidFrame:
		return "InvalidFrame"
	case ErrBadEvent:
		return "BadEvent"
	case ErrUnknownNode:
		return "UnknownNode"
	case ErrHandlerPanic:
		return "HandlerPanic"
	case ErrQueueFull:
		return "QueueFull"
	case ErrSessionClosed:
		return "SessionClosed"
	case ErrServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Fatal   bool      `json:"fatal,omitempty"` // The connection will be closed
}

// EncodeErrorMessage encodes an ErrorMessage to bytes.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	EncodeErrorMessageTo(e, em)
	return e.Bytes()
}

// EncodeErrorMessageTo encodes an ErrorMessage using the provided encoder.
func EncodeErrorMessageTo(e *Encoder, em *ErrorMessage) {
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
}

// DecodeErrorMessage decodes an ErrorMessage from bytes.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	code, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	message, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	fatal, err := d.ReadBool()
	if err != nil {
		return nil, err
	}
	return &ErrorMessage{Code: ErrorCode(code), Message: message, Fatal: fatal}, nil
}

// NewError creates a new non-fatal ErrorMessage.
func NewError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message}
}

// NewFatalError creates a new fatal ErrorMessage.
func NewFatalError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message, Fatal: true}
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	if em.Fatal {
		return "fatal: " + em.Code.String() + ": " + em.Message
	}
	return em.Code.String() + ": " + em.Message
}

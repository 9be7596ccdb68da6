package errcode

// Code is a stable error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	InvalidParams     Code = "invalid_params"
	InvalidChannel    Code = "invalid_channel"
	InvalidPeripheral Code = "invalid_peripheral"
	InvalidFrequency  Code = "invalid_frequency"
	ModeConflict      Code = "mode_conflict"

	Busy    Code = "busy"
	Timeout Code = "timeout"

	Uninitialized     Code = "uninitialized"
	NotInitialized    Code = "not_initialized"
	AlreadyStarted    Code = "already_started"
	AlreadyStopped    Code = "already_stopped"
	AlreadyRegistered Code = "already_registered"
	Unregistered      Code = "unregistered"
	UnknownPin        Code = "unknown_pin"

	HardwareFailure Code = "hardware_failure"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

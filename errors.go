package ggui

import "errors"

var (
	// ErrNoAdapter is returned when the backend reports no usable GPU adapter.
	ErrNoAdapter = errors.New("ggui: no GPU adapter found")

	// ErrBackendUnavailable is returned when the requested backend is not
	// compiled in or cannot create an instance.
	ErrBackendUnavailable = errors.New("ggui: GPU backend unavailable")

	// ErrInvalidSize is returned for a window size with a non-positive
	// dimension.
	ErrInvalidSize = errors.New("ggui: invalid window size")

	// ErrInvalidLight is returned by New when the light elevation is outside
	// [0, π/2).
	ErrInvalidLight = errors.New("ggui: invalid light direction")

	// ErrProviderNotHAL is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrProviderNotHAL = errors.New("ggui: provider does not expose HAL types")

	// ErrClosed is returned by operations on a closed toolkit or window.
	ErrClosed = errors.New("ggui: closed")

	// ErrResizePending is returned by Window.Render while a resize command
	// buffer has not been submitted.
	ErrResizePending = errors.New("ggui: resize not submitted")
)

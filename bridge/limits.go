package bridge

// Default maximum frame size (1 MB). Menu protocol payloads are small;
// anything larger is a protocol violation rather than a legitimate call.
const DefaultMaxFrame int = 1_048_576

// Hard limit on frame size (16 MB) - prevents DoS.
const MaxFrameHardLimit int = 16_777_216

// DefaultMaxEventBuffer is the default per-channel reorder buffer size
// (64 slots).
const DefaultMaxEventBuffer int = 64

// Limits represents protocol negotiation limits.
type Limits struct {
	MaxFrame       int `cbor:"max_frame"`
	MaxEventBuffer int `cbor:"max_event_buffer"`
}

// DefaultLimits returns the default protocol limits.
func DefaultLimits() Limits {
	return Limits{
		MaxFrame:       DefaultMaxFrame,
		MaxEventBuffer: DefaultMaxEventBuffer,
	}
}

// NegotiateLimits returns the minimum of two limit sets.
func NegotiateLimits(a, b Limits) Limits {
	return Limits{
		MaxFrame:       min(a.MaxFrame, b.MaxFrame),
		MaxEventBuffer: min(a.MaxEventBuffer, b.MaxEventBuffer),
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package types

import "fmt"

// Channel represents a notification delivery channel. Console delivery can
// never fail and is always recorded as a local fallback.
type Channel string

const (
	ChannelConsole Channel = "console"
	ChannelSlack   Channel = "slack"
)

// AllChannels returns all valid channels
func AllChannels() []Channel {
	return []Channel{
		ChannelConsole,
		ChannelSlack,
	}
}

// IsValid checks if the channel is valid
func (c Channel) IsValid() bool {
	switch c {
	case ChannelConsole, ChannelSlack:
		return true
	default:
		return false
	}
}

// String returns the string representation of the channel
func (c Channel) String() string {
	return string(c)
}

// ParseChannel parses a string into a Channel
func ParseChannel(s string) (Channel, error) {
	ch := Channel(s)
	if !ch.IsValid() {
		return "", fmt.Errorf("invalid channel: %s", s)
	}
	return ch, nil
}

package model

import "time"

// Sample is one batch of readings returned by the backend for a single
// point in time. Forces are in N, torques in Nm, positions in mm.
// Only Fz and Ax/Ay/Az are charted; the rest are decoded when present.
type Sample struct {
	Fx float64 `json:"fx"`
	Fy float64 `json:"fy"`
	Fz float64 `json:"fz"`
	Tx float64 `json:"tx"`
	Ty float64 `json:"ty"`
	Tz float64 `json:"tz"`
	Ax float64 `json:"ax"`
	Ay float64 `json:"ay"`
	Az float64 `json:"az"`
	Aw float64 `json:"aw"`

	// ReceivedAt is stamped by the client, never sent by the backend.
	ReceivedAt time.Time `json:"-"`
}

// Channel names a scalar signal plotted over time.
type Channel string

const (
	ChannelFz Channel = "Fz"
	ChannelAx Channel = "Ax"
	ChannelAy Channel = "Ay"
	ChannelAz Channel = "Az"
)

// Value returns the reading for channel c.
func (s Sample) Value(c Channel) (float64, bool) {
	switch c {
	case ChannelFz:
		return s.Fz, true
	case ChannelAx:
		return s.Ax, true
	case ChannelAy:
		return s.Ay, true
	case ChannelAz:
		return s.Az, true
	}
	return 0, false
}

// MessageReply is the generic {message} body returned by control endpoints.
type MessageReply struct {
	Message string `json:"message"`
}

// ConnectReply is the body returned by the connect endpoint.
type ConnectReply struct {
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
}

// Succeeded reports whether the backend accepted the connection.
func (r ConnectReply) Succeeded() bool {
	return r.Message == ConnectSuccessMessage
}

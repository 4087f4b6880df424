package model

import "context"

// SampleSource reads one sample batch from the backend. When write is true
// the backend also appends the sample to its recording file.
type SampleSource interface {
	ReadSamples(ctx context.Context, write bool) (Sample, error)
}

// DeviceController drives the device lifecycle and calibration endpoints.
type DeviceController interface {
	Connect(ctx context.Context) (ConnectReply, error)
	Disconnect(ctx context.Context) (MessageReply, error)
	TareLoadCell(ctx context.Context) (MessageReply, error)
	TareHeiden(ctx context.Context) (MessageReply, error)
}

// Backend is the full backend contract consumed by the dashboard.
type Backend interface {
	SampleSource
	DeviceController
}

package model

import "time"

// Shared defaults used by the dashboard, the headless poller and the simulator.
const (
	DefaultBackendURL     = "http://127.0.0.1:4000"
	DefaultPollInterval   = 300 * time.Millisecond
	DefaultRequestTimeout = 2 * time.Second
	DefaultWindowCapacity = 120
	DefaultSimAddr        = "127.0.0.1:4000"
)

// Backend reply strings the dashboard reacts to.
const (
	ConnectSuccessMessage = "Connection sucessful"
	DisconnectedMessage   = "Disconnected"
)

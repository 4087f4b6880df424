package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tinytelemetry/ftscope/internal/backend"
	"github.com/tinytelemetry/ftscope/internal/model"
	"github.com/tinytelemetry/ftscope/internal/poller"
	"github.com/tinytelemetry/ftscope/internal/series"
	"github.com/tinytelemetry/ftscope/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

type countingBackend struct {
	mu sync.Mutex

	readCalls       int
	connectCalls    int
	disconnectCalls int
	tareLoadCalls   int
	tareHeidenCalls int

	connectReply model.ConnectReply
	readErr      error
	controlErr   error
}

func (b *countingBackend) ReadSamples(_ context.Context, _ bool) (model.Sample, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readCalls++
	if b.readErr != nil {
		return model.Sample{}, b.readErr
	}
	return model.Sample{Fz: float64(b.readCalls), Ax: 1, Ay: 2, Az: 3}, nil
}

func (b *countingBackend) Connect(_ context.Context) (model.ConnectReply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connectCalls++
	return b.connectReply, nil
}

func (b *countingBackend) Disconnect(_ context.Context) (model.MessageReply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnectCalls++
	return model.MessageReply{Message: model.DisconnectedMessage}, b.controlErr
}

func (b *countingBackend) TareLoadCell(_ context.Context) (model.MessageReply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tareLoadCalls++
	return model.MessageReply{Message: "clipX tare successful"}, b.controlErr
}

func (b *countingBackend) TareHeiden(_ context.Context) (model.MessageReply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tareHeidenCalls++
	return model.MessageReply{Message: "heidenhain tare successful"}, b.controlErr
}

func (b *countingBackend) counts() (reads, disconnects int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readCalls, b.disconnectCalls
}

func newTestDashboard(b *countingBackend) *DashboardModel {
	state := session.New()
	charts := series.DefaultCharts()
	window := series.NewWindow(model.DefaultWindowCapacity, 0, charts)
	driver := poller.New(b, state, window, nil, poller.WithInterval(time.Millisecond))
	m := NewDashboardModel(Deps{
		Backend:      b,
		State:        state,
		Window:       window,
		Driver:       driver,
		Charts:       charts,
		BackendLabel: "127.0.0.1:4000",
	})
	m.width, m.height = 120, 40
	return m
}

func connectedDashboard(b *countingBackend) *DashboardModel {
	m := newTestDashboard(b)
	m.state.ApplyConnect(model.ConnectReply{Message: model.ConnectSuccessMessage, Filename: "run.csv"})
	return m
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and flattens batches into the produced messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle feeds msg into m and keeps processing produced messages, dropping
// timer ticks so the loop terminates.
func settle(m *DashboardModel, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		_, cmd := m.Update(next)
		for _, out := range runCmd(cmd) {
			switch out.(type) {
			case TickMsg, SpinnerTickMsg:
				continue
			}
			queue = append(queue, out)
		}
	}
}

func TestTick_StoppedDoesNotFetch(t *testing.T) {
	t.Parallel()

	b := &countingBackend{}
	m := connectedDashboard(b)

	_, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	if m.state.Snapshot().InFlight {
		t.Fatal("stopped tick claimed the fetch slot")
	}
	for _, msg := range runCmd(cmd) {
		if _, ok := msg.(sampleLoadedMsg); ok {
			t.Fatal("stopped tick produced a fetch")
		}
	}
	if reads, _ := b.counts(); reads != 0 {
		t.Fatalf("read calls = %d, want 0", reads)
	}
}

func TestTick_SkipsWhileFetchOutstanding(t *testing.T) {
	t.Parallel()

	b := &countingBackend{}
	m := connectedDashboard(b)
	if err := m.state.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, first := m.Update(TickMsg(time.Now()))
	if !m.state.Snapshot().InFlight {
		t.Fatal("first tick did not claim the fetch slot")
	}

	// The first fetch has not resolved; the second tick must be a no-op.
	_, second := m.Update(TickMsg(time.Now()))
	for _, msg := range runCmd(second) {
		if _, ok := msg.(sampleLoadedMsg); ok {
			t.Fatal("second tick started a fetch while one was outstanding")
		}
	}

	var loaded int
	for _, msg := range runCmd(first) {
		if sm, ok := msg.(sampleLoadedMsg); ok {
			loaded++
			m.Update(sm)
		}
	}
	if loaded != 1 {
		t.Fatalf("loaded = %d, want 1", loaded)
	}
	if m.state.Snapshot().InFlight {
		t.Fatal("fetch slot not released")
	}
	if got := m.window.Counter(); got != 1 {
		t.Fatalf("counter = %d, want 1", got)
	}
	if !m.lastTickOK {
		t.Fatal("successful fetch should mark the backend healthy")
	}
}

func TestSampleError_RecordedInStatus(t *testing.T) {
	t.Parallel()

	b := &countingBackend{}
	m := connectedDashboard(b)

	m.Update(sampleLoadedMsg(poller.Result{Err: errors.New("boom")}))
	m.Update(sampleLoadedMsg(poller.Result{Err: errors.New("boom")}))

	if m.lastError != "boom" {
		t.Fatalf("lastError = %q, want boom", m.lastError)
	}
	if m.lastTickOK {
		t.Fatal("lastTickOK should be false after an error")
	}
	if m.consecutiveErrors != 2 {
		t.Fatalf("consecutiveErrors = %d, want 2", m.consecutiveErrors)
	}
}

func TestStart_WhileDisconnectedAlerts(t *testing.T) {
	t.Parallel()

	b := &countingBackend{}
	m := newTestDashboard(b)

	m.Update(keyPress("s"))

	if m.state.Running() {
		t.Fatal("start while disconnected must not set running")
	}
	alert, ok := m.TopModal().(*AlertModal)
	if !ok {
		t.Fatalf("top modal = %T, want *AlertModal", m.TopModal())
	}
	if alert.Body() != startDisconnectedAlert {
		t.Fatalf("alert body = %q", alert.Body())
	}

	// The alert swallows keys until dismissed.
	m.Update(keyPress("v"))
	if m.Stack() != StackDefault {
		t.Fatal("key leaked through the alert")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.HasModal() {
		t.Fatal("enter should dismiss the alert")
	}
}

func TestStartStop_Connected(t *testing.T) {
	t.Parallel()

	m := connectedDashboard(&countingBackend{})

	m.Update(keyPress("s"))
	if !m.state.Running() {
		t.Fatal("start while connected should set running")
	}
	if m.HasModal() {
		t.Fatal("no alert expected")
	}
	m.Update(keyPress("x"))
	if m.state.Running() {
		t.Fatal("stop should clear running")
	}
}

func TestToggleRecording(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(&countingBackend{})

	m.Update(keyPress("r"))
	if !m.state.Recording() {
		t.Fatal("recording should be on")
	}
	m.Update(keyPress("r"))
	if m.state.Recording() {
		t.Fatal("recording should be off")
	}
}

func TestConnect_SuccessMarksConnected(t *testing.T) {
	t.Parallel()

	b := &countingBackend{connectReply: model.ConnectReply{
		Message:  model.ConnectSuccessMessage,
		Filename: "netbox-data-01-02-2026-10-00.csv",
	}}
	m := newTestDashboard(b)

	settle(m, keyPress("c"))

	if !m.state.Connected() {
		t.Fatal("expected connected")
	}
	if got := m.state.Snapshot().Filename; got != b.connectReply.Filename {
		t.Fatalf("filename = %q", got)
	}
	alert, ok := m.TopModal().(*AlertModal)
	if !ok {
		t.Fatalf("top modal = %T, want *AlertModal", m.TopModal())
	}
	if !strings.Contains(alert.Body(), "[SERVER MESSAGE]: Connection sucessful") ||
		!strings.Contains(alert.Body(), b.connectReply.Filename) {
		t.Fatalf("alert body = %q", alert.Body())
	}
	if m.pendingAction != "" {
		t.Fatalf("pendingAction = %q, want idle", m.pendingAction)
	}
}

func TestConnect_OtherMessageStaysDisconnected(t *testing.T) {
	t.Parallel()

	b := &countingBackend{connectReply: model.ConnectReply{Message: "Failed to connect"}}
	m := newTestDashboard(b)

	settle(m, keyPress("c"))

	if m.state.Connected() {
		t.Fatal("non-success reply must not connect")
	}
	alert, ok := m.TopModal().(*AlertModal)
	if !ok || !strings.Contains(alert.Body(), "Failed to connect") {
		t.Fatalf("expected failure alert, got %T", m.TopModal())
	}
}

func TestDisconnect_ConfirmClearsFlagsBeforeRequest(t *testing.T) {
	t.Parallel()

	b := &countingBackend{}
	m := connectedDashboard(b)
	m.state.Start()

	m.Update(keyPress("d"))
	if _, ok := m.TopModal().(*ConfirmModal); !ok {
		t.Fatalf("top modal = %T, want *ConfirmModal", m.TopModal())
	}

	_, cmd := m.Update(keyPress("y"))
	if m.HasModal() {
		t.Fatal("confirm should pop")
	}
	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("confirm produced %d messages, want 1", len(msgs))
	}

	_, reqCmd := m.Update(msgs[0])
	snap := m.state.Snapshot()
	if snap.Running || snap.Connected {
		t.Fatalf("flags not cleared before request: %+v", snap)
	}
	if _, disconnects := b.counts(); disconnects != 0 {
		t.Fatalf("disconnect issued before flags were cleared")
	}

	for _, msg := range runCmd(reqCmd) {
		if _, ok := msg.(SpinnerTickMsg); ok {
			continue
		}
		settle(m, msg)
	}
	if _, disconnects := b.counts(); disconnects != 1 {
		t.Fatalf("disconnect calls = %d, want 1", disconnects)
	}
	alert, ok := m.TopModal().(*AlertModal)
	if !ok || alert.Body() != "[SERVER MESSAGE]: Disconnected" {
		t.Fatalf("expected disconnect alert, got %T", m.TopModal())
	}
}

func TestDisconnect_DeclineKeepsState(t *testing.T) {
	t.Parallel()

	b := &countingBackend{}
	m := connectedDashboard(b)
	m.state.Start()

	m.Update(keyPress("d"))
	_, cmd := m.Update(keyPress("n"))
	if cmd != nil {
		t.Fatal("declining should not issue commands")
	}
	if !m.state.Running() || !m.state.Connected() {
		t.Fatal("declining must leave the session untouched")
	}
}

func TestTare_ShowsServerMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{key: "l", want: "[SERVER MESSAGE]: clipX tare successful"},
		{key: "t", want: "[SERVER MESSAGE]: heidenhain tare successful"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			m := connectedDashboard(&countingBackend{})
			settle(m, keyPress(tt.key))

			alert, ok := m.TopModal().(*AlertModal)
			if !ok || alert.Body() != tt.want {
				t.Fatalf("expected %q alert, got %T", tt.want, m.TopModal())
			}
		})
	}
}

func TestTare_ServerErrorShowsMessage(t *testing.T) {
	t.Parallel()

	b := &countingBackend{controlErr: &backend.StatusError{
		Method:  "GET",
		Path:    backend.PathTareLoadCell,
		Code:    500,
		Message: "clipX tare unsuccessful",
	}}
	m := connectedDashboard(b)

	settle(m, keyPress("l"))

	alert, ok := m.TopModal().(*AlertModal)
	if !ok || alert.Body() != "[SERVER MESSAGE]: clipX tare unsuccessful" {
		t.Fatalf("expected server message alert, got %T", m.TopModal())
	}
	if m.lastError == "" {
		t.Fatal("control failure should be recorded")
	}
}

func TestChangeView_Cycles(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(&countingBackend{})
	want := []StackDirection{StackColumnReverse, StackColumn, StackColumnReverse}
	for i, w := range want {
		m.Update(keyPress("v"))
		if got := m.Stack(); got != w {
			t.Fatalf("press %d: stack = %v, want %v", i+1, got, w)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(&countingBackend{})
	m.PushModal(NewHelpModal(m.keys))

	// ctrl+c quits even with a modal open.
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c should quit")
	}
}

package tui

import (
	"context"
	"time"

	"github.com/tinytelemetry/ftscope/internal/model"
	"github.com/tinytelemetry/ftscope/internal/poller"
	"github.com/tinytelemetry/ftscope/internal/series"
	"github.com/tinytelemetry/ftscope/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// startDisconnectedAlert is shown when start is pressed without a device.
const startDisconnectedAlert = "You can not start because you are disconnected. Please click connect before start"

// disconnectQuestion is asked before tearing the device connection down.
const disconnectQuestion = "Are you sure that you want to disconnect?"

// Deps wires the dashboard to its collaborators.
type Deps struct {
	Backend        model.Backend
	State          *session.State
	Window         *series.Window
	Driver         *poller.Driver
	Charts         []series.Chart
	Logger         *zap.Logger
	BackendLabel   string        // shown next to the connectivity dot
	RequestTimeout time.Duration // bounds control requests

	// Context scopes every request issued by the dashboard. Cancel it on
	// exit to abandon outstanding fetches.
	Context context.Context
}

// ModalStackState holds the modal stack.
type ModalStackState struct {
	modalStack []Modal
}

// DashboardModel represents the main TUI model.
type DashboardModel struct {
	ModalStackState

	width  int
	height int

	keys KeyMap

	backend        model.Backend
	state          *session.State
	window         *series.Window
	driver         *poller.Driver
	charts         []series.Chart
	logger         *zap.Logger
	backendLabel   string
	requestTimeout time.Duration
	ctx            context.Context

	stack StackDirection

	// Control request currently outstanding ("" when idle).
	pendingAction string

	// Last fetch/control error for status line display (auto-clears after 30s).
	lastError   string
	lastErrorAt time.Time

	// Backend connectivity tracking.
	lastTickOK        bool
	lastTickAt        time.Time
	consecutiveErrors int
}

// TickMsg represents a periodic poll tick.
type TickMsg time.Time

// sampleLoadedMsg carries the outcome of one sample fetch.
type sampleLoadedMsg poller.Result

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(deps Deps) *DashboardModel {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	charts := deps.Charts
	if len(charts) == 0 {
		charts = series.DefaultCharts()
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return &DashboardModel{
		keys:           DefaultKeyMap(),
		backend:        deps.Backend,
		state:          deps.State,
		window:         deps.Window,
		driver:         deps.Driver,
		charts:         charts,
		logger:         logger,
		backendLabel:   deps.BackendLabel,
		requestTimeout: timeout,
		ctx:            ctx,
		lastTickOK:     true,
		lastTickAt:     time.Now(),
	}
}

// DashboardPage adapts DashboardModel to the Page interface.
type DashboardPage struct {
	Model *DashboardModel
}

// NewDashboardPage wraps a DashboardModel as a Page.
func NewDashboardPage(m *DashboardModel) *DashboardPage {
	return &DashboardPage{Model: m}
}

func (p *DashboardPage) ID() string { return "dashboard" }

func (p *DashboardPage) Init() tea.Cmd {
	return p.Model.Init()
}

func (p *DashboardPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	_, cmd := p.Model.Update(msg)
	return cmd, nil
}

func (p *DashboardPage) View(width, height int) string {
	p.Model.width = width
	p.Model.height = height
	return p.Model.View()
}

// Init starts the poll tick.
func (m *DashboardModel) Init() tea.Cmd {
	return m.scheduleTick()
}

func (m *DashboardModel) scheduleTick() tea.Cmd {
	return tea.Tick(m.driver.Interval(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Stack returns the current chart stacking direction.
func (m *DashboardModel) Stack() StackDirection {
	return m.stack
}

// PushModal pushes a modal onto the stack. Deduplicates by ID.
func (m *DashboardModel) PushModal(modal Modal) {
	for _, existing := range m.modalStack {
		if existing.ID() == modal.ID() {
			return
		}
	}
	m.modalStack = append(m.modalStack, modal)
}

// PopModal removes the topmost modal from the stack.
func (m *DashboardModel) PopModal() {
	if len(m.modalStack) > 0 {
		m.modalStack = m.modalStack[:len(m.modalStack)-1]
	}
}

// TopModal returns the topmost modal, or nil if the stack is empty.
func (m *DashboardModel) TopModal() Modal {
	if len(m.modalStack) == 0 {
		return nil
	}
	return m.modalStack[len(m.modalStack)-1]
}

// HasModal returns true if any modal is on the stack.
func (m *DashboardModel) HasModal() bool {
	return len(m.modalStack) > 0
}

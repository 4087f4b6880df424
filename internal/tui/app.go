package tui

import tea "github.com/charmbracelet/bubbletea"

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	title      string
	pages      map[string]Page
	order      []string
	activePage string
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the
// default. title is set as the terminal window title on start.
func NewApp(title string, pages ...Page) *App {
	a := &App{
		title: title,
		pages: make(map[string]Page, len(pages)),
	}
	for _, p := range pages {
		if _, dup := a.pages[p.ID()]; dup {
			continue
		}
		a.pages[p.ID()] = p
		a.order = append(a.order, p.ID())
	}
	if len(a.order) > 0 {
		a.activePage = a.order[0]
	}
	return a
}

// ActivePage returns the ID of the page currently shown.
func (a *App) ActivePage() string {
	return a.activePage
}

func (a *App) Init() tea.Cmd {
	var cmds []tea.Cmd
	if a.title != "" {
		cmds = append(cmds, tea.SetWindowTitle(a.title))
	}
	if p, ok := a.pages[a.activePage]; ok {
		cmds = append(cmds, p.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)
	if nav == nil || nav.PageID == a.activePage {
		return a, cmd
	}
	next, exists := a.pages[nav.PageID]
	if !exists {
		return a, cmd
	}
	a.activePage = nav.PageID
	return a, tea.Batch(cmd, next.Init())
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yboost/yboost/internal/client"
	"github.com/yboost/yboost/pkg/catalog"
)

// view identifies the active screen.
type view int

const (
	viewLogin view = iota
	viewBoosters
	viewCollection
	viewGallery
)

// --- messages ---

type catalogLoadedMsg struct {
	cat *catalog.Catalog
	err error
}

type boostersLoadedMsg struct {
	boosters []client.Booster
	err      error
}

type authDoneMsg struct {
	resp *client.AuthResponse
	err  error
}

type collectionLoadedMsg struct {
	resp *client.CollectionResponse
	err  error
}

type commitDoneMsg struct{ err error }

type removeDoneMsg struct {
	skinID int
	err    error
}

type galleryActionDoneMsg struct{ err error }

// Model is the root Bubble Tea model.
type Model struct {
	http   *client.HTTPClient
	ws     *client.WSClient
	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int

	view   view
	user   client.User
	cat    *catalog.Catalog
	status string

	login      loginModel
	boosters   boostersModel
	collection collectionModel
	gallery    galleryModel
	reveal     *revealModel // non-nil while a pack is staged
}

// New creates the root model.
func New(httpClient *client.HTTPClient) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		http:       httpClient,
		ctx:        ctx,
		cancel:     cancel,
		view:       viewLogin,
		login:      newLoginModel(),
		boosters:   newBoostersModel(),
		collection: newCollectionModel(),
		gallery:    newGalleryModel(),
	}
}

// Init loads the catalog and pack definitions up front.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.loadBoosters(), m.login.input().Focus())
}

func (m Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		cat, err := m.http.Catalog()
		return catalogLoadedMsg{cat: cat, err: err}
	}
}

func (m Model) loadBoosters() tea.Cmd {
	return func() tea.Msg {
		boosters, err := m.http.Boosters()
		return boostersLoadedMsg{boosters: boosters, err: err}
	}
}

func (m Model) loadCollection() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.http.ListSkins()
		return collectionLoadedMsg{resp: resp, err: err}
	}
}

// connectWS starts the change feed once authenticated.
func (m *Model) connectWS() tea.Cmd {
	m.ws = client.NewWSClient(m.http.WSURL(), m.http.SessionCookie())
	return m.ws.Listen(m.ctx)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case catalogLoadedMsg:
		if msg.err != nil {
			m.status = "catalog unavailable: " + msg.err.Error()
			return m, nil
		}
		m.cat = msg.cat
		m.gallery.rebuild(m.cat, m.collection.agg)
		return m, nil

	case boostersLoadedMsg:
		if msg.err == nil {
			m.boosters.packs = msg.boosters
		}
		return m, nil

	case authDoneMsg:
		return m.handleAuth(msg)

	case collectionLoadedMsg:
		m.collection.apply(msg)
		m.gallery.rebuild(m.cat, m.collection.agg)
		return m, nil

	case galleryActionDoneMsg:
		if msg.err != nil {
			m.gallery.status = msg.err.Error()
			return m, nil
		}
		m.gallery.status = ""
		return m, m.loadCollection()

	case client.WSConnectedMsg:
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSDisconnectedMsg:
		return m, m.ws.Listen(m.ctx)

	case client.CollectionChangedMsg:
		// Another session of this user changed the collection; reload.
		return m, tea.Batch(m.loadCollection(), m.ws.ReadLoop(m.ctx))

	case commitDoneMsg, revealTickMsg:
		if m.reveal == nil {
			return m, nil
		}
		return m.updateReveal(msg)

	case removeDoneMsg:
		if msg.err != nil {
			m.collection.status = "remove failed: " + msg.err.Error()
			return m, nil
		}
		return m, m.loadCollection()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleAuth(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.login.errMsg = msg.err.Error()
		return m, nil
	}
	m.user = msg.resp.User
	m.view = viewBoosters
	m.status = ""
	return m, tea.Batch(m.loadCollection(), m.connectWS())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The reveal overlay captures everything except quit.
	if m.reveal != nil {
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		return m.updateReveal(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "q":
		if m.view != viewLogin && !m.collection.filtering && !m.gallery.filtering {
			m.cancel()
			return m, tea.Quit
		}
	case "tab":
		switch {
		case m.view == viewBoosters:
			m.view = viewCollection
			return m, m.loadCollection()
		case m.view == viewCollection && !m.collection.filtering:
			m.view = viewGallery
			return m, nil
		case m.view == viewGallery && !m.gallery.filtering:
			m.view = viewBoosters
			return m, nil
		}
	}

	switch m.view {
	case viewLogin:
		return m.updateLogin(msg)
	case viewBoosters:
		return m.updateBoosters(msg)
	case viewCollection:
		return m.updateCollection(msg)
	case viewGallery:
		return m.updateGallery(msg)
	}
	return m, nil
}

// View renders the active screen.
func (m Model) View() string {
	if m.reveal != nil {
		return m.reveal.view(m.width)
	}

	var body string
	switch m.view {
	case viewLogin:
		body = m.login.view()
	case viewBoosters:
		body = m.boosters.view(m.cat)
	case viewCollection:
		body = m.collection.view()
	case viewGallery:
		body = m.gallery.view()
	}

	header := titleStyle.Render("Yboost") + "  " + faintStyle.Render(m.tabLine())
	status := ""
	if m.status != "" {
		status = "\n" + errorStyle.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body) + status
}

func (m Model) tabLine() string {
	if m.view == viewLogin {
		return "sign in"
	}
	line := "boosters | collection | gallery   (tab to switch, q to quit)"
	if m.user.Pseudo != "" {
		line += "   @" + m.user.Pseudo
	}
	return line
}

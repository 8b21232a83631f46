package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/niagara/internal/catalog"
	"github.com/desertthunder/niagara/internal/favorites"
	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/reconcile"
	"github.com/desertthunder/niagara/internal/services"
	"github.com/desertthunder/niagara/internal/store"
)

// FavoritesPath is the location of [FavoritesView].
const FavoritesPath = "/favorites"

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EventsView ViewState = iota
	ProfileView
	FavoritesView
)

func (v ViewState) String() string {
	switch v {
	case ProfileView:
		return "Profile"
	case FavoritesView:
		return "Favorites"
	default:
		return "Events"
	}
}

// Deps are the collaborators the TUI drives.
type Deps struct {
	Catalog  *catalog.Catalog
	Store    *store.Store
	Ledger   *favorites.Ledger
	Client   *favorites.Client
	Auth     services.AuthAPI
	Remote   services.FavoritesAPI
	Notifier reconcile.Notifier // optional extra sink, e.g. desktop notifications
	NavDelay time.Duration
	Logger   *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	deps     Deps
	heart    *reconcile.Heart
	authOpts reconcile.AuthScreenOpts
	navCh    chan string
	noteCh   chan reconcile.Notification

	view     ViewState
	location string
	width    int
	height   int

	events    list.Model
	favorites list.Model
	category  int
	saved     models.FavoriteSet

	screen *reconcile.AuthScreen
	form   profileForm
	busy   bool

	note *reconcile.Notification
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.New()
	}

	m := &Model{
		ctx:      ctx,
		deps:     deps,
		navCh:    make(chan string, 8),
		noteCh:   make(chan reconcile.Notification, 16),
		view:     EventsView,
		location: reconcile.HomePath,
		saved:    models.NewFavoriteSet(),
		help:     help.New(),
		keys:     newKeyMap(),
	}

	navigator := reconcile.NavigatorFunc(func(to string) {
		select {
		case m.navCh <- to:
		default:
			deps.Logger.Warn("dropped navigation", "to", to)
		}
	})
	notifier := reconcile.Notifiers{
		reconcile.NotifierFunc(func(n reconcile.Notification) {
			select {
			case m.noteCh <- n:
			default:
			}
		}),
		deps.Notifier,
	}

	m.heart = reconcile.NewHeart(reconcile.HeartOpts{
		Store:     deps.Store,
		Ledger:    deps.Ledger,
		Client:    deps.Client,
		Notifier:  notifier,
		Navigator: navigator,
		Delay:     deps.NavDelay,
		Logger:    deps.Logger,
	})
	m.authOpts = reconcile.AuthScreenOpts{
		Store:     deps.Store,
		Ledger:    deps.Ledger,
		Auth:      deps.Auth,
		Migrator:  reconcile.NewMigrator(deps.Ledger, deps.Remote, deps.Client, deps.Logger),
		Catalog:   deps.Catalog,
		Notifier:  notifier,
		Navigator: navigator,
		Logger:    deps.Logger,
	}

	m.events = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.events.SetShowHelp(false)
	m.favorites = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.favorites.SetShowHelp(false)
	m.favorites.Title = "Your favorites"
	m.refreshLists()
	return m
}

// State returns the active view.
func (m *Model) State() ViewState { return m.view }

// Screen returns the mounted auth screen, or nil outside [ProfileView].
func (m *Model) Screen() *reconcile.AuthScreen { return m.screen }

// Init loads the saved markers and starts listening for navigation and notifications.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadSaved(), m.waitForNavigation(), m.waitForNotification())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.events.SetSize(msg.Width-4, msg.Height-8)
		m.favorites.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ProfileView:
			return m.handleProfileKeys(msg)
		case FavoritesView:
			return m.handleFavoritesKeys(msg)
		default:
			return m.handleEventsKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgNavigate:
		cmd := m.navigate(msg.data.(string))
		return m, tea.Batch(cmd, m.waitForNavigation())

	case MsgNotify:
		n := msg.data.(reconcile.Notification)
		m.note = &n
		return m, m.waitForNotification()

	case MsgSavedLoaded:
		res := msg.data.(savedLoaded)
		if res.err != nil {
			m.deps.Logger.Warn("could not load favorites", "error", res.err)
		}
		if res.set != nil {
			m.saved = res.set
		}
		m.refreshLists()
		return m, nil

	case MsgHeartDone:
		return m, m.loadSaved()

	case MsgAuthDone:
		m.busy = false
		out := msg.data.(reconcile.Outcome)
		if out.Err == nil && out.Authenticated {
			m.form = newProfileForm(modeSignIn)
		}
		return m, m.loadSaved()
	}
	return m, nil
}

// navigate moves to the view named by location, unmounting the profile screen when leaving it.
func (m *Model) navigate(location string) tea.Cmd {
	path, params := reconcile.ParseLocation(location)
	m.leave()

	switch path {
	case reconcile.ProfilePath:
		m.screen = reconcile.MountAuthScreen(m.authOpts, params)
		m.form = newProfileForm(modeSignIn)
		m.view = ProfileView
	case FavoritesPath:
		m.view = FavoritesView
	default:
		m.view = EventsView
		m.location = location
	}
	return m.loadSaved()
}

// leave cancels a scheduled heart navigation and closes the profile screen.
func (m *Model) leave() {
	m.heart.Close()
	if m.screen != nil {
		state := m.screen.Unmount()
		m.deps.Logger.Debug("profile screen closed", "gate", state)
		m.screen = nil
	}
	m.busy = false
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.leave()
	return m, tea.Quit
}

func (m *Model) selectedEvent(l list.Model) (models.Event, bool) {
	item, ok := l.SelectedItem().(eventItem)
	if !ok {
		return models.Event{}, false
	}
	return item.event, true
}

func (m *Model) handleEventsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.events.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.heart):
		if ev, ok := m.selectedEvent(m.events); ok {
			return m, m.tap(ev.ID, m.location)
		}
		return m, nil
	case key.Matches(msg, m.keys.category):
		m.category = (m.category + 1) % len(catalog.Categories)
		m.refreshLists()
		return m, nil
	case key.Matches(msg, m.keys.profile):
		return m, m.navigate(reconcile.ProfilePath)
	case key.Matches(msg, m.keys.favorites):
		return m, m.navigate(FavoritesPath)
	}
	return m.updateLists(msg)
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.favorites.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.heart):
		if ev, ok := m.selectedEvent(m.favorites); ok {
			return m, m.tap(ev.ID, FavoritesPath)
		}
		return m, nil
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.events):
		return m, m.navigate(m.location)
	case key.Matches(msg, m.keys.profile):
		return m, m.navigate(reconcile.ProfilePath)
	}
	return m.updateLists(msg)
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.busy {
		return m, nil
	}

	if _, signedIn := m.deps.Store.User(); signedIn {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m.quit()
		case key.Matches(msg, m.keys.signOut):
			if err := m.screen.SignOut(); err != nil {
				m.deps.Logger.Error("sign out failed", "error", err)
			}
			return m, m.loadSaved()
		case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.events):
			return m, m.navigate(m.location)
		case key.Matches(msg, m.keys.favorites):
			return m, m.navigate(FavoritesPath)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.navigate(m.location)
	case key.Matches(msg, m.keys.mode):
		next := modeSignUp
		if m.form.mode == modeSignUp {
			next = modeSignIn
		}
		m.form = newProfileForm(next)
		return m, nil
	case key.Matches(msg, m.keys.submit):
		if !m.form.last() {
			return m, m.form.setFocus(m.form.focus + 1)
		}
		return m, m.submit()
	case msg.String() == "tab":
		return m, m.form.setFocus(m.form.focus + 1)
	case msg.String() == "shift+tab":
		return m, m.form.setFocus(m.form.focus - 1)
	}
	return m, m.form.update(msg)
}

// submit validates the form and runs the sign-in or sign-up off the update loop.
func (m *Model) submit() tea.Cmd {
	if err := m.form.validate(); err != nil {
		m.form.err = err.Error()
		return nil
	}
	m.form.err = ""
	m.busy = true

	ctx, screen := m.ctx, m.screen
	mode := m.form.mode
	name, email, password := m.form.value(fieldName), m.form.value(fieldEmail), m.form.value(fieldPass)
	return func() tea.Msg {
		if mode == modeSignUp {
			return authDoneMsg(screen.SignUp(ctx, name, email, password))
		}
		return authDoneMsg(screen.SignIn(ctx, email, password))
	}
}

// tap toggles id. Signed out, the ledger and gate writes happen before Update returns so that a following key
// which opens or leaves the profile screen sees them.
func (m *Model) tap(id models.FavoriteID, from string) tea.Cmd {
	ctx, heart := m.ctx, m.heart
	if !heart.Authenticated() {
		saved, err := heart.Tap(ctx, id, from)
		return func() tea.Msg { return heartDoneMsg(id, saved, err) }
	}
	return func() tea.Msg {
		saved, err := heart.Tap(ctx, id, from)
		return heartDoneMsg(id, saved, err)
	}
}

func (m *Model) loadSaved() tea.Cmd {
	ctx := m.ctx
	source := favorites.SelectSource(m.deps.Store, m.deps.Ledger, m.deps.Client)
	return func() tea.Msg {
		set, err := source.Favorites(ctx)
		return savedLoadedMsg(set, err)
	}
}

func (m *Model) waitForNavigation() tea.Cmd {
	return func() tea.Msg {
		select {
		case to := <-m.navCh:
			return navigateMsg(to)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) waitForNotification() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-m.noteCh:
			return notifyMsg(n)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) refreshLists() {
	category := catalog.Categories[m.category]
	m.events.Title = fmt.Sprintf("Events · %s", category)
	m.events.SetItems(eventItems(m.deps.Catalog.Filter(category, ""), m.saved))
	m.favorites.SetItems(eventItems(m.deps.Catalog.Select(m.saved), m.saved))
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case EventsView:
		m.events, cmd = m.events.Update(msg)
	case FavoritesView:
		m.favorites, cmd = m.favorites.Update(msg)
	case ProfileView:
		cmd = m.form.update(msg)
	}
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case ProfileView:
		body = m.renderProfile()
	case FavoritesView:
		body = m.renderFavorites()
	default:
		body = m.renderEvents()
	}
	return fmt.Sprintf("%s\n%s\n\n%s", m.renderHeader(), body, m.renderFooter())
}

func (m *Model) renderHeader() string {
	tabs := make([]string, 0, 3)
	for _, v := range []ViewState{EventsView, ProfileView, FavoritesView} {
		style := styles.tab
		if v == m.view {
			style = styles.active
		}
		tabs = append(tabs, style.Render(v.String()))
	}

	who := styles.help.Render("browsing anonymously")
	if user, ok := m.deps.Store.User(); ok {
		who = styles.ok.Render("signed in as " + user.Name)
	}
	return fmt.Sprintf("%s  %s", strings.Join(tabs, ""), who)
}

func (m *Model) renderFooter() string {
	var lines []string
	if m.note != nil {
		lines = append(lines, styles.notification(*m.note))
	}

	var keys []key.Binding
	switch m.view {
	case ProfileView:
		if _, ok := m.deps.Store.User(); ok {
			keys = []key.Binding{m.keys.signOut, m.keys.favorites, m.keys.back, m.keys.quit}
		} else {
			keys = []key.Binding{m.keys.submit, m.keys.next, m.keys.mode, m.keys.back}
		}
	case FavoritesView:
		keys = []key.Binding{m.keys.heart, m.keys.events, m.keys.profile, m.keys.quit}
	default:
		keys = []key.Binding{m.keys.heart, m.keys.category, m.keys.profile, m.keys.favorites, m.keys.quit}
	}
	lines = append(lines, m.help.ShortHelpView(keys))
	return strings.Join(lines, "\n")
}

func (m *Model) renderEvents() string {
	return m.events.View()
}

func (m *Model) renderFavorites() string {
	if len(m.favorites.Items()) == 0 {
		return styles.help.Render("No favorites yet. Tap a heart on the events view.")
	}
	return m.favorites.View()
}

func (m *Model) renderProfile() string {
	var b strings.Builder
	if m.screen != nil {
		if ev, ok := m.screen.PendingEvent(); ok {
			title := ev.Title
			if title == "" {
				title = "event " + string(ev.ID)
			}
			b.WriteString(styles.heart.Render(fmt.Sprintf("♥ Sign in to keep %q in your favorites.", title)))
			b.WriteString("\n\n")
		}
	}

	if user, ok := m.deps.Store.User(); ok {
		b.WriteString(styles.title.Render("Profile"))
		b.WriteString(fmt.Sprintf("\nName:  %s\nEmail: %s\nID:    %d\n", user.Name, user.Email, user.ID))
		return b.String()
	}

	b.WriteString(m.form.View())
	if m.busy {
		b.WriteString(styles.help.Render("\nworking..."))
	}
	return b.String()
}

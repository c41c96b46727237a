package nav

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/domain/repository"
)

// Manager owns the navigation state machine for one device: which panel is
// visible, what the saved position is, and how back navigation resolves.
// It mutates nothing directly; every visual change is an Instruction sent
// to the sink.
type Manager struct {
	mu       sync.Mutex
	states   repository.StateRepository
	deviceID string
	sink     Sink
	logger   *zap.Logger

	current State
	history []State

	menuOpen     bool
	openDropdown string

	infoOpen       bool
	infoFromSearch bool
}

func NewManager(states repository.StateRepository, deviceID string, sink Sink, logger *zap.Logger) *Manager {
	return &Manager{
		states:   states,
		deviceID: deviceID,
		sink:     sink,
		logger:   logger,
		current:  HomeState(),
	}
}

// Current returns the live navigation state.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// ShowPage switches the visible panel to the one for s, persists the
// position and records it in the back history. Re-showing the current
// state only re-emits the panel switch.
func (m *Manager) ShowPage(ctx context.Context, s State) {
	if !s.Page.Valid() {
		s = HomeState()
	}

	m.mu.Lock()
	same := m.current == s
	if !same {
		m.history = append(m.history, m.current)
	}
	m.current = s
	m.infoOpen = false
	menuWasOpen := m.menuOpen
	dropdown := m.openDropdown
	m.closeOverlaysLocked()
	m.mu.Unlock()

	if dropdown != "" {
		m.sink.Emit(Instruction{Op: OpCloseDropdown, Target: dropdown})
	}
	if menuWasOpen {
		m.sink.Emit(Instruction{Op: OpHidePanel, Target: PanelMenu})
	}
	m.hideAllPanels()
	m.sink.Emit(Instruction{Op: OpShowPanel, Target: panelFor(s.Page)})
	m.persist(ctx, s)
}

func panelFor(p Page) string {
	switch p {
	case PageCategory:
		return PanelCategory
	case PageSingle:
		return PanelSingle
	default:
		return PanelHome
	}
}

func (m *Manager) hideAllPanels() {
	for _, panel := range []string{PanelHome, PanelCategory, PanelSingle, PanelSearch, PanelLocationInfo} {
		m.sink.Emit(Instruction{Op: OpHidePanel, Target: panel})
	}
}

// persist writes the position. Leaving the category and post keys in
// place on Home is deliberate: stored clients rely on stale ids being
// harmless, and RestoreState never reads them for the home page.
func (m *Manager) persist(ctx context.Context, s State) {
	set := func(key, value string) {
		if err := m.states.Set(ctx, m.deviceID, key, value); err != nil {
			m.logger.Warn("failed to persist nav state",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	set(keyCurrentPage, string(s.Page))
	if s.CatID > 0 {
		set(keyCurrentCatID, strconv.FormatInt(s.CatID, 10))
	}
	if s.PostID > 0 {
		set(keyCurrentPostID, strconv.FormatInt(s.PostID, 10))
	}
}

// RestoreState reads the saved position. Anything missing, unknown or
// unparseable degrades to Home rather than erroring.
func (m *Manager) RestoreState(ctx context.Context) State {
	get := func(key string) string {
		val, err := m.states.Get(ctx, m.deviceID, key)
		if err != nil {
			m.logger.Warn("failed to read nav state", zap.String("key", key), zap.Error(err))
			return ""
		}
		return val
	}

	page := Page(get(keyCurrentPage))
	switch page {
	case PageCategory:
		if catID, ok := parseID(get(keyCurrentCatID)); ok {
			return State{Page: PageCategory, CatID: catID}
		}
	case PageSingle:
		if postID, ok := parseID(get(keyCurrentPostID)); ok {
			catID, _ := parseID(get(keyCurrentCatID))
			return State{Page: PageSingle, CatID: catID, PostID: postID}
		}
	case PageHome:
		return HomeState()
	}
	return HomeState()
}

// Back resolves one level of back navigation from the current state. From
// a single post it returns to the post's category, or home when the post
// was reached without one. From a category it returns home. On home there
// is nowhere to go and ok is false.
func (m *Manager) Back() (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.current.Page {
	case PageSingle:
		if m.current.CatID > 0 {
			return State{Page: PageCategory, CatID: m.current.CatID}, true
		}
		return HomeState(), true
	case PageCategory:
		return HomeState(), true
	}
	return State{}, false
}

// History returns the states visited before the current one.
func (m *Manager) History() []State {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]State, len(m.history))
	copy(out, m.history)
	return out
}

// ToggleMenu flips the burger menu. Opening it closes any dropdown.
func (m *Manager) ToggleMenu() {
	m.mu.Lock()
	opening := !m.menuOpen
	m.menuOpen = opening
	dropdown := m.openDropdown
	if opening {
		m.openDropdown = ""
	}
	m.mu.Unlock()

	if opening {
		if dropdown != "" {
			m.sink.Emit(Instruction{Op: OpCloseDropdown, Target: dropdown})
		}
		m.sink.Emit(Instruction{Op: OpShowPanel, Target: PanelMenu})
	} else {
		m.sink.Emit(Instruction{Op: OpHidePanel, Target: PanelMenu})
	}
}

// ToggleDropdown flips the named dropdown. Opening one closes the menu
// and any other dropdown.
func (m *Manager) ToggleDropdown(id string) {
	m.mu.Lock()
	if m.openDropdown == id {
		m.openDropdown = ""
		m.mu.Unlock()
		m.sink.Emit(Instruction{Op: OpCloseDropdown, Target: id})
		return
	}
	previous := m.openDropdown
	menuWasOpen := m.menuOpen
	m.openDropdown = id
	m.menuOpen = false
	m.mu.Unlock()

	if previous != "" {
		m.sink.Emit(Instruction{Op: OpCloseDropdown, Target: previous})
	}
	if menuWasOpen {
		m.sink.Emit(Instruction{Op: OpHidePanel, Target: PanelMenu})
	}
	m.sink.Emit(Instruction{Op: OpOpenDropdown, Target: id})
}

// CloseAllOverlays closes the menu and any dropdown.
func (m *Manager) CloseAllOverlays() {
	m.mu.Lock()
	menuWasOpen := m.menuOpen
	dropdown := m.openDropdown
	m.closeOverlaysLocked()
	m.mu.Unlock()

	if dropdown != "" {
		m.sink.Emit(Instruction{Op: OpCloseDropdown, Target: dropdown})
	}
	if menuWasOpen {
		m.sink.Emit(Instruction{Op: OpHidePanel, Target: PanelMenu})
	}
}

func (m *Manager) closeOverlaysLocked() {
	m.menuOpen = false
	m.openDropdown = ""
}

// ShowLocationInfo opens the expanded info panel over the current list.
// fromSearch records which list to bring back when the panel closes.
func (m *Manager) ShowLocationInfo(fromSearch bool) {
	m.mu.Lock()
	m.infoOpen = true
	m.infoFromSearch = fromSearch
	m.mu.Unlock()

	if fromSearch {
		m.sink.Emit(Instruction{Op: OpHidePanel, Target: PanelSearch})
	} else {
		m.sink.Emit(Instruction{Op: OpHidePanel, Target: panelFor(m.Current().Page)})
	}
	m.sink.Emit(Instruction{Op: OpShowPanel, Target: PanelLocationInfo})
	m.sink.Emit(Instruction{Op: OpAddClass, Target: TargetMap, Class: ClassMediaMap})
}

// HideLocationInfo closes the info panel and restores whichever list it
// covered.
func (m *Manager) HideLocationInfo() {
	m.mu.Lock()
	if !m.infoOpen {
		m.mu.Unlock()
		return
	}
	m.infoOpen = false
	fromSearch := m.infoFromSearch
	page := m.current.Page
	m.mu.Unlock()

	m.sink.Emit(Instruction{Op: OpHidePanel, Target: PanelLocationInfo})
	m.sink.Emit(Instruction{Op: OpRemoveClass, Target: TargetMap, Class: ClassMediaMap})
	if fromSearch {
		m.sink.Emit(Instruction{Op: OpShowPanel, Target: PanelSearch})
	} else {
		m.sink.Emit(Instruction{Op: OpShowPanel, Target: panelFor(page)})
	}
}

// InfoOpen reports whether the expanded info panel is showing.
func (m *Manager) InfoOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.infoOpen
}

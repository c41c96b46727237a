package nav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/repository/memory"
)

func newTestManager(t *testing.T) (*Manager, *InstructionLog) {
	t.Helper()
	log := NewInstructionLog()
	states := memory.NewStateRepository()
	return NewManager(states, "device-1", log, zap.NewNop()), log
}

func shownPanels(instructions []Instruction) []string {
	var out []string
	for _, in := range instructions {
		if in.Op == OpShowPanel {
			out = append(out, in.Target)
		}
	}
	return out
}

func TestManager_ShowPageAndRestore(t *testing.T) {
	ctx := context.Background()
	states := memory.NewStateRepository()
	m := NewManager(states, "device-1", NewInstructionLog(), zap.NewNop())

	m.ShowPage(ctx, State{Page: PageCategory, CatID: 7})
	assert.Equal(t, State{Page: PageCategory, CatID: 7}, m.Current())

	// A fresh manager on the same device restores the saved position.
	m2 := NewManager(states, "device-1", NewInstructionLog(), zap.NewNop())
	assert.Equal(t, State{Page: PageCategory, CatID: 7}, m2.RestoreState(ctx))

	// Other devices are unaffected.
	m3 := NewManager(states, "device-2", NewInstructionLog(), zap.NewNop())
	assert.Equal(t, HomeState(), m3.RestoreState(ctx))
}

func TestManager_HomeKeepsStaleIDs(t *testing.T) {
	ctx := context.Background()
	states := memory.NewStateRepository()
	m := NewManager(states, "device-1", NewInstructionLog(), zap.NewNop())

	m.ShowPage(ctx, State{Page: PageSingle, CatID: 7, PostID: 42})
	m.ShowPage(ctx, HomeState())

	// The stale ids stay stored but a home page restores as plain home.
	catID, err := states.Get(ctx, "device-1", "currentCatId")
	require.NoError(t, err)
	assert.Equal(t, "7", catID)
	assert.Equal(t, HomeState(), m.RestoreState(ctx))
}

func TestManager_RestoreMalformedFallsBackToHome(t *testing.T) {
	ctx := context.Background()

	cases := map[string]map[string]string{
		"empty store":         {},
		"unknown page":        {"currentPage": "checkout"},
		"category no id":      {"currentPage": "category"},
		"category bad id":     {"currentPage": "category", "currentCatId": "abc"},
		"category zero id":    {"currentPage": "category", "currentCatId": "0"},
		"single without post": {"currentPage": "single", "currentCatId": "7"},
	}

	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			states := memory.NewStateRepository()
			for k, v := range stored {
				require.NoError(t, states.Set(ctx, "d", k, v))
			}
			m := NewManager(states, "d", NewInstructionLog(), zap.NewNop())
			assert.Equal(t, HomeState(), m.RestoreState(ctx))
		})
	}
}

func TestManager_BackMatrix(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		from State
		want State
		ok   bool
	}{
		{"single with category", State{Page: PageSingle, CatID: 7, PostID: 42}, State{Page: PageCategory, CatID: 7}, true},
		{"single without category", State{Page: PageSingle, PostID: 42}, HomeState(), true},
		{"category", State{Page: PageCategory, CatID: 7}, HomeState(), true},
		{"home", HomeState(), State{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			m.ShowPage(ctx, tc.from)
			got, ok := m.Back()
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestManager_ShowPageEmitsPanelSwitch(t *testing.T) {
	m, log := newTestManager(t)

	m.ShowPage(context.Background(), State{Page: PageCategory, CatID: 3})
	instructions := log.Drain()

	assert.Equal(t, []string{PanelCategory}, shownPanels(instructions))

	hidden := map[string]bool{}
	for _, in := range instructions {
		if in.Op == OpHidePanel {
			hidden[in.Target] = true
		}
	}
	assert.True(t, hidden[PanelHome])
	assert.True(t, hidden[PanelSingle])
	assert.True(t, hidden[PanelSearch])
}

func TestManager_MenuAndDropdownExclusion(t *testing.T) {
	m, log := newTestManager(t)

	m.ToggleMenu()
	assert.Equal(t, []string{PanelMenu}, shownPanels(log.Drain()))

	// Opening a dropdown closes the menu.
	m.ToggleDropdown(DropdownSubcategory)
	instructions := log.Drain()
	var ops []InstructionOp
	for _, in := range instructions {
		ops = append(ops, in.Op)
	}
	assert.Contains(t, ops, OpHidePanel)
	assert.Contains(t, ops, OpOpenDropdown)

	// Toggling the same dropdown again closes it.
	m.ToggleDropdown(DropdownSubcategory)
	instructions = log.Drain()
	require.Len(t, instructions, 1)
	assert.Equal(t, OpCloseDropdown, instructions[0].Op)

	// Opening the menu closes an open dropdown.
	m.ToggleDropdown(DropdownSubcategory)
	log.Drain()
	m.ToggleMenu()
	instructions = log.Drain()
	assert.Equal(t, OpCloseDropdown, instructions[0].Op)
	assert.Equal(t, OpShowPanel, instructions[1].Op)
}

func TestManager_ShowPageClosesOpenOverlays(t *testing.T) {
	m, log := newTestManager(t)

	// An open dropdown is told to close when the page switches.
	m.ToggleDropdown(DropdownSubcategory)
	log.Drain()
	m.ShowPage(context.Background(), State{Page: PageCategory, CatID: 3})
	instructions := log.Drain()
	require.Equal(t, OpCloseDropdown, instructions[0].Op)
	assert.Equal(t, DropdownSubcategory, instructions[0].Target)

	// Same for the menu.
	m.ToggleMenu()
	log.Drain()
	m.ShowPage(context.Background(), HomeState())
	instructions = log.Drain()
	require.Equal(t, OpHidePanel, instructions[0].Op)
	assert.Equal(t, PanelMenu, instructions[0].Target)
}

func TestManager_LocationInfoRestoresCoveredList(t *testing.T) {
	ctx := context.Background()

	t.Run("from category", func(t *testing.T) {
		m, log := newTestManager(t)
		m.ShowPage(ctx, State{Page: PageCategory, CatID: 5})
		log.Drain()

		m.ShowLocationInfo(false)
		assert.Equal(t, []string{PanelLocationInfo}, shownPanels(log.Drain()))
		assert.True(t, m.InfoOpen())

		m.HideLocationInfo()
		assert.Equal(t, []string{PanelCategory}, shownPanels(log.Drain()))
		assert.False(t, m.InfoOpen())
	})

	t.Run("from search", func(t *testing.T) {
		m, log := newTestManager(t)
		m.ShowPage(ctx, HomeState())
		log.Drain()

		m.ShowLocationInfo(true)
		log.Drain()

		m.HideLocationInfo()
		assert.Equal(t, []string{PanelSearch}, shownPanels(log.Drain()))
	})

	t.Run("hide when closed is a no-op", func(t *testing.T) {
		m, log := newTestManager(t)
		log.Drain()
		m.HideLocationInfo()
		assert.Empty(t, log.Drain())
	})

	t.Run("map class follows the panel", func(t *testing.T) {
		m, log := newTestManager(t)
		m.ShowPage(ctx, State{Page: PageCategory, CatID: 5})
		log.Drain()

		m.ShowLocationInfo(false)
		assert.Contains(t, log.Drain(), Instruction{Op: OpAddClass, Target: TargetMap, Class: ClassMediaMap})

		m.HideLocationInfo()
		assert.Contains(t, log.Drain(), Instruction{Op: OpRemoveClass, Target: TargetMap, Class: ClassMediaMap})
	})
}

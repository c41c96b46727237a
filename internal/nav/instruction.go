package nav

import "sync"

// InstructionOp names one UI effect a client should apply.
type InstructionOp string

const (
	OpShowPanel     InstructionOp = "show_panel"
	OpHidePanel     InstructionOp = "hide_panel"
	OpSetHTML       InstructionOp = "set_html"
	OpAddClass      InstructionOp = "add_class"
	OpRemoveClass   InstructionOp = "remove_class"
	OpOpenDropdown  InstructionOp = "open_dropdown"
	OpCloseDropdown InstructionOp = "close_dropdown"
	OpOpenURL       InstructionOp = "open_url"
)

// Panel and dropdown identifiers shared with the clients.
const (
	PanelHome         = "home"
	PanelCategory     = "category"
	PanelSingle       = "single"
	PanelSearch       = "search-results"
	PanelLocationInfo = "location-info"
	PanelMenu         = "menu"

	DropdownSubcategory = "subcategory"
)

// The map container grows while the info panel covers the list, driven by
// a class hook the clients style.
const (
	TargetMap     = "map"
	ClassMediaMap = "media-map"
)

// Instruction is one rendering effect, serialized to the client as-is.
type Instruction struct {
	Op     InstructionOp `json:"op"`
	Target string        `json:"target"`
	HTML   string        `json:"html,omitempty"`
	Class  string        `json:"class,omitempty"`
	URL    string        `json:"url,omitempty"`
}

// Sink receives instructions as navigation produces them.
type Sink interface {
	Emit(Instruction)
}

// InstructionLog buffers instructions until the session API drains them.
type InstructionLog struct {
	mu           sync.Mutex
	instructions []Instruction
}

func NewInstructionLog() *InstructionLog {
	return &InstructionLog{}
}

func (l *InstructionLog) Emit(in Instruction) {
	l.mu.Lock()
	l.instructions = append(l.instructions, in)
	l.mu.Unlock()
}

func (l *InstructionLog) Drain() []Instruction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.instructions
	l.instructions = nil
	return out
}

func (l *InstructionLog) Instructions() []Instruction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Instruction, len(l.instructions))
	copy(out, l.instructions)
	return out
}

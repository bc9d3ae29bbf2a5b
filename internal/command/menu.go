package command

type Point struct {
	X int
	Y int
}

type Size struct {
	W int
	H int
}

// Menu is an open context menu. Pos is already clamped to the viewport.
type Menu struct {
	Target  Target
	Actions []Action
	Pos     Point
	Cursor  int
}

// menu chrome: one border cell and one padding cell on each side.
const (
	menuPadX = 4
	menuPadY = 2
)

func newMenu(t Target, at Point, viewport Size) Menu {
	m := Menu{Target: t, Actions: Actions(t)}
	m.Pos = clamp(at, m.Footprint(), viewport)
	return m
}

// Footprint is the number of cells the rendered menu occupies.
func (m Menu) Footprint() Size {
	w := 0
	for _, a := range m.Actions {
		if n := len([]rune(a.Label())); n > w {
			w = n
		}
	}
	return Size{W: w + menuPadX, H: len(m.Actions) + menuPadY}
}

// Contains reports whether p falls inside the rendered menu.
func (m Menu) Contains(p Point) bool {
	f := m.Footprint()
	return p.X >= m.Pos.X && p.X < m.Pos.X+f.W && p.Y >= m.Pos.Y && p.Y < m.Pos.Y+f.H
}

// ActionAt maps a point inside the menu to the action row under it.
func (m Menu) ActionAt(p Point) (Action, bool) {
	if !m.Contains(p) {
		return "", false
	}
	row := p.Y - m.Pos.Y - menuPadY/2
	if row < 0 || row >= len(m.Actions) {
		return "", false
	}
	return m.Actions[row], true
}

func (m *Menu) MoveCursor(delta int) {
	if len(m.Actions) == 0 {
		return
	}
	m.Cursor = (m.Cursor + delta + len(m.Actions)) % len(m.Actions)
}

func (m Menu) Selected() Action {
	if m.Cursor < 0 || m.Cursor >= len(m.Actions) {
		return ""
	}
	return m.Actions[m.Cursor]
}

// clamp keeps a box of size f anchored at p inside viewport, reserving the right and
// bottom edges for the box itself.
func clamp(p Point, f Size, viewport Size) Point {
	if viewport.W > 0 && p.X > viewport.W-f.W {
		p.X = viewport.W - f.W
	}
	if viewport.H > 0 && p.Y > viewport.H-f.H {
		p.Y = viewport.H - f.H
	}
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	return p
}

// Package termview shows a simulation in a terminal with tcell. Each terminal
// cell draws two grid cells: an upper half block with the top cell as
// foreground and the bottom cell as background.
package termview

import (
	"github.com/gdamore/tcell/v2"

	"mad-sand/internal/core"
	pcore "mad-sand/pkg/core"
)

const halfBlock = '▀'

var statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

// View renders a sim's pixel feed onto a screen. The last terminal row is
// reserved for a status line.
type View struct {
	screen tcell.Screen
	sim    core.Sim
	px     []uint32
}

// NewView returns a view of sim on screen.
func NewView(screen tcell.Screen, sim core.Sim) *View {
	return &View{screen: screen, sim: sim}
}

// Draw renders the current frame and the status line, then shows the screen.
func (v *View) Draw(status string) {
	size := v.sim.Size()
	if len(v.px) != size.W*size.H {
		v.px = make([]uint32, size.W*size.H)
	}
	v.sim.Render(v.px)

	cols, rows := v.screen.Size()
	v.screen.Clear()
	for r := 0; r < rows-1; r++ {
		top := 2 * r
		if top >= size.H {
			break
		}
		for c := 0; c < cols && c < size.W; c++ {
			fg := cellColor(v.px[top*size.W+c])
			bg := tcell.ColorBlack
			if top+1 < size.H {
				bg = cellColor(v.px[(top+1)*size.W+c])
			}
			v.screen.SetContent(c, r, halfBlock, nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}
	if rows > 0 {
		drawText(v.screen, 0, rows-1, cols, status)
	}
	v.screen.Show()
}

// GridAt maps a terminal cell to the grid cell drawn in its upper half.
func (v *View) GridAt(col, row int) (x, y int, ok bool) {
	size := v.sim.Size()
	_, rows := v.screen.Size()
	x, y = col, 2*row
	if col < 0 || row < 0 || row >= rows-1 || x >= size.W || y >= size.H {
		return 0, 0, false
	}
	return x, y, true
}

func cellColor(p uint32) tcell.Color {
	r, g, b, a := pcore.Pixel(p).Unpack()
	if a == 0 {
		return tcell.ColorBlack
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func drawText(s tcell.Screen, x, y, width int, text string) {
	for _, r := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, r, nil, statusStyle)
		x++
	}
}

package render

import (
	"image/color"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"git.lost.host/meutraa/tempo/internal/theme"
)

type cell struct {
	ch    string
	color color.RGBA
}

var blank = cell{ch: " "}

// Terminal draws primitives as coloured characters. Only cells that
// changed since the last frame are written.
type Terminal struct {
	out          io.Writer
	fd           int
	rows, cols   int
	buffer       strings.Builder
	restoreState *term.State
	cells, prev  []cell
}

func NewTerminal(out *os.File) *Terminal {
	return &Terminal{out: out, fd: int(out.Fd())}
}

func (r *Terminal) Init() error {
	if term.IsTerminal(r.fd) {
		state, err := term.MakeRaw(r.fd)
		if nil != err {
			return errors.Wrap(err, "unable to enter raw mode")
		}
		r.restoreState = state
		cols, rows, err := term.GetSize(r.fd)
		if nil != err {
			return errors.Wrap(err, "unable to get terminal size")
		}
		r.Resize(cols, rows)
	} else {
		r.Resize(80, 24)
	}

	bg := theme.Default.Background()
	r.buffer.WriteString("\033[?1049h") // Enable alternate buffer
	r.buffer.WriteString("\033[?25l")   // Make the cursor invisible
	r.background(bg)
	r.buffer.WriteString("\033[2J")
	return r.flush()
}

func (r *Terminal) Deinit() error {
	r.buffer.WriteString("\033[0m")
	r.buffer.WriteString("\033[?1049l") // Disable alternate buffer
	r.buffer.WriteString("\033[?25h")   // Make the cursor visible
	err := r.flush()
	if r.restoreState != nil {
		if rerr := term.Restore(r.fd, r.restoreState); nil != rerr {
			return rerr
		}
	}
	return err
}

// Resize forgets the previous frame so the next one is drawn in full.
func (r *Terminal) Resize(cols, rows int) {
	r.cols, r.rows = max(cols, 1), max(rows, 1)
	r.cells = make([]cell, r.cols*r.rows)
	r.prev = make([]cell, r.cols*r.rows)
}

func (r *Terminal) Draw(ps []Primitive) error {
	if r.fd > 0 && term.IsTerminal(r.fd) {
		if cols, rows, err := term.GetSize(r.fd); nil == err && (cols != r.cols || rows != r.rows) {
			r.Resize(cols, rows)
			r.buffer.WriteString("\033[2J")
		}
	}
	rasterize(r.cells, r.cols, r.rows, ps)
	for i, c := range r.cells {
		if c == r.prev[i] {
			continue
		}
		row, col := i/r.cols+1, i%r.cols+1
		if c.ch == " " {
			r.Fill(row, col, " ")
		} else {
			r.FillColor(row, col, c.color, c.ch)
		}
	}
	r.cells, r.prev = r.prev, r.cells
	return r.flush()
}

func (r *Terminal) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *Terminal) FillColor(row, column int, c color.RGBA, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H\033[38;2;")
	r.buffer.WriteString(strconv.Itoa(int(c.R)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.G)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.B)))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[39m")
}

func (r *Terminal) background(c color.RGBA) {
	r.buffer.WriteString("\033[48;2;")
	r.buffer.WriteString(strconv.Itoa(int(c.R)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.G)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.B)))
	r.buffer.WriteString("m")
}

func (r *Terminal) flush() error {
	_, err := io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
	return err
}

// rasterize paints ps onto a cols x rows grid, lowest layer first.
func rasterize(cells []cell, cols, rows int, ps []Primitive) {
	for i := range cells {
		cells[i] = blank
	}
	sorted := make([]Primitive, len(ps))
	copy(sorted, ps)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Layer < sorted[j].Layer })

	set := func(x, y int, ch string, c color.RGBA) {
		if x < 0 || y < 0 || x >= cols || y >= rows {
			return
		}
		cells[y*cols+x] = cell{ch: ch, color: c}
	}
	fx := func(v float64) int { return int(math.Floor(v * float64(cols))) }
	fy := func(v float64) int { return int(math.Floor(v * float64(rows))) }

	for _, p := range sorted {
		switch p.Shape {
		case Rect:
			x0, y0 := fx(p.X), fy(p.Y)
			x1, y1 := max(fx(p.X+p.W), x0+1), max(fy(p.Y+p.H), y0+1)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					set(x, y, "█", p.Color)
				}
			}
		case Circle:
			cx, cy := fx(p.X), fy(p.Y)
			rx, ry := p.W/2*float64(cols), p.H/2*float64(rows)
			if rx < 1.5 && ry < 1.5 {
				set(cx, cy, "●", p.Color)
				continue
			}
			steps := int(4 * (rx + ry))
			for i := 0; i < steps; i++ {
				a := 2 * math.Pi * float64(i) / float64(steps)
				set(cx+int(math.Round(rx*math.Cos(a))), cy+int(math.Round(ry*math.Sin(a))), "·", p.Color)
			}
		case Text:
			runes := []rune(p.Text)
			x, y := fx(p.X), fy(p.Y)
			if p.W > 0 {
				x += (fx(p.W) - len(runes)) / 2
			}
			for i, ch := range runes {
				set(x+i, y, string(ch), p.Color)
			}
		}
	}
}

package render

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rfiles/internal/search"
	"github.com/mattn/go-runewidth"
)

// runeWidths caches runewidth lookups; names are redrawn on every frame.
type runeWidths struct {
	ascii [128]int8 // width+1, 0 means unknown
	mu    sync.RWMutex
	wide  map[rune]int
}

func (c *runeWidths) width(ru rune) int {
	if ru >= 0 && ru < 128 {
		if w := c.ascii[ru]; w != 0 {
			return int(w) - 1
		}
		w := max(runewidth.RuneWidth(ru), 0)
		c.ascii[ru] = int8(w + 1)
		return w
	}
	c.mu.RLock()
	w, ok := c.wide[ru]
	c.mu.RUnlock()
	if ok {
		return w
	}
	w = max(runewidth.RuneWidth(ru), 0)
	c.mu.Lock()
	if c.wide == nil {
		c.wide = make(map[rune]int)
	}
	c.wide[ru] = w
	c.mu.Unlock()
	return w
}

func (r *Renderer) cachedRuneWidth(ru rune) int {
	return r.widths.width(ru)
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += r.cachedRuneWidth(ru)
	}
	return width
}

// drawTextLine draws text from startX, clipping at maxWidth columns. Zero
// width runes are attached to the preceding cell. Returns the next free x.
func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	for i := 0; i < len(runes); {
		mainc := runes[i]
		i++
		w := r.cachedRuneWidth(mainc)
		if w == 0 {
			w = 1
		}
		if x-startX+w > maxWidth {
			break
		}
		var combc []rune
		for i < len(runes) && r.cachedRuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		x += w
	}
	return x
}

func (r *Renderer) drawStyledRune(x, y, maxX int, ru rune, style tcell.Style) int {
	if x >= maxX {
		return x
	}
	width := r.cachedRuneWidth(ru)
	if width <= 0 {
		width = 1
	}
	r.screen.SetContent(x, y, ru, nil, style)
	for w := 1; w < width && x+w < maxX; w++ {
		r.screen.SetContent(x+w, y, ' ', nil, style)
	}
	return x + width
}

// fill paints [fromX, toX) on row y.
func (r *Renderer) fill(fromX, toX, y int, style tcell.Style) {
	for x := fromX; x < toX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// drawHighlightedText draws text with the runes covered by spans in
// highlightStyle. Spans are rune indexes into text.
func (r *Renderer) drawHighlightedText(startX, y, maxX int, text string, spans []search.MatchSpan, baseStyle, highlightStyle tcell.Style) int {
	x := startX
	spanIdx := 0
	for idx, ru := range []rune(text) {
		if x >= maxX {
			break
		}
		for spanIdx < len(spans) && idx >= spans[spanIdx].End {
			spanIdx++
		}
		style := baseStyle
		if spanIdx < len(spans) && idx >= spans[spanIdx].Start {
			style = highlightStyle
		}
		x = r.drawStyledRune(x, y, maxX, ru, style)
	}
	return x
}

package display

import (
	"fmt"
	"image/color"
	"log"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

// Panel is a pixel display with a frame buffer, such as an SSD1306.
type Panel interface {
	drivers.Displayer
	ClearBuffer()
}

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// OLED draws MM:SS centred on a small pixel panel.
// Identical consecutive frames are flushed once.
type OLED struct {
	mu    sync.Mutex
	panel Panel
	font  tinyfont.Fonter
	last  string
	drawn bool
}

// NewOLED creates an OLED drawing on panel.
func NewOLED(panel Panel) *OLED {
	return &OLED{panel: panel, font: &freemono.Bold18pt7b}
}

// RenderRemaining shows minutes:seconds.
func (o *OLED) RenderRemaining(minutes, seconds int) {
	o.draw(fmt.Sprintf("%02d:%02d", minutes, seconds))
}

// Clear blanks the panel.
func (o *OLED) Clear() {
	o.draw("")
}

func (o *OLED) draw(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.drawn && text == o.last {
		return
	}

	o.panel.ClearBuffer()
	if text != "" {
		w, h := o.panel.Size()
		inner, _ := tinyfont.LineWidth(o.font, text)
		x := (w - int16(inner)) / 2
		if x < 0 {
			x = 0
		}
		// y is the baseline; the 18pt digits rise about 22px above it.
		tinyfont.WriteLine(o.panel, o.font, x, h/2+11, text, white)
	}
	if err := o.panel.Display(); err != nil {
		log.Printf("display: flush: %v", err)
		return
	}
	o.last = text
	o.drawn = true
}

//go:build linux

package gpio

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealButtons reads buttons from actual hardware using the Linux GPIO
// character device. Rising edges are delivered on Edges.
type RealButtons struct {
	chip  *gpiocdev.Chip
	lines map[string]*gpiocdev.Line
	order []string
	edges chan Edge

	now     func() time.Time
	dropped atomic.Uint64
}

// NewRealButtons requests every pin as an input with pull-down and rising
// edge detection.
func NewRealButtons(chipName string, pins []Pin, now func() time.Time) (*RealButtons, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	b := &RealButtons{
		chip:  chip,
		lines: make(map[string]*gpiocdev.Line, len(pins)),
		edges: make(chan Edge, EdgeBuffer),
		now:   now,
	}

	for _, p := range pins {
		name := p.Name
		// The handler runs on the gpiocdev watcher goroutine and must not block.
		handler := func(evt gpiocdev.LineEvent) {
			if evt.Type != gpiocdev.LineEventRisingEdge {
				return
			}
			select {
			case b.edges <- Edge{Button: name, Time: b.now()}:
			default:
				if n := b.dropped.Add(1); n == 1 || n%100 == 0 {
					log.Printf("gpio: edge queue full, dropped %d edges", n)
				}
			}
		}

		line, err := chip.RequestLine(p.Offset,
			gpiocdev.AsInput,
			gpiocdev.WithPullDown,
			gpiocdev.WithRisingEdge,
			gpiocdev.WithEventHandler(handler))
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("request button %s pin %d: %w", p.Name, p.Offset, err)
		}
		b.lines[p.Name] = line
		b.order = append(b.order, p.Name)
	}

	return b, nil
}

// Edges returns the rising edge channel.
func (b *RealButtons) Edges() <-chan Edge {
	return b.edges
}

// Dropped returns the number of edges dropped because the queue was full.
func (b *RealButtons) Dropped() uint64 {
	return b.dropped.Load()
}

// Read returns the current level of every button.
func (b *RealButtons) Read() (Levels, error) {
	levels := make(Levels, len(b.order))
	for _, name := range b.order {
		v, err := b.lines[name].Value()
		if err != nil {
			return nil, fmt.Errorf("read button %s: %w", name, err)
		}
		levels[name] = v == 1
	}
	return levels, nil
}

// Close releases GPIO resources.
// Lines are reconfigured to input with pull-down (matching Pi boot defaults)
// before closing.
func (b *RealButtons) Close() error {
	var errs []error
	for _, name := range b.order {
		line := b.lines[name]
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", name, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealLED drives one LED output line.
type RealLED struct {
	mu   sync.Mutex
	name string
	line *gpiocdev.Line
	on   bool
}

// Set switches the LED. Write failures are logged.
func (l *RealLED) Set(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setLocked(on)
}

// Toggle inverts the LED.
func (l *RealLED) Toggle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.setLocked(!l.on)
}

func (l *RealLED) setLocked(on bool) {
	v := 0
	if on {
		v = 1
	}
	if err := l.line.SetValue(v); err != nil {
		log.Printf("gpio: set led %s: %v", l.name, err)
		return
	}
	l.on = on
}

// RealLEDs owns the LED output lines.
type RealLEDs struct {
	chip  *gpiocdev.Chip
	leds  map[string]*RealLED
	order []string
}

// NewRealLEDs requests every pin as an output, initially off.
func NewRealLEDs(chipName string, pins []Pin) (*RealLEDs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealLEDs{
		chip: chip,
		leds: make(map[string]*RealLED, len(pins)),
	}
	for _, p := range pins {
		line, err := chip.RequestLine(p.Offset, gpiocdev.AsOutput(0))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request led %s pin %d: %w", p.Name, p.Offset, err)
		}
		r.leds[p.Name] = &RealLED{name: p.Name, line: line}
		r.order = append(r.order, p.Name)
	}
	return r, nil
}

// LED returns the LED with the given name, or nil.
func (r *RealLEDs) LED(name string) *RealLED {
	return r.leds[name]
}

// Close switches every LED off and releases the lines.
func (r *RealLEDs) Close() error {
	var errs []error
	for _, name := range r.order {
		led := r.leds[name]
		if err := led.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", name, err))
		}
		if err := led.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", name, err))
		}
		if err := led.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

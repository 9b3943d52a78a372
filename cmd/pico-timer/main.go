//go:build rp2040

// Command pico-timer is the interval timer on a Raspberry Pi Pico with an
// SSD1306 OLED, two buttons, two LEDs and a passive buzzer.
package main

import (
	"machine"
	"time"

	"github.com/sweeney/pomodoro-timer/internal/display"
	"github.com/sweeney/pomodoro-timer/internal/logic"
	"tinygo.org/x/drivers/ssd1306"
)

//go:generate tinygo flash -target=pico

const (
	pollInterval  = 85 * time.Millisecond
	blinkInterval = 25 * time.Millisecond
)

type button struct {
	name string
	pin  machine.Pin
}

type edge struct {
	button string
	at     time.Time
}

var (
	buttons = []button{
		{name: "work", pin: WorkButton},
		{name: "break", pin: BreakButton},
	}
	edges = make(chan edge, 8)
)

func main() {
	println("pico-timer starting")

	machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz, SDA: SDA, SCL: SCL})
	// the panel needs a moment after a cold boot
	time.Sleep(time.Second)
	panel := ssd1306.NewI2C(machine.I2C0)
	panel.Configure(ssd1306.Config{Width: 128, Height: 64, Address: 0x3C, VccState: ssd1306.SWITCHCAPVCC})
	panel.ClearDisplay()

	out := logic.Outputs{
		Indicators: map[logic.Mode]logic.Indicator{
			"work":  newPinLED(WorkLED),
			"break": newPinLED(BreakLED),
		},
		Display: display.NewOLED(&panel),
	}
	if tone, err := newPWMTone(BuzzerPWM, Buzzer); err != nil {
		println("buzzer disabled:", err.Error())
	} else {
		out.Tone = tone
	}

	timer := logic.NewTimer(logic.DefaultTimerConfig(), out)
	disp := logic.NewDispatcher(logic.DefaultDispatcherConfig(), timer)

	for _, b := range buttons {
		b := b
		b.pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
		err := b.pin.SetInterrupt(machine.PinRising, func(machine.Pin) {
			select {
			case edges <- edge{button: b.name, at: time.Now()}:
			default:
			}
		})
		if err != nil {
			println("interrupt", b.name, err.Error())
		}
	}

	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 3000})
	machine.Watchdog.Start()

	poll := time.NewTicker(pollInterval)
	blink := time.NewTicker(blinkInterval)
	levels := make(map[string]bool, len(buttons))

	println("pico-timer ready")
	for {
		select {
		case e := <-edges:
			report(disp.Press(e.button, e.at))
		case now := <-blink.C:
			timer.Blink(now)
		case now := <-poll.C:
			for _, b := range buttons {
				levels[b.name] = b.pin.Get()
			}
			events := disp.Sample(levels, now)
			report(append(events, timer.Tick(now)...))
			machine.Watchdog.Update()
		}
	}
}

func report(events []logic.Event) {
	for _, e := range events {
		if e.Reason != "" {
			println("event:", string(e.Type), string(e.Mode), e.Reason)
		} else {
			println("event:", string(e.Type), string(e.Mode))
		}
	}
}

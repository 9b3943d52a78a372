// Command pomodoro-timer runs a button-driven interval timer on GPIO and
// publishes its state changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/pomodoro-timer/internal/buzzer"
	"github.com/sweeney/pomodoro-timer/internal/config"
	"github.com/sweeney/pomodoro-timer/internal/display"
	"github.com/sweeney/pomodoro-timer/internal/gpio"
	"github.com/sweeney/pomodoro-timer/internal/logic"
	"github.com/sweeney/pomodoro-timer/internal/mqtt"
	"github.com/sweeney/pomodoro-timer/internal/status"
	"github.com/sweeney/pomodoro-timer/internal/web"
)

// commandQueue bounds remote commands waiting for the main loop.
const commandQueue = 16

type options struct {
	poll       time.Duration
	blink      time.Duration
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	display    string
	configPath string
	printState bool
	dumpConfig bool
}

func main() {
	var opts options
	flag.DurationVar(&opts.poll, "poll", 85*time.Millisecond, "Button sampling and timer tick interval")
	flag.DurationVar(&opts.blink, "blink", 25*time.Millisecond, "Blink poll interval")
	flag.StringVar(&opts.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	flag.DurationVar(&opts.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&opts.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.StringVar(&opts.display, "display", "terminal", `Remaining-time display: "terminal" or "none"`)
	flag.StringVar(&opts.configPath, "config", "/etc/pomodoro-timer.yaml", "YAML layout file (missing file uses defaults)")
	flag.BoolVar(&opts.printState, "print-state", false, "Print current button levels and exit")
	flag.BoolVar(&opts.dumpConfig, "dump-config", false, "Print the effective configuration as YAML and exit")

	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.dumpConfig {
		data, err := config.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		os.Stdout.Write(data)
		return nil
	}

	// Initialize GPIO
	buttons, err := gpio.NewRealButtons(cfg.Chip, cfg.ButtonPins, time.Now)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	// Print state mode
	if opts.printState {
		levels, err := buttons.Read()
		if err != nil {
			return fmt.Errorf("read buttons: %w", err)
		}
		printLevels(os.Stdout, cfg.ButtonPins, levels)
		return nil
	}

	leds, err := gpio.NewRealLEDs(cfg.Chip, cfg.LEDPins)
	if err != nil {
		return fmt.Errorf("init leds: %w", err)
	}
	defer leds.Close()

	out := logic.Outputs{Indicators: make(map[logic.Mode]logic.Indicator)}
	for _, pin := range cfg.LEDPins {
		if led := leds.LED(pin.Name); led != nil {
			out.Indicators[logic.Mode(pin.Name)] = led
		}
	}

	// A missing buzzer only silences the alarm.
	if bz, err := buzzer.NewReal(cfg.BuzzerPin); err != nil {
		log.Printf("buzzer: disabled: %v", err)
	} else {
		defer bz.Close()
		out.Tone = bz
	}

	switch opts.display {
	case "terminal":
		out.Display = display.NewTerminal(os.Stdout)
	case "none", "":
	default:
		return fmt.Errorf("unknown display %q", opts.display)
	}

	timer := logic.NewTimer(cfg.Timer, out)
	disp := logic.NewDispatcher(cfg.Dispatcher, timer)
	commands := make(chan logic.Command, commandQueue)

	// Initialize MQTT
	var publisher mqtt.Publisher = noopPublisher{}
	var mqttStatus mqtt.ConnectionStatus
	if opts.broker != "" {
		p, err := mqtt.NewRealPublisher(mqtt.Options{
			Broker:   opts.broker,
			Commands: commands,
		})
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		publisher, mqttStatus = p, p
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      opts.poll.Milliseconds(),
		BlinkMs:     opts.blink.Milliseconds(),
		DebounceMs:  cfg.Dispatcher.Debounce.Milliseconds(),
		LongPressMs: cfg.Dispatcher.LongPress.Milliseconds(),
		HeartbeatMs: opts.heartbeat.Milliseconds(),
		Broker:      opts.broker,
		HTTPPort:    opts.httpAddr,
		Modes:       cfg.Timer.Modes,
		Buttons:     disp.Buttons(),
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker, commands, time.Now)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	log.Printf("started: poll=%v blink=%v modes=%d buttons=%v broker=%s heartbeat=%v",
		opts.poll, opts.blink, len(cfg.Timer.Modes), disp.Buttons(), opts.broker, opts.heartbeat)

	pollTicker := time.NewTicker(opts.poll)
	defer pollTicker.Stop()
	blinkTicker := time.NewTicker(opts.blink)
	defer blinkTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	err = runLoop(loopIO{
		reader:     buttons,
		edges:      buttons.Edges(),
		commands:   commands,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		pollTick:   pollTicker.C,
		blinkTick:  blinkTicker.C,
		sig:        sigCh,
	}, disp, timer, opts.heartbeat, time.Now)

	if n := buttons.Dropped(); n > 0 {
		log.Printf("gpio: %d button edges dropped", n)
	}
	return err
}

// loopIO is everything runLoop reads from or reports to.
// Any of mqttStatus and tracker may be nil.
type loopIO struct {
	reader     gpio.Reader
	edges      <-chan gpio.Edge
	commands   <-chan logic.Command
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	pollTick   <-chan time.Time
	blinkTick  <-chan time.Time
	sig        <-chan os.Signal
}

// runLoop is the only goroutine that drives the timer. Poll and blink ticks
// carry their own timestamps; edges and commands are stamped by their source.
func runLoop(lp loopIO, disp *logic.Dispatcher, timer *logic.Timer, heartbeat time.Duration, now func() time.Time) error {
	hb := logic.NewHeartbeat(now())

	handle := func(events []logic.Event, t time.Time) {
		hb.Record(events)
		for _, event := range events {
			if event.Reason != "" {
				log.Printf("event: %s mode=%s state=%s reason=%s", event.Type, event.Mode, event.State, event.Reason)
			} else {
				log.Printf("event: %s mode=%s state=%s remaining=%v", event.Type, event.Mode, event.State, event.Remaining.Round(time.Second))
			}
			if err := lp.publisher.Publish(event); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure
			}
		}
		if lp.tracker != nil {
			lp.tracker.Update(timer.Snapshot(t), hb.Counts())
			if lp.mqttStatus != nil {
				lp.tracker.SetMQTTConnected(lp.mqttStatus.IsConnected())
			}
		}
	}

	for {
		select {
		case s := <-lp.sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if lp.tracker != nil {
				if lp.mqttStatus != nil {
					lp.tracker.SetMQTTConnected(lp.mqttStatus.IsConnected())
				}
				snap := lp.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := lp.publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case e := <-lp.edges:
			handle(disp.Press(e.Button, e.Time), e.Time)

		case cmd := <-lp.commands:
			log.Printf("command: %s button=%s mode=%s", cmd.Type, cmd.Button, cmd.Mode)
			handle(disp.Apply(cmd), cmd.Time)

		case t := <-lp.blinkTick:
			timer.Blink(t)

		case t := <-lp.pollTick:
			var events []logic.Event
			levels, err := lp.reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
			} else {
				events = disp.Sample(levels, t)
			}
			events = append(events, timer.Tick(t)...)
			handle(events, t)

			if hbData := hb.Check(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v started=%d paused=%d resumed=%d finished=%d reset=%d",
					hbData.Uptime, hbData.Counts.Started, hbData.Counts.Paused, hbData.Counts.Resumed,
					hbData.Counts.Finished, hbData.Counts.Reset)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if lp.tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						lp.tracker.SetNetwork(net)
					}
					snap := lp.tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := lp.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// noopPublisher stands in when MQTT is disabled.
type noopPublisher struct{}

func (noopPublisher) Publish(logic.Event) error { return nil }

func (noopPublisher) PublishSystem(mqtt.SystemEvent) error { return nil }

func (noopPublisher) Close() error { return nil }

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// printLevels writes one "name: pressed|released" line per button in pin order.
func printLevels(w io.Writer, pins []gpio.Pin, levels gpio.Levels) {
	parts := make([]string, 0, len(pins))
	for _, pin := range pins {
		parts = append(parts, fmt.Sprintf("%s: %s", pin.Name, levelString(levels[pin.Name])))
	}
	fmt.Fprintln(w, strings.Join(parts, ", "))
}

func levelString(pressed bool) string {
	if pressed {
		return "pressed"
	}
	return "released"
}

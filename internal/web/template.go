package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"strings"
	"time"

	"github.com/sweeney/pomodoro-timer/internal/logic"
	"github.com/sweeney/pomodoro-timer/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"mmss": func(d time.Duration) string {
		m, s := logic.SplitRemaining(d)
		return fmt.Sprintf("%02d:%02d", m, s)
	},
	"lower": func(s logic.State) string {
		return strings.ToLower(string(s))
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="1">
<title>{{.Countdown}} {{.Timer.Mode}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
.clock { font-size: 4em; text-align: center; margin: 0.3em 0; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.running { color: green; font-weight: bold; }
.paused { color: orange; }
.finished { color: red; font-weight: bold; }
.stopped { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
form { display: inline; }
button { font-family: monospace; margin: 2px; }
</style>
</head>
<body>
<h1>Pomodoro Timer</h1>

<div class="clock">{{.Countdown}}</div>

<h2>Timer</h2>
<table>
<tr><th>State</th><td id="state" class="{{lower .Timer.State}}">{{.Timer.State}}</td></tr>
<tr><th>Mode</th><td id="mode">{{.Timer.Mode}}</td></tr>
<tr><th>Length</th><td>{{mmss .Timer.Duration}}</td></tr>
<tr><th>Alarm</th><td>{{if .Timer.ToneActive}}sounding{{else}}off{{end}}</td></tr>
</table>

<p>
{{range .Config.Buttons}}<form method="post" action="/api/press/{{.}}"><input type="hidden" name="redirect" value="1"><button>press {{.}}</button></form>
{{end}}</p>
<p>
{{range .Config.Modes}}<form method="post" action="/api/command/start"><input type="hidden" name="mode" value="{{.Name}}"><input type="hidden" name="redirect" value="1"><button>start {{.Name}}</button></form>
{{end}}<form method="post" action="/api/command/pause"><input type="hidden" name="redirect" value="1"><button>pause</button></form>
<form method="post" action="/api/command/resume"><input type="hidden" name="redirect" value="1"><button>resume</button></form>
<form method="post" action="/api/command/reset"><input type="hidden" name="redirect" value="1"><button>reset</button></form>
</p>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Started</th><td>{{.Counts.Started}}</td></tr>
<tr><th>Paused</th><td>{{.Counts.Paused}}</td></tr>
<tr><th>Resumed</th><td>{{.Counts.Resumed}}</td></tr>
<tr><th>Finished</th><td>{{.Counts.Finished}}</td></tr>
<tr><th>Reset</th><td>{{.Counts.Reset}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
{{range .Config.Modes}}<tr><th>Mode {{.Name}}</th><td>{{mmss .Duration}}</td></tr>
{{end}}<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Long press</th><td>{{.Config.LongPressMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPPort}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	m, s := snap.Remaining()
	data := struct {
		status.Snapshot
		Uptime    time.Duration
		Countdown string
	}{
		Snapshot:  snap,
		Uptime:    snap.Uptime(),
		Countdown: fmt.Sprintf("%02d:%02d", m, s),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("http: render index: %v", err)
	}
}

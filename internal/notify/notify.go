package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"github.com/fatih/color"
	"github.com/nakachan-ing/dolist/internal/model"
)

// ErrUnavailable means the host cannot show notifications, or the user
// switched them off.
var ErrUnavailable = errors.New("notifications unavailable")

type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

const appName = "DoList"

// Desktop shows system notifications through notify-send (Linux) or
// osascript (macOS).
type Desktop struct {
	command string
}

func NewDesktop() *Desktop {
	var name string
	switch runtime.GOOS {
	case "darwin":
		name = "osascript"
	default:
		name = "notify-send"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return &Desktop{}
	}
	return &Desktop{command: path}
}

func (d *Desktop) Available() bool { return d.command != "" }

func (d *Desktop) Notify(ctx context.Context, n model.Notification) error {
	if !d.Available() {
		return ErrUnavailable
	}
	cmd := exec.CommandContext(ctx, d.command, d.args(n)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w (%s)", d.command, err, out)
	}
	return nil
}

func (d *Desktop) args(n model.Notification) []string {
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf("display notification %q with title %q subtitle %q", n.Body, appName, n.Title)
		return []string{"-e", script}
	}
	urgency := "normal"
	if n.Kind == model.KindDeadline {
		urgency = "critical"
	}
	return []string{"--app-name", appName, "--urgency", urgency, n.Title, n.Body}
}

// Terminal prints notifications as colored lines.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Notify(_ context.Context, n model.Notification) error {
	var c *color.Color
	switch n.Kind {
	case model.KindDeadline:
		c = color.New(color.FgRed, color.Bold)
	case model.KindReminder:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan, color.Bold)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "%s %s\n", c.Sprintf("🔔 %s", n.Title), n.Body)
	return err
}

type Disabled struct{}

func (Disabled) Notify(context.Context, model.Notification) error { return ErrUnavailable }

// Multi delivers to every notifier and joins their errors. It fails only when
// all of them fail.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n model.Notification) error {
	if len(m) == 0 {
		return ErrUnavailable
	}
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == len(m) {
		return errors.Join(errs...)
	}
	return nil
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu   sync.Mutex
	sent []model.Notification
	Err  error
}

func (r *Recorder) Notify(_ context.Context, n model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, n)
	return nil
}

func (r *Recorder) Sent() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.sent...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

// FromConfig builds the notifier selected in the settings.
func FromConfig(cfg model.Notifications, w io.Writer) Notifier {
	if !cfg.Enable {
		return Disabled{}
	}
	switch cfg.Backend {
	case "terminal":
		return NewTerminal(w)
	case "both":
		return Multi{NewDesktop(), NewTerminal(w)}
	default:
		return NewDesktop()
	}
}

package notify_libnotify

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const appName = "hudson-remote"

// Notifier shells out to notify-send. A soft notifier swallows failures, for
// hosts without a notification daemon.
type Notifier struct {
	soft bool
	opt  Options
}

func New() *Notifier     { return &Notifier{soft: false} }
func NewSoft() *Notifier { return &Notifier{soft: true} }

type Options struct {
	Urgency string
	Expire  time.Duration
}

func (n *Notifier) WithOptions(opt Options) *Notifier {
	return &Notifier{soft: n.soft, opt: opt}
}

func (n *Notifier) Notify(ctx context.Context, title, body, url string) error {
	cmd := exec.CommandContext(ctx, "notify-send", args(title, body, url, n.opt)...)
	if err := cmd.Run(); err != nil {
		if n.soft {
			return nil
		}
		return err
	}
	return nil
}

func args(title, body, url string, opt Options) []string {
	if strings.TrimSpace(url) != "" {
		if body == "" {
			body = url
		} else {
			body = body + "\n" + url
		}
	}

	out := []string{"--app-name=" + appName}
	if opt.Urgency != "" {
		out = append(out, "--urgency="+opt.Urgency)
	}
	if opt.Expire > 0 {
		out = append(out, "--expire-time="+strconv.Itoa(int(opt.Expire/time.Millisecond)))
	}
	return append(out, title, body)
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultURL = "http://localhost:8080"

var schemeRe = regexp.MustCompile(`^https?://`)

type WatchedJob struct {
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

type Config struct {
	Server struct {
		URL      string        `yaml:"url"`
		Host     string        `yaml:"host,omitempty"`
		User     string        `yaml:"user"`
		Password string        `yaml:"password"`
		Version  string        `yaml:"version,omitempty"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"server"`

	Poll struct {
		Interval  time.Duration `yaml:"interval"`
		Timeout   time.Duration `yaml:"timeout"`
		Jobs      []WatchedJob  `yaml:"jobs"`
		PauseFile string        `yaml:"pause_file"`
	} `yaml:"poll"`

	Cache struct {
		Path string `yaml:"path"`
	} `yaml:"cache"`
}

// NormalizeURL prefixes http:// unless s already names an http(s) scheme.
func NormalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || schemeRe.MatchString(s) {
		return s
	}
	return "http://" + s
}

func (c Config) EnabledJobs() []string {
	var out []string
	for _, j := range c.Poll.Jobs {
		if j.Enabled && j.Name != "" {
			out = append(out, j.Name)
		}
	}
	return out
}

// SetJobEnabled flips the watch flag of name. Enabling an unlisted job appends
// it; disabling one leaves it listed. It reports whether c changed.
func SetJobEnabled(c *Config, name string, enabled bool) bool {
	for i := range c.Poll.Jobs {
		if c.Poll.Jobs[i].Name != name {
			continue
		}
		if c.Poll.Jobs[i].Enabled == enabled {
			return false
		}
		c.Poll.Jobs[i].Enabled = enabled
		return true
	}
	if !enabled || name == "" {
		return false
	}
	c.Poll.Jobs = append(c.Poll.Jobs, WatchedJob{Name: name, Enabled: true})
	return true
}

// LoadFile reads path as written, without defaults or env overrides. A
// missing file yields the zero Config. Edits that are saved back start here.
func LoadFile(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(b, &c)
	return c, err
}

func Load(path string) (Config, error) {
	c, err := LoadFile(path)
	if err != nil {
		return c, err
	}

	if c.Server.Host != "" {
		c.Server.URL = c.Server.Host
	}

	if v := os.Getenv("HUDSON_HOST"); v != "" {
		c.Server.URL = v
	}

	if v := os.Getenv("HUDSON_URL"); v != "" {
		c.Server.URL = v
	}

	if v := os.Getenv("HUDSON_USER"); v != "" {
		c.Server.User = v
	}

	if v := os.Getenv("HUDSON_PASSWORD"); v != "" {
		c.Server.Password = v
	}

	if v := os.Getenv("HUDSON_VERSION"); v != "" {
		c.Server.Version = v
	}

	if v := os.Getenv("HUDSON_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.Timeout = d
		}
	}

	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Poll.Interval = d
		}
	}

	if v := os.Getenv("CACHE_PATH"); v != "" {
		c.Cache.Path = expandHome(v)
	}

	if s := os.Getenv("HUDSON_JOBS"); s != "" {
		var js []WatchedJob
		for _, item := range strings.Split(s, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			js = append(js, WatchedJob{Name: item, Enabled: true})
		}
		if len(js) > 0 {
			c.Poll.Jobs = js
		}
	}

	if c.Server.URL == "" {
		c.Server.URL = defaultURL
	}
	c.Server.URL = NormalizeURL(c.Server.URL)
	c.Server.Host = ""
	if c.Cache.Path == "" {
		c.Cache.Path = "~/.cache/hudson_status.json"
	}
	c.Cache.Path = expandHome(c.Cache.Path)

	if c.Server.Timeout <= 0 {
		c.Server.Timeout = 10 * time.Second
	}

	if c.Poll.Interval <= 0 {
		c.Poll.Interval = 10 * time.Second
	}

	if c.Poll.PauseFile == "" {
		c.Poll.PauseFile = expandHome("~/.cache/hudson_paused")
	}

	return c, nil
}

func Save(path string, c Config) error {
	if path == "" {
		return errors.New("empty config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	lockFile := path + ".lock"
	lf, err := os.OpenFile(lockFile, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return err
	}
	defer func() { _ = lf.Close() }()

	if runtime.GOOS != "windows" {
		if err := syscall.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
			return err
		}
		defer func() { _ = syscall.Flock(int(lf.Fd()), syscall.LOCK_UN) }()
	}

	b, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	defer func() { _ = f.Close() }()

	if _, err := f.Write(b); err != nil {
		return err
	}

	if err := f.Sync(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if h, _ := os.UserHomeDir(); h != "" {
			return h + p[1:]
		}
	}
	return p
}

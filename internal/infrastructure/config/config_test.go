package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_FromYAMLAndEnvOverride(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.yaml")

	yaml := `
server:
  url: ci.example.com
  user: alice
  password: pw-yaml
  timeout: 5s

poll:
  interval: 3s
  jobs:
    - name: nightly
      enabled: true
    - name: release
      enabled: false
`
	if err := os.WriteFile(cfgFile, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HUDSON_PASSWORD", "pw-env")

	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Server.URL != "http://ci.example.com" {
		t.Errorf("scheme not prefixed, got %s", c.Server.URL)
	}
	if c.Server.Password != "pw-env" {
		t.Errorf("env override failed, got %s", c.Server.Password)
	}
	if c.Poll.Interval != 3*time.Second {
		t.Errorf("interval = %s", c.Poll.Interval)
	}
	if got := c.EnabledJobs(); len(got) != 1 || got[0] != "nightly" {
		t.Errorf("enabled jobs = %v", got)
	}
}

func TestLoad_HostAliasAndDefaults(t *testing.T) {
	tmp := t.TempDir()
	cfgFile := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("server:\n  host: https://ci.local:8443\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.URL != "https://ci.local:8443" {
		t.Errorf("host alias ignored, got %s", c.Server.URL)
	}
	if c.Server.Timeout != 10*time.Second {
		t.Errorf("default timeout = %s", c.Server.Timeout)
	}

	c, err = Load(filepath.Join(tmp, "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if c.Server.URL != defaultURL {
		t.Errorf("default url = %s", c.Server.URL)
	}
}

func TestLoad_EnvJobs(t *testing.T) {
	t.Setenv("HUDSON_HOST", "test.host.com")
	t.Setenv("HUDSON_JOBS", "a, b,,c")

	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.URL != "http://test.host.com" {
		t.Errorf("url = %s", c.Server.URL)
	}
	if got := c.EnabledJobs(); len(got) != 3 || got[1] != "b" {
		t.Errorf("jobs = %v", got)
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"test.host.com":          "http://test.host.com",
		"localhost:8080/hudson":  "http://localhost:8080/hudson",
		"http://a.b":             "http://a.b",
		"https://a.b":            "https://a.b",
		"  https://padded.host ": "https://padded.host",
	}
	for in, want := range cases {
		if got := NormalizeURL(in); got != want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	var c Config
	c.Server.URL = "http://ci"
	c.Poll.Jobs = []WatchedJob{{Name: "foo", Enabled: true}}
	if err := Save(path, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Server.URL != "http://ci" || len(got.Poll.Jobs) != 1 || got.Poll.Jobs[0].Name != "foo" {
		t.Errorf("unexpected config after round trip: %+v", got)
	}
}

func TestSetJobEnabled(t *testing.T) {
	var c Config
	c.Poll.Jobs = []WatchedJob{{Name: "nightly", Enabled: true}, {Name: "release"}}

	if SetJobEnabled(&c, "nightly", true) {
		t.Error("already enabled job reported a change")
	}
	if !SetJobEnabled(&c, "release", true) {
		t.Error("release not enabled")
	}
	if !SetJobEnabled(&c, "nightly", false) {
		t.Error("nightly not disabled")
	}
	if SetJobEnabled(&c, "unknown", false) {
		t.Error("disabling an unlisted job reported a change")
	}
	if !SetJobEnabled(&c, "docs", true) {
		t.Error("unlisted job not appended")
	}

	if got := c.EnabledJobs(); len(got) != 2 || got[0] != "release" || got[1] != "docs" {
		t.Errorf("enabled jobs = %v", got)
	}
	if len(c.Poll.Jobs) != 3 {
		t.Errorf("jobs = %v", c.Poll.Jobs)
	}
}

func TestLoadFile_SaveIgnoresEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `server:
  host: ci.local
  password: from-file
poll:
  jobs:
    - name: a
      enabled: true
    - name: b
      enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HUDSON_PASSWORD", "s3cret")
	t.Setenv("HUDSON_JOBS", "tmp")
	t.Setenv("HUDSON_URL", "http://env.host")

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if !SetJobEnabled(&c, "x", true) {
		t.Fatal("x not added")
	}
	if err := Save(path, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "s3cret") || strings.Contains(string(b), "env.host") {
		t.Errorf("env values leaked into the file:\n%s", b)
	}

	saved, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Server.Password != "from-file" || saved.Server.Host != "ci.local" {
		t.Errorf("server section changed: %+v", saved.Server)
	}
	var names []string
	for _, j := range saved.Poll.Jobs {
		names = append(names, j.Name)
	}
	if strings.Join(names, ",") != "a,b,x" {
		t.Errorf("jobs = %v", names)
	}
}

func TestLoadFile_MissingIsZero(t *testing.T) {
	c, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Server.URL != "" || len(c.Poll.Jobs) != 0 {
		t.Errorf("expected zero config, got %+v", c)
	}
}

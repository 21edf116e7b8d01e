package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/coreos/pkg/capnslog"
	"github.com/kr/pretty"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "homonym")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestMissingConfigIsDefault(t *testing.T) {
	conf, err := LoadConfig(filepath.Join(tempDir(t), ConfigFile))
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(conf, DefaultConfig()); len(diff) > 0 {
		t.Errorf("config: %v", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(tempDir(t), ConfigFile)
	data := "echo_tree: true\npreload:\n  - prelude.hom\nlog_level: debug\n"
	if err := ioutil.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Prompt:   ">>> ",
		EchoTree: true,
		Preload:  []string{"prelude.hom"},
		LogLevel: "debug",
	}
	if diff := pretty.Diff(conf, want); len(diff) > 0 {
		t.Errorf("config: %v", diff)
	}

	level, err := conf.Level()
	if err != nil || level != capnslog.DEBUG {
		t.Errorf("Level() = %v, %v; want DEBUG", level, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := tempDir(t)
	tests := map[string]string{
		"unknown.yaml": "colour: blue\n",
		"level.yaml":   "log_level: loud\n",
		"syntax.yaml":  "prompt: [\n",
	}
	for name, data := range tests {
		path := filepath.Join(dir, name)
		if err := ioutil.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(tempDir(t), ConfigFile)
	if err := WriteConfig(path, DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(conf, DefaultConfig()); len(diff) > 0 {
		t.Errorf("config: %v", diff)
	}

	if err := WriteConfig(path, DefaultConfig()); err == nil {
		t.Error("WriteConfig overwrote an existing file")
	}
}

package config_test

import (
	"reflect"
	"testing"

	"github.com/wasya-io/les-environs/app/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"DEBUG", "LOG_DIR", "PROJECT_DIR", "SCLANG_PATH", "SCLANG_ARGS", "JS_INTERPRETER",
		"HISTORY_DB", "REWRITE_COMMENTS", "CONSOLE_SCROLLBACK", "OUTPUT_WAIT_MS",
	} {
		t.Setenv(key, "")
	}

	cfg := config.LoadConfig()

	if cfg.DebugMode {
		t.Error("DebugMode should default to false")
	}
	if cfg.SclangPath != "sclang" {
		t.Errorf("SclangPath = %q", cfg.SclangPath)
	}
	if !reflect.DeepEqual(cfg.SclangArgs, []string{"-i", "les-environs"}) {
		t.Errorf("SclangArgs = %v", cfg.SclangArgs)
	}
	if cfg.RewriteComments {
		t.Error("RewriteComments should default to false")
	}
	if cfg.ConsoleScrollback != 1000 {
		t.Errorf("ConsoleScrollback = %d", cfg.ConsoleScrollback)
	}
	if cfg.OutputWaitMS != 500 {
		t.Errorf("OutputWaitMS = %d", cfg.OutputWaitMS)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DEBUG", "true")
	t.Setenv("LOG_DIR", "/tmp/logs")
	t.Setenv("PROJECT_DIR", "/work/sketch")
	t.Setenv("SCLANG_PATH", "/usr/bin/sclang")
	t.Setenv("SCLANG_ARGS", "-i  vim -d /tmp")
	t.Setenv("JS_INTERPRETER", "node")
	t.Setenv("HISTORY_DB", "/tmp/h.db")
	t.Setenv("REWRITE_COMMENTS", "true")
	t.Setenv("CONSOLE_SCROLLBACK", "20")
	t.Setenv("OUTPUT_WAIT_MS", "0")

	cfg := config.LoadConfig()

	want := &config.Config{
		DebugMode:         true,
		LogDir:            "/tmp/logs",
		ProjectDir:        "/work/sketch",
		SclangPath:        "/usr/bin/sclang",
		SclangArgs:        []string{"-i", "vim", "-d", "/tmp"},
		JSInterpreter:     "node",
		HistoryDB:         "/tmp/h.db",
		RewriteComments:   true,
		ConsoleScrollback: 20,
		OutputWaitMS:      0,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("LoadConfig() = %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("CONSOLE_SCROLLBACK", "-3")
	t.Setenv("OUTPUT_WAIT_MS", "soon")

	cfg := config.LoadConfig()

	if cfg.ConsoleScrollback != 1000 {
		t.Errorf("ConsoleScrollback = %d, want default", cfg.ConsoleScrollback)
	}
	if cfg.OutputWaitMS != 500 {
		t.Errorf("OutputWaitMS = %d, want default", cfg.OutputWaitMS)
	}
}

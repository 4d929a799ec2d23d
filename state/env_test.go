package state

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"makejets/config"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_RedirectAndRestore(t *testing.T) {
	env := &LocalEnv{
		Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
	}
	for i := 0; i < 3; i++ {
		env.RedirectStdLog()
		if env.restoreStdLog == nil {
			t.Errorf("Iteration %d: restoreStdLog not set", i)
		}
		env.RestoreStdLog()
	}

	// no logger - nothing to redirect, nothing to restore
	bare := &LocalEnv{}
	bare.RedirectStdLog()
	if bare.restoreStdLog != nil {
		t.Error("Expected restoreStdLog to remain nil")
	}
	bare.RestoreStdLog()
}

func TestLocalEnv_StoreResult(t *testing.T) {
	env := &LocalEnv{}
	// no report requested
	env.StoreResult("histos", "/does/not/matter.root")

	dir := t.TempDir()
	conf := config.ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatal(err)
	}
	env.Rpt = rpt

	out := filepath.Join(dir, "info.txt")
	if err := os.WriteFile(out, []byte("1 2 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	env.StoreResult("dataCut", out)
	if err := rpt.Close(); err != nil {
		t.Fatal(err)
	}

	arc, err := zip.OpenReader(conf.Destination)
	if err != nil {
		t.Fatal(err)
	}
	defer arc.Close()
	for _, f := range arc.File {
		if f.Name == "dataCut/info.txt" {
			return
		}
	}
	t.Error("job result not found in report")
}

package migrate

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
)

func stub(t *testing.T, up, down func(string) error, ver func(string) (uint, bool, error)) {
	t.Helper()
	oldUp, oldDown, oldVer := runUp, runDown, version
	runUp, runDown, version = up, down, ver
	t.Cleanup(func() { runUp, runDown, version = oldUp, oldDown, oldVer })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "storyctl", SilenceUsage: true, SilenceErrors: true}
	InitMigrate(root)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrateCommands(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://test@localhost/test?sslmode=disable")

	var gotDSN string
	stub(t,
		func(dsn string) error { gotDSN = dsn; return nil },
		func(string) error { return errors.New("no down") },
		func(string) (uint, bool, error) { return 2, true, nil },
	)

	out, err := run(t, "migrate", "up")
	if err != nil || out != "migrations applied\n" {
		t.Fatalf("up: out=%q err=%v", out, err)
	}
	if gotDSN != "postgres://test@localhost/test?sslmode=disable" {
		t.Errorf("up used dsn %q", gotDSN)
	}

	if _, err := run(t, "migrate", "down"); err == nil {
		t.Error("down: expected error")
	}

	out, err = run(t, "migrate", "version")
	if err != nil || out != "version 2 (dirty)\n" {
		t.Errorf("version: out=%q err=%v", out, err)
	}
}

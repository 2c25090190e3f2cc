package proc

import (
	"errors"
	"os"
	"path/filepath"
	stdruntime "runtime"
	"testing"
)

func shellCommand(t *testing.T, script string) CommandLine {
	t.Helper()
	if stdruntime.GOOS == "windows" {
		t.Skip("spawn tests use /bin/sh and are skipped on windows")
	}
	return NewCommandLine("/bin/sh", "-c", script)
}

func TestStartPropagatesExitCode(t *testing.T) {
	builder := NewCommandBuilder(shellCommand(t, "exit 7"))

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if child.State() != Running {
		t.Fatalf("state after start = %v, want running", child.State())
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	code, err := child.ExitCode()
	if err != nil {
		t.Fatalf("exit code: %v", err)
	}
	if code != 7 {
		t.Fatalf("exit code = %d, want 7", code)
	}
}

func TestStartZeroExit(t *testing.T) {
	builder := NewCommandBuilder(shellCommand(t, "true"))

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if code, _ := child.ExitCode(); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestStartMissingExecutable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	redirect := filepath.Join(t.TempDir(), "never-created.log")

	builder := NewCommandBuilder(NewCommandLine(missing))
	builder.RedirectStdoutToFile(redirect)

	child, err := builder.Start()
	if err == nil {
		t.Fatalf("start succeeded for %s", missing)
	}
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("error type = %T, want *SpawnError", err)
	}
	if spawnErr.Kind != KindExecutableNotFound {
		t.Fatalf("kind = %v, want executable not found", spawnErr.Kind)
	}
	if child != nil {
		t.Fatalf("failed start returned a child")
	}
	if _, err := os.Stat(redirect); !os.IsNotExist(err) {
		t.Fatalf("redirect target was created before the executable check")
	}
}

func TestStartRedirectsStdoutToFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.log")
	builder := NewCommandBuilder(shellCommand(t, `printf 'hello\n'`))
	builder.RedirectStdoutToFile(outPath)

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read redirect target: %v", err)
	}
	if string(content) != "hello\n" {
		t.Fatalf("redirect content = %q, want %q", content, "hello\n")
	}
}

func TestStartRedirectTruncatesExistingFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.log")
	if err := os.WriteFile(outPath, []byte("stale contents that are longer"), 0o644); err != nil {
		t.Fatalf("seed redirect target: %v", err)
	}

	builder := NewCommandBuilder(shellCommand(t, `printf new`))
	builder.RedirectStdoutToFile(outPath)

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read redirect target: %v", err)
	}
	if string(content) != "new" {
		t.Fatalf("redirect content = %q, want %q", content, "new")
	}
}

func TestStartRedirectOpenFailureFailsSpawn(t *testing.T) {
	badPath := filepath.Join(t.TempDir(), "missing-dir", "out.log")
	builder := NewCommandBuilder(shellCommand(t, "true"))
	builder.RedirectStdoutToFile(badPath)

	_, err := builder.Start()
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("error = %v, want *SpawnError", err)
	}
	if spawnErr.Kind != KindRedirectFailed {
		t.Fatalf("kind = %v, want redirect failed", spawnErr.Kind)
	}
}

func TestStartWithExplicitEnvironment(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "env.log")
	env := NewEnvironment()
	env.Set("FOO", "bar")

	builder := NewCommandBuilder(shellCommand(t, `printf '%s' "$FOO"`))
	builder.SetEnvironment(env)
	builder.RedirectStdoutToFile(outPath)

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read redirect target: %v", err)
	}
	if string(content) != "bar" {
		t.Fatalf("child observed FOO=%q, want %q", content, "bar")
	}
}

func TestStartInheritsParentEnvironment(t *testing.T) {
	t.Setenv("SPAWNKIT_TEST_INHERIT", "inherited-value")

	outPath := filepath.Join(t.TempDir(), "env.log")
	builder := NewCommandBuilder(shellCommand(t, `printf '%s' "$SPAWNKIT_TEST_INHERIT"`))
	builder.RedirectStdoutToFile(outPath)

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read redirect target: %v", err)
	}
	if string(content) != "inherited-value" {
		t.Fatalf("child observed %q, want inherited parent value", content)
	}
}

func TestStartSetsWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "pwd.log")
	builder := NewCommandBuilder(shellCommand(t, "pwd"))
	builder.SetWorkingDirectory(resolved)
	builder.RedirectStdoutToFile(outPath)

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read redirect target: %v", err)
	}
	if string(content) != resolved+"\n" {
		t.Fatalf("child reported working directory %q, want %q", content, resolved)
	}
}

func TestExitCodeBeforeWait(t *testing.T) {
	builder := NewCommandBuilder(shellCommand(t, "true"))

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := child.ExitCode(); !errors.Is(err, ErrNotExited) {
		t.Fatalf("exit code before wait returned %v, want ErrNotExited", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestWaitOnUnstartedChild(t *testing.T) {
	var child Child

	if child.State() != Unstarted {
		t.Fatalf("zero child state = %v, want unstarted", child.State())
	}
	if err := child.Wait(); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("wait returned %v, want ErrNotStarted", err)
	}
	if _, err := child.ExitCode(); !errors.Is(err, ErrNotExited) {
		t.Fatalf("exit code returned %v, want ErrNotExited", err)
	}
}

func TestWaitIsIdempotentAfterExit(t *testing.T) {
	builder := NewCommandBuilder(shellCommand(t, "exit 3"))

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if code, _ := child.ExitCode(); code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
	if child.State() != Exited {
		t.Fatalf("state = %v, want exited", child.State())
	}
}

func TestBuilderCannotBeReused(t *testing.T) {
	builder := NewCommandBuilder(shellCommand(t, "true"))

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if _, err := builder.Start(); !errors.Is(err, ErrBuilderUsed) {
		t.Fatalf("second start returned %v, want ErrBuilderUsed", err)
	}
}

func TestNewBuilderParsesCommandLine(t *testing.T) {
	if stdruntime.GOOS == "windows" {
		t.Skip("spawn tests use /bin/sh and are skipped on windows")
	}

	builder := NewBuilder(`/bin/sh -c "exit 5"`)

	child, err := builder.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := child.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if code, _ := child.ExitCode(); code != 5 {
		t.Fatalf("exit code = %d, want 5", code)
	}
}

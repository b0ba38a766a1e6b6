// Copyright (c) 2025 BVK Chaitanya

// Package daemonize turns a program started from a shell into a background
// process.
package daemonize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bvk/coindash/ctxutil"
	"golang.org/x/sys/unix"
)

// CheckFunc verifies that the background process is initialized. It returns
// a nil error when the child is ready. When it returns a non-nil error, retry
// tells if the check should be attempted again.
type CheckFunc func(ctx context.Context, child *os.Process) (retry bool, err error)

// Daemonize respawns the current program in the background with the same
// command-line arguments. It must be called during the program startup,
// before opening databases or starting servers.
//
// The envKey environment variable tells apart the parent and the child
// processes and must not be used by anything else. Standard input and
// outputs of the child are redirected to /dev/null.
//
// Parent process waits for the check function to succeed and exits. It
// returns an error only when the child could not be initialized. Child process
// returns nil and continues with the program.
func Daemonize(ctx context.Context, envKey string, check CheckFunc) error {
	if v := os.Getenv(envKey); len(v) == 0 {
		if err := daemonizeParent(ctx, envKey, check); err != nil {
			return err
		}
		os.Exit(0)
	}
	if _, err := unix.Setsid(); err != nil {
		slog.ErrorContext(ctx, "could not set session id", "error", err)
		os.Exit(1)
	}
	return nil
}

func daemonizeParent(ctx context.Context, envKey string, check CheckFunc) error {
	binary, err := exec.LookPath(os.Args[0])
	if err != nil {
		return fmt.Errorf("failed to lookup binary: %w", err)
	}
	binaryPath, err := filepath.Abs(binary)
	if err != nil {
		return fmt.Errorf("could not determine absolute path for binary: %w", err)
	}

	file, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", os.DevNull, err)
	}
	defer file.Close()

	// Receive signal when child-process dies.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGCHLD, os.Interrupt)
	defer stop()

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not determine working directory: %w", err)
	}

	attr := &os.ProcAttr{
		Dir:   wd,
		Env:   append(os.Environ(), fmt.Sprintf("%s=%d", envKey, os.Getpid())),
		Files: []*os.File{file, file, file},
	}
	child, err := os.StartProcess(binaryPath, os.Args, attr)
	if err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}

	if check == nil {
		return nil
	}

	for {
		retry, err := check(ctx, child)
		if err == nil {
			return nil
		}
		if !retry {
			return fmt.Errorf("could not initialize the background process: %w", err)
		}
		slog.WarnContext(ctx, "daemon process not yet initialized", "pid", child.Pid, "error", err)
		if ctxutil.Sleep(ctx, time.Second) != nil {
			return fmt.Errorf("could not initialize the background process: %w", err)
		}
	}
}

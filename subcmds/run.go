// Copyright (c) 2025 BVK Chaitanya

package subcmds

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bvk/coindash/coingecko"
	"github.com/bvk/coindash/ctxutil"
	"github.com/bvk/coindash/daemonize"
	"github.com/bvk/coindash/httputil"
	"github.com/bvk/coindash/server"
	"github.com/bvk/coindash/subcmds/cmdutil"
	"github.com/bvkgo/kv/kvhttp"
	"github.com/nightlyone/lockfile"
	"github.com/visvasity/cli"
	"github.com/visvasity/sglog"
)

type Run struct {
	cmdutil.ServerFlags

	background bool

	restart         bool
	shutdownTimeout time.Duration

	noPprof   bool
	logStderr bool
	logDebug  bool

	perPage int

	corsOrigins string

	dataDir string
}

func (c *Run) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("run", flag.ContinueOnError)
	c.ServerFlags.SetFlags(fset)
	fset.BoolVar(&c.background, "background", false, "runs the daemon in background")
	fset.BoolVar(&c.restart, "restart", false, "when true, kills any old instance")
	fset.DurationVar(&c.shutdownTimeout, "shutdown-timeout", 30*time.Second, "max timeout for shutdown when restarting")
	fset.BoolVar(&c.noPprof, "no-pprof", false, "when true net/http/pprof handler is not registered")
	fset.BoolVar(&c.logStderr, "log-stderr", false, "when true, logs are written to stderr instead of log files")
	fset.BoolVar(&c.logDebug, "log-debug", false, "when true, debug messages are also logged")
	fset.IntVar(&c.perPage, "per-page", coingecko.DefaultPerPage, "number of coins on a dashboard page")
	fset.StringVar(&c.dataDir, "data-dir", "", "path to the data directory")
	fset.StringVar(&c.corsOrigins, "cors-origins", "", "comma separated list of origins allowed to use the json api")
	return "run", fset, cli.CmdFunc(c.run)
}

func (c *Run) Purpose() string {
	return "Runs the coindash dashboard server in foreground or background"
}

func (c *Run) Description() string {
	return `

Command "run" starts the coindash server. Dashboard views are served at the
listen address and the json api is served under the /api/ path. Watchlist and
preferences are saved in a database inside the data directory.

CONFIGURATION

Market data is fetched from the CoinGecko api. Following environment variables
are read from the process environment or from a .env file in the data
directory or the current directory:

    COINDASH_API_KEY       optional CoinGecko demo api key
    COINDASH_API_BASE_URL  alternate api endpoint (default CoinGecko v3)
    COINDASH_SERVER_PORT   default listen port for run and client commands

`
}

func (c *Run) run(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataDir, err := cmdutil.DataDir(c.dataDir)
	if err != nil {
		return err
	}
	if err := cmdutil.LoadEnv(dataDir, "."); err != nil {
		return err
	}

	ip := net.ParseIP(c.IP)
	if ip == nil {
		return fmt.Errorf("invalid ip address")
	}
	if c.Port() <= 0 {
		return fmt.Errorf("invalid port number")
	}
	addr := &net.TCPAddr{
		IP:   ip,
		Port: c.Port(),
	}

	if c.background {
		if err := daemonize.Daemonize(ctx, "COINDASH_DAEMONIZE", c.childCheck(addr)); err != nil {
			return err
		}
	}

	closeLogs, err := c.setupLogging(dataDir)
	if err != nil {
		return err
	}
	defer closeLogs()

	slog.InfoContext(ctx, "using data directory", "dir", dataDir)

	unlock, err := c.lockDataDir(ctx, dataDir)
	if err != nil {
		return err
	}
	defer unlock()

	// Start HTTP server.
	s, err := httputil.New(nil /* opts */)
	if err != nil {
		return err
	}
	defer s.Close()

	tcpServer, err := s.StartTCP(ctx, addr)
	if err != nil {
		return fmt.Errorf("could not start http server on %s: %w", addr, err)
	}
	defer s.Stop(tcpServer)

	if !c.noPprof {
		s.AddHandler("/debug/pprof/heap", pprof.Handler("heap"))
		s.AddHandler("/debug/pprof/goroutine", pprof.Handler("goroutine"))
		s.AddHandler("/debug/pprof/allocs", pprof.Handler("allocs"))
		s.AddHandler("/debug/pprof/block", pprof.Handler("block"))
		s.AddHandler("/debug/pprof/mutex", pprof.Handler("mutex"))
	}

	// Open the database.
	db, closeDB, err := cmdutil.OpenBadger(dataDir)
	if err != nil {
		return err
	}
	defer closeDB()

	s.AddHandler("/db/", http.StripPrefix("/db", kvhttp.Handler(db)))

	source, err := coingecko.New(cmdutil.SourceOptions())
	if err != nil {
		return fmt.Errorf("could not create market data client: %w", err)
	}

	opts := &server.Options{
		PerPage: c.perPage,
	}
	if len(c.corsOrigins) > 0 {
		opts.CORSOrigins = strings.Split(c.corsOrigins, ",")
	}
	dash, err := server.New(db, source, opts)
	if err != nil {
		return err
	}
	defer dash.Close()

	// Add dashboard handlers.
	handlers := dash.HandlerMap()
	for k, v := range handlers {
		s.AddHandler(k, v)
	}
	defer func() {
		for k := range handlers {
			s.RemoveHandler(k)
		}
	}()

	slog.InfoContext(ctx, "started coindash server", "addr", addr)
	s.AddHandler("/pid", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, fmt.Sprintf("%d", os.Getpid()))
	}))

	<-ctx.Done()
	slog.InfoContext(ctx, "coindash server is shutting down")
	return nil
}

// childCheck returns a readiness check for the background server. Server
// must report the child's pid so that an older instance on the same address
// is not mistaken for the child.
func (c *Run) childCheck(addr *net.TCPAddr) daemonize.CheckFunc {
	return func(ctx context.Context, child *os.Process) (bool, error) {
		client := http.Client{Timeout: time.Second}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/pid", addr), nil)
		if err != nil {
			return false, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return true, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return true, fmt.Errorf("pid request returned status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return true, err
		}
		if got := strings.TrimSpace(string(data)); got != strconv.Itoa(child.Pid) {
			return c.restart, fmt.Errorf("server at %s has pid %s instead of %d; is another instance running?", addr, got, child.Pid)
		}
		return false, nil
	}
}

// setupLogging installs the default slog handler. Logs go to rotating files
// under the data directory unless -log-stderr is set.
func (c *Run) setupLogging(dataDir string) (func(), error) {
	if c.logStderr {
		if c.logDebug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		return func() {}, nil
	}

	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return nil, fmt.Errorf("could not create log directory %q: %w", logDir, err)
	}
	backend := sglog.NewBackend(&sglog.Options{
		LogDirs:              []string{logDir},
		LogFileHeader:        true,
		LogFileReuseDuration: time.Hour,
	})
	if c.logDebug {
		backend.SetLevel(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(backend.Handler()))
	return func() { backend.Close() }, nil
}

// lockDataDir takes the data directory lock. With -restart, a previous
// owner is interrupted and given -shutdown-timeout to release the lock
// before it is killed.
func (c *Run) lockDataDir(ctx context.Context, dataDir string) (func(), error) {
	lockPath := filepath.Join(dataDir, "coindash.lock")
	flock, err := lockfile.New(lockPath)
	if err != nil {
		return nil, fmt.Errorf("could not create lock file %q: %w", lockPath, err)
	}
	unlock := func() { flock.Unlock() }

	err = flock.TryLock()
	if err == nil {
		return unlock, nil
	}
	if !c.restart {
		return nil, fmt.Errorf("could not lock %q; is another instance running?: %w", lockPath, err)
	}

	owner, err := flock.GetOwner()
	if err != nil {
		return nil, fmt.Errorf("could not find the lock owner: %w", err)
	}
	if err := owner.Signal(os.Interrupt); err == nil {
		slog.InfoContext(ctx, "waiting for the previous instance to exit", "pid", owner.Pid, "timeout", c.shutdownTimeout)
		if err := ctxutil.Poll(ctx, time.Second, c.shutdownTimeout, flock.TryLock); err == nil {
			return unlock, nil
		}
		slog.WarnContext(ctx, "killing the previous instance", "pid", owner.Pid)
		if err := owner.Signal(os.Kill); err != nil {
			return nil, fmt.Errorf("could not kill previous instance %d: %w", owner.Pid, err)
		}
		ctxutil.Sleep(ctx, 100*time.Millisecond)
	}
	if err := flock.TryLock(); err != nil {
		return nil, fmt.Errorf("could not lock %q after stopping the previous instance: %w", lockPath, err)
	}
	return unlock, nil
}

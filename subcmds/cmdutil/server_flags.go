// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"flag"
	"os"
	"strconv"
)

// DefaultPort is used when neither a flag nor COINDASH_SERVER_PORT sets the
// server port.
const DefaultPort = 10000

// ServerPortEnv names the environment variable with the server port.
const ServerPortEnv = "COINDASH_SERVER_PORT"

type ServerFlags struct {
	port int
	IP   string
}

func (sf *ServerFlags) SetFlags(fset *flag.FlagSet) {
	fset.IntVar(&sf.port, "listen-port", 0, "TCP port number for the dashboard (default=10000 or COINDASH_SERVER_PORT value)")
	fset.StringVar(&sf.IP, "listen-ip", "127.0.0.1", "TCP ip address for the dashboard")
}

func (sf *ServerFlags) Port() int {
	if sf.port != 0 {
		return sf.port
	}
	return envPort()
}

func envPort() int {
	if v := os.Getenv(ServerPortEnv); len(v) != 0 {
		if port, err := strconv.ParseInt(v, 10, 32); err == nil && port > 0 && port < 65536 {
			return int(port)
		}
	}
	return DefaultPort
}

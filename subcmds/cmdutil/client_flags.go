// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"time"
)

// ClientFlags locate the api endpoint of a running coindash server.
type ClientFlags struct {
	port int
	host string

	serverURL string

	timeout time.Duration
}

func (cf *ClientFlags) SetFlags(fset *flag.FlagSet) {
	fset.IntVar(&cf.port, "connect-port", 0, "TCP port number for the api endpoint (default=10000 or COINDASH_SERVER_PORT value)")
	fset.StringVar(&cf.host, "connect-host", "127.0.0.1", "Hostname or IP address for the api endpoint")
	fset.StringVar(&cf.serverURL, "server-url", "", "base url of the server; overrides -connect-host and -connect-port")
	fset.DurationVar(&cf.timeout, "http-timeout", 30*time.Second, "http client timeout")
}

func (cf *ClientFlags) Port() int {
	if cf.port != 0 {
		return cf.port
	}
	return envPort()
}

// AddressURL returns the base url for the server. Returned value is a new
// copy that callers can modify.
func (cf *ClientFlags) AddressURL() (*url.URL, error) {
	if len(cf.serverURL) == 0 {
		u := &url.URL{
			Scheme: "http",
			Host:   net.JoinHostPort(cf.host, strconv.Itoa(cf.Port())),
			Path:   "/",
		}
		return u, nil
	}
	u, err := url.Parse(cf.serverURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse server url %q: %w", cf.serverURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must use http or https scheme: %w", cf.serverURL, os.ErrInvalid)
	}
	return u, nil
}

func (cf *ClientFlags) HttpClient() *http.Client {
	return &http.Client{
		Timeout: cf.timeout,
	}
}

// Post sends the request as json to the api path and decodes the json
// response.
func Post[RESP, REQ any](ctx context.Context, cf *ClientFlags, subpath string, req *REQ) (*RESP, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	addrURL, err := cf.AddressURL()
	if err != nil {
		return nil, err
	}
	addrURL.Path = path.Join(addrURL.Path, subpath)
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, addrURL.String(), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	r.Header.Set("content-type", "application/json")

	client := cf.HttpClient()
	resp, err := client.Do(r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("http status code %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	response := new(RESP)
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return nil, err
	}
	return response, nil
}

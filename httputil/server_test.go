// Copyright (c) 2025 BVK Chaitanya

package httputil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestServer(t *testing.T) {
	ctx := context.Background()

	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	addr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}
	id, err := s.StartTCP(ctx, addr)
	if err != nil {
		t.Fatal(err)
	}
	if addr.Port == 0 {
		t.Fatalf("want a kernel assigned port, got zero")
	}

	s.AddHandler("/hello", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "hello")
	}))

	get := func(path string) (int, string) {
		resp, err := http.Get(fmt.Sprintf("http://%s%s", addr, path))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(data)
	}

	if code, body := get("/hello"); code != http.StatusOK || body != "hello" {
		t.Fatalf("want 200 hello, got %d %q", code, body)
	}

	if !s.RemoveHandler("/hello") {
		t.Fatalf("want handler removed")
	}
	if s.RemoveHandler("/hello") {
		t.Fatalf("want second remove to report missing handler")
	}
	if code, _ := get("/hello"); code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", code)
	}

	if err := s.Stop(id); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(id); err == nil {
		t.Fatalf("want error when stopping twice")
	}
}

func TestServerClose(t *testing.T) {
	if _, err := New(&Options{ShutdownTimeout: -time.Second}); err == nil {
		t.Fatalf("want error for negative shutdown timeout")
	}

	s, err := New(&Options{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	addrs := []*net.TCPAddr{
		{IP: net.IPv4(127, 0, 0, 1)},
		{IP: net.IPv4(127, 0, 0, 1)},
	}
	for _, addr := range addrs {
		if _, err := s.StartTCP(context.Background(), addr); err != nil {
			t.Fatal(err)
		}
	}
	if addrs[0].Port == addrs[1].Port {
		t.Fatalf("want different ports, got %d twice", addrs[0].Port)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	for _, addr := range addrs {
		if resp, err := http.Get(fmt.Sprintf("http://%s/", addr)); err == nil {
			resp.Body.Close()
			t.Fatalf("want connection failure after close on %s", addr)
		}
	}
}

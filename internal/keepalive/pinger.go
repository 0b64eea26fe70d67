// Package keepalive pings health endpoints on a timer so an idle host does not
// suspend the process. Each target runs in its own loop; a failed ping is
// logged and never affects later pings.
package keepalive

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Target is one periodically pinged URL.
type Target struct {
	Name     string
	URL      string
	Interval time.Duration
	Timeout  time.Duration
}

// Pinger owns the ping loops. Start launches them; Stop cancels and waits.
type Pinger struct {
	client     *http.Client
	targets    []Target
	startDelay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Pinger. Per-request timeouts come from each Target, so the
// client should not set its own. A nil client uses a fresh http.Client.
func New(client *http.Client, startDelay time.Duration, targets ...Target) *Pinger {
	if client == nil {
		client = &http.Client{}
	}
	return &Pinger{client: client, targets: targets, startDelay: startDelay}
}

// Start launches one loop per target. Calling Start on a running Pinger is a no-op.
func (p *Pinger) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)
	for _, t := range p.targets {
		p.wg.Add(1)
		go func(t Target) {
			defer p.wg.Done()
			p.loop(ctx, t)
		}(t)
	}
	slog.Info("keepalive started", "targets", len(p.targets), "start_delay", p.startDelay.String())
}

// Stop cancels every loop, aborting in-flight pings, and waits for them to exit.
func (p *Pinger) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	p.wg.Wait()
}

func (p *Pinger) loop(ctx context.Context, t Target) {
	if p.startDelay > 0 {
		timer := time.NewTimer(p.startDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}

	p.ping(ctx, t)

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.ping(ctx, t)
		case <-ctx.Done():
			return
		}
	}
}

// ping issues one GET and logs the outcome. It reports whether the target
// answered with a non-5xx status.
func (p *Pinger) ping(ctx context.Context, t Target) bool {
	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		slog.Warn("keepalive ping failed", "target", t.Name, "url", t.URL, "error", err)
		return false
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		slog.Warn("keepalive ping failed", "target", t.Name, "url", t.URL, "error", err)
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		slog.Warn("keepalive ping unhealthy", "target", t.Name, "url", t.URL, "status", resp.StatusCode)
		return false
	}
	slog.Info("keepalive ping ok",
		"target", t.Name,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return true
}

package rpc

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest  Algorithm = "fastest"
	AlgorithmFailover Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
	// Cache winner for this duration before re-benchmarking.
	cacheTTL = 5 * time.Minute
)

// Endpoint represents a single RPC endpoint with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Healthy     bool // meaningful only when Checked == true
	Checked     bool // true when the endpoint has been health-checked
}

// Picker selects an RPC endpoint according to the configured algorithm.
type Picker struct {
	algo        Algorithm
	mu          sync.Mutex
	cachedURL   string
	cacheExpiry time.Time
}

// NewPicker creates a new Picker with the given algorithm.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo}
}

// Select health-checks the given URLs and picks one. This is the one-call
// path used when (re)pointing the provider at a chain's RPC list.
func (p *Picker) Select(ctx context.Context, urls []string) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoHealthyRPC
	}
	if len(urls) == 1 {
		return urls[0], nil
	}

	p.mu.Lock()
	if p.cachedURL != "" && time.Now().Before(p.cacheExpiry) {
		for _, u := range urls {
			if u == p.cachedURL {
				p.mu.Unlock()
				return u, nil
			}
		}
	}
	p.mu.Unlock()

	ep, err := p.Pick(CheckAll(ctx, urls))
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.cachedURL = ep.URL
	p.cacheExpiry = time.Now().Add(cacheTTL)
	p.mu.Unlock()
	return ep.URL, nil
}

// Pick selects an endpoint from an already-measured list.
func (p *Picker) Pick(endpoints []Endpoint) (*Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoHealthyRPC
	}
	if p.algo == AlgorithmFailover {
		return pickFailover(endpoints)
	}
	return pickFastest(endpoints)
}

// pickFastest selects the healthy endpoint with the best score.
func pickFastest(endpoints []Endpoint) (*Endpoint, error) {
	// Find the best block number so stale nodes can be discarded.
	var bestBlock uint64
	for _, e := range endpoints {
		if e.BlockNumber > bestBlock {
			bestBlock = e.BlockNumber
		}
	}

	candidates := healthyEndpoints(endpoints)
	if len(candidates) == 0 {
		return nil, ErrNoHealthyRPC
	}

	var winner *Endpoint
	var bestScore float64

	for _, e := range candidates {
		if bestBlock > 0 && bestBlock-e.BlockNumber > staleBlockThreshold {
			continue
		}
		s := score(e, bestBlock)
		if winner == nil || s > bestScore {
			winner = e
			bestScore = s
		}
	}

	if winner == nil {
		return nil, ErrNoHealthyRPC
	}
	return winner, nil
}

// pickFailover tries endpoints in order, skipping explicitly unhealthy ones.
func pickFailover(endpoints []Endpoint) (*Endpoint, error) {
	for i := range endpoints {
		e := &endpoints[i]
		if e.Checked && !e.Healthy {
			continue
		}
		return e, nil
	}
	return nil, ErrNoHealthyRPC
}

// --- scoring ---

func score(e *Endpoint, bestBlock uint64) float64 {
	var s float64

	// Latency score: higher = faster.
	if e.Latency > 0 {
		s += 1000.0 / float64(e.Latency.Milliseconds())
	}

	// Block recency bonus: loses a point per block behind the best.
	if bestBlock > 0 {
		behind := bestBlock - e.BlockNumber
		s += float64(10 - behind)
	}

	return s
}

// healthyEndpoints returns endpoints eligible for selection.
// Unchecked endpoints are candidates regardless of their Healthy flag.
func healthyEndpoints(endpoints []Endpoint) []*Endpoint {
	anyChecked := false
	for _, e := range endpoints {
		if e.Checked {
			anyChecked = true
			break
		}
	}

	if !anyChecked {
		all := make([]*Endpoint, len(endpoints))
		for i := range endpoints {
			all[i] = &endpoints[i]
		}
		return all
	}

	var out []*Endpoint
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Checked || e.Healthy {
			out = append(out, e)
		}
	}
	return out
}

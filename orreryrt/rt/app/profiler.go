package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler accumulates CPU time per named scope over a reporting window.
// Scopes keep the order they were first seen in.
type Profiler struct {
	totals map[string]time.Duration
	calls  map[string]int
	starts map[string]time.Time
	counts map[string]int
	order  []string
	now    func() time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		totals: make(map[string]time.Duration),
		calls:  make(map[string]int),
		starts: make(map[string]time.Time),
		counts: make(map[string]int),
		now:    time.Now,
	}
}

func (p *Profiler) Begin(name string) {
	if _, seen := p.totals[name]; !seen {
		p.order = append(p.order, name)
		p.totals[name] = 0
	}
	p.starts[name] = p.now()
}

// End without a matching Begin is ignored.
func (p *Profiler) End(name string) {
	start, ok := p.starts[name]
	if !ok {
		return
	}
	delete(p.starts, name)
	p.totals[name] += p.now().Sub(start)
	p.calls[name]++
}

func (p *Profiler) SetCount(name string, n int) {
	p.counts[name] = n
}

// Mean is the average duration of one call to the scope in this window.
func (p *Profiler) Mean(name string) time.Duration {
	if p.calls[name] == 0 {
		return 0
	}
	return p.totals[name] / time.Duration(p.calls[name])
}

func (p *Profiler) Calls(name string) int {
	return p.calls[name]
}

// Reset starts a new window. Scope order is kept.
func (p *Profiler) Reset() {
	for _, name := range p.order {
		p.totals[name] = 0
		p.calls[name] = 0
	}
}

// Summary renders one log line: mean ms per scope, then counters by name.
func (p *Profiler) Summary() string {
	var sb strings.Builder
	for i, name := range p.order {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%.2fms/%d", name, float64(p.Mean(name).Microseconds())/1000, p.calls[name])
	}

	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%d", k, p.counts[k])
	}
	return sb.String()
}

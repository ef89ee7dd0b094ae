package poller

import (
	"context"
	"sync"
	"time"

	"github.com/SstealzZ/LinkStart/internal/domain"
	"github.com/SstealzZ/LinkStart/internal/logger"
	"github.com/SstealzZ/LinkStart/internal/services"
	"github.com/SstealzZ/LinkStart/internal/utils"
)

// Pinger is the slice of the session manager the poller depends on.
// PingIP never fails; unreachable and transport failure look the same.
type Pinger interface {
	PingIP(ctx context.Context, ip string) domain.PingResult
}

// Poller runs one reachability probe per service identity per fetch
// generation. The first Status call for a service kicks off the probe
// and reports checking; once the probe settles, the status sticks to
// active or inactive until the collection is fetched again.
//
// A generation bump (new fetch, or Clear on logout) is the stale-result
// guard: probes started under an older generation are discarded when
// they resolve, delivering neither a status nor a counter signal.
type Poller struct {
	pinger  Pinger
	counter *services.OnlineCounter
	logger  logger.Logger
	timeout time.Duration

	mu     sync.Mutex
	gen    uint64
	probes map[string]*probe // service id -> probe, current generation only
}

type probe struct {
	status domain.ReachabilityStatus
	done   chan struct{} // closed when the probe resolves (settled or discarded)
}

func New(pinger Pinger, counter *services.OnlineCounter, log logger.Logger, timeout time.Duration) *Poller {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Poller{
		pinger:  pinger,
		counter: counter,
		logger:  log,
		timeout: timeout,
		probes:  make(map[string]*probe),
	}
}

// Status returns the probe state for svc under the given fetch
// generation, starting the probe on first sight. gen must come from the
// collection manager's Generation(); a newer generation drops every
// probe of the previous one. Generations only move forward: a caller
// still holding an older generation (its render raced a background
// fetch) gets a status back but cannot mutate poller state or start a
// probe under the dead generation.
func (p *Poller) Status(gen uint64, svc domain.Service) domain.ReachabilityStatus {
	p.mu.Lock()

	if gen < p.gen {
		status := domain.StatusChecking
		if pr, ok := p.probes[svc.ID]; ok {
			status = pr.status
		}
		p.mu.Unlock()
		return status
	}
	if gen > p.gen {
		p.gen = gen
		p.probes = make(map[string]*probe)
	}

	if pr, ok := p.probes[svc.ID]; ok {
		status := pr.status
		p.mu.Unlock()
		return status
	}

	pr := &probe{status: domain.StatusChecking, done: make(chan struct{})}
	p.probes[svc.ID] = pr
	p.mu.Unlock()

	go p.run(gen, svc, pr)
	return domain.StatusChecking
}

// run executes one probe and applies its result, unless the generation
// moved on while the probe was in flight.
func (p *Poller) run(gen uint64, svc domain.Service, pr *probe) {
	defer close(pr.done)

	host := utils.ExtractHost(svc.PrivateIP)

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	result := p.pinger.PingIP(ctx, host)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != gen {
		// Stale result: the collection was re-fetched (or cleared)
		// while this probe was in flight.
		p.logger.Debug("discarding stale probe result",
			logger.String("service", svc.ID),
			logger.String("host", host))
		return
	}
	if current, ok := p.probes[svc.ID]; !ok || current != pr {
		return
	}

	if result.Reachable {
		pr.status = domain.StatusActive
		p.counter.Increment()
	} else {
		pr.status = domain.StatusInactive
		p.counter.DisableIncrement()
	}

	p.logger.Debug("probe settled",
		logger.String("service", svc.ID),
		logger.String("host", host),
		logger.Bool("reachable", result.Reachable))
}

// Wait blocks until the in-flight probe for the service resolves, or
// returns immediately when no probe is running. Meant for tests and for
// draining on shutdown.
func (p *Poller) Wait(id string) {
	p.mu.Lock()
	pr, ok := p.probes[id]
	p.mu.Unlock()
	if !ok {
		return
	}
	<-pr.done
}

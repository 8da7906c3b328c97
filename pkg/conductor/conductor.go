package conductor

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
)

/* Conductor starts a set of Services in registration order and shuts
 * them down in reverse order when it receives an OS signal (or Stop is
 * called). A Service's Run must not block: it launches its own
 * goroutine, reports readiness on 'started', and exits its loop when a
 * context arrives on 'stop', confirming on 'stopped'.
 */

type Service interface {
	Run(started, stopped chan bool, stop chan context.Context) error
}

type service struct {
	name    string
	svc     Service
	stopped chan bool
	stop    chan context.Context
}

type Conductor struct {
	services []*service
	noisy    bool
	signals  bool
	done     chan bool
	shutdown chan struct{}
	once     sync.Once
}

type ConductorOption func(*Conductor)

// Noisy logs service lifecycle transitions.
func Noisy() ConductorOption {
	return func(c *Conductor) { c.noisy = true }
}

// HookSignals triggers shutdown on SIGINT/SIGTERM.
func HookSignals() ConductorOption {
	return func(c *Conductor) { c.signals = true }
}

func NewConductor(opts ...ConductorOption) *Conductor {
	c := &Conductor{
		done:     make(chan bool),
		shutdown: make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Conductor) Service(name string, s Service) {
	c.services = append(c.services, &service{
		name:    name,
		svc:     s,
		stopped: make(chan bool),
		stop:    make(chan context.Context),
	})
}

// Start launches all registered services and returns a channel that
// closes once every service has shut down.
func (c *Conductor) Start() chan bool {
	for _, s := range c.services {
		started := make(chan bool)
		if err := s.svc.Run(started, s.stopped, s.stop); err != nil {
			logrus.WithError(err).Fatalf("service %s failed to start", s.name)
		}
		<-started
		if c.noisy {
			logrus.Infof("service started: %s", s.name)
		}
	}
	go c.wait()
	return c.done
}

// Stop triggers shutdown without a signal.
func (c *Conductor) Stop() {
	c.once.Do(func() { close(c.shutdown) })
}

func (c *Conductor) wait() {
	if c.signals {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sig:
			if c.noisy {
				logrus.Infof("received signal: %s", s)
			}
		case <-c.shutdown:
		}
	} else {
		<-c.shutdown
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := len(c.services) - 1; i >= 0; i-- {
		s := c.services[i]
		s.stop <- ctx
		close(s.stop)
		<-s.stopped
		if c.noisy {
			logrus.Infof("service stopped: %s", s.name)
		}
	}
	close(c.done)
}

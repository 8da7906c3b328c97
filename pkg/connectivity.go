package netwatchd

import (
	"net"
	"time"
)

// Prober reduces reachability of several well-known, high-availability
// DNS endpoints to a binary online/offline status.
type Prober struct {
	Endpoints []string
	Timeout   time.Duration
}

func NewProber() *Prober {
	return &Prober{
		Endpoints: []string{
			"1.1.1.1:53", // Cloudflare
			"8.8.8.8:53", // Google
			"9.9.9.9:53", // Quad9
		},
		Timeout: time.Second,
	}
}

// Check is Online as soon as any endpoint accepts a TCP connection
// within the timeout, Offline only when every attempt fails. Individual
// failures are expected and not reported; the next cycle is the retry.
func (p *Prober) Check() ConnectivityStatus {
	for _, target := range p.Endpoints {
		conn, err := net.DialTimeout("tcp", target, p.Timeout)
		if err != nil {
			continue
		}
		conn.Close()
		return StatusOnline
	}
	return StatusOffline
}

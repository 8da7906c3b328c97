package netwatchd

import (
	"fmt"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/sirupsen/logrus"

	"github.com/netwatch/netwatchd/pkg/conductor"
	"github.com/netwatch/netwatchd/pkg/config"
	"github.com/netwatch/netwatchd/pkg/system/wifi"
)

type server struct {
	config ServerConfig
}

func Server(config ServerConfig) server {
	return server{config}
}

func (t server) Start() {
	if t.config.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(t.config.ConfigPath)
	if err != nil {
		logrus.WithError(err).Warn("config unreadable, falling back to defaults")
	}

	hostname := Hostname()
	client := NewAWClient(t.config.Host, t.config.Port, ConnectivityBucketPrefix, hostname)

	if info, err := client.ServerInfo(); err != nil {
		logrus.WithError(err).Warn("could not query event server info")
	} else {
		WarnIfOldServer(info.Version)
	}

	/* ----------------------------------------------------------------------- */
	// Buckets first: an unreachable event server at startup is fatal,
	// everything after this degrades per cycle.

	connectivityBucket := fmt.Sprintf("%s_%s", ConnectivityBucketPrefix, hostname)
	if err := client.CreateBucket(connectivityBucket, ConnectivityEventType); err != nil {
		logrus.WithError(err).Fatalf("cannot reach event server at %s:%d", t.config.Host, t.config.Port)
	}

	/* ----------------------------------------------------------------------- */
	// Create a conductor to manage the watcher services' startup/shutdown

	var c *conductor.Conductor
	if t.config.Verbose {
		c = conductor.NewConductor(
			conductor.HookSignals(),
			conductor.Noisy(),
		)
	} else {
		c = conductor.NewConductor(
			conductor.HookSignals(),
		)
	}

	c.Service("Connectivity Watcher", NewConnectivityWatcher(client, connectivityBucket, cfg.PollingInterval))

	adapter, err := wifi.NewAdapter()
	if err != nil {
		logrus.WithError(err).Warn("wifi watching disabled on this platform")
	} else {
		wifiBucket := fmt.Sprintf("%s_%s", WifiBucketPrefix, hostname)
		if err := client.CreateBucket(wifiBucket, WifiEventType); err != nil {
			logrus.WithError(err).Fatalf("cannot reach event server at %s:%d", t.config.Host, t.config.Port)
		}
		c.Service("Wifi Watcher", NewWifiWatcher(client, adapter, wifiBucket, cfg.WifiScanInterval))
	}

	done := c.Start()
	daemon.SdNotify(false, daemon.SdNotifyReady)
	logrus.WithFields(logrus.Fields{
		"polling_interval":   cfg.PollingInterval,
		"wifi_scan_interval": cfg.WifiScanInterval,
	}).Info("netwatchd started")
	<-done
}

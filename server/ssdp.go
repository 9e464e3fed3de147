package server

import (
	"fmt"
	"time"

	"melisma/config"
	"melisma/logger"

	"github.com/google/uuid"
	"github.com/koron/go-ssdp"
)

const (
	mediaServerType = "urn:schemas-upnp-org:device:MediaServer:1"
	ssdpMaxAge      = 1800
)

// Advertiser announces the media server on the local network over SSDP so
// DLNA control points can discover the browse surface.
type Advertiser struct {
	ad   *ssdp.Advertiser
	stop chan struct{}
	done chan struct{}
}

// StartAdvertiser begins SSDP advertisement and keeps it alive until Stop.
func StartAdvertiser(cfg *config.Config) (*Advertiser, error) {
	usn := fmt.Sprintf("uuid:%s::%s", uuid.New(), mediaServerType)
	location := fmt.Sprintf("http://0.0.0.0:%s/dlna/object/0", cfg.ServerPort)

	ad, err := ssdp.Advertise(mediaServerType, usn, location, cfg.FriendlyName, ssdpMaxAge)
	if err != nil {
		return nil, fmt.Errorf("failed to start SSDP advertisement: %w", err)
	}

	a := &Advertiser{
		ad:   ad,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go a.loop()

	logger.Info("SSDP advertisement started", logger.String("usn", usn))
	return a, nil
}

func (a *Advertiser) loop() {
	defer close(a.done)
	ticker := time.NewTicker(ssdpMaxAge / 2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			if err := a.ad.Alive(); err != nil {
				logger.Warn("SSDP alive failed", logger.ErrorField(err))
			}
		}
	}
}

// Stop sends a byebye and closes the advertiser.
func (a *Advertiser) Stop() {
	close(a.stop)
	<-a.done
	if err := a.ad.Bye(); err != nil {
		logger.Warn("SSDP bye failed", logger.ErrorField(err))
	}
	a.ad.Close()
}

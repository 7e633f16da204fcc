package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-cellbook/pkg/app"
	"github.com/mattsolo1/grove-cellbook/pkg/storage"
)

// persister writes state snapshots in the background. Only the latest
// pending snapshot is kept; failures are logged and dropped.
type persister struct {
	store   storage.Store
	log     logrus.FieldLogger
	pending chan app.State
	done    chan struct{}
	closed  bool
}

func newPersister(store storage.Store, log logrus.FieldLogger) *persister {
	p := &persister{
		store:   store,
		log:     log,
		pending: make(chan app.State, 1),
		done:    make(chan struct{}),
	}
	go p.loop()
	return p
}

// schedule must be called with the service lock held
func (p *persister) schedule(st app.State) {
	if p.closed {
		return
	}
	for {
		select {
		case p.pending <- st:
			return
		default:
		}
		// Drop the stale snapshot
		select {
		case <-p.pending:
		default:
		}
	}
}

func (p *persister) loop() {
	defer close(p.done)
	for st := range p.pending {
		if err := storage.Save(context.Background(), p.store, st); err != nil {
			p.log.WithError(err).Warn("Failed to persist state")
		}
	}
}

// close drains the pending snapshot and stops the worker
func (p *persister) close() {
	if p.closed {
		return
	}
	p.closed = true
	close(p.pending)
	<-p.done
}

package realtime

import (
	"sync"
	"time"

	pq "github.com/lib/pq"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/logger"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
)

// pqSource adapts a pq.Listener into a Source. Reconnect events surface as
// nil payloads so the reconciler resyncs anything it may have missed.
type pqSource struct {
	listener  *pq.Listener
	events    chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// Listen opens a LISTEN connection on the vigor change channel. It shares
// credentials with the remote store but holds its own connection, as NOTIFY
// delivery requires a dedicated session.
func Listen(connStr string) (Source, error) {
	reconnected := make(chan struct{}, 1)

	listener := pq.NewListener(connStr, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			switch ev {
			case pq.ListenerEventConnectionAttemptFailed:
				logger.Warn("Change listener connection attempt failed", "error", err)
			case pq.ListenerEventReconnected:
				select {
				case reconnected <- struct{}{}:
				default:
				}
			}
		})

	if err := listener.Listen(constants.ChangeChannel); err != nil {
		_ = listener.Close()
		return nil, err
	}

	s := &pqSource{
		listener: listener,
		events:   make(chan []byte),
		done:     make(chan struct{}),
	}
	go s.pump(listener.Notify, reconnected)
	return s, nil
}

func (s *pqSource) pump(notify <-chan *pq.Notification, reconnected chan struct{}) {
	defer close(s.events)

	for {
		select {
		case n, ok := <-notify:
			if !ok {
				return
			}
			if n == nil {
				// pq delivers nil after a dropped connection is restored
				if !s.send(nil) {
					return
				}
				continue
			}
			if !s.send([]byte(n.Extra)) {
				return
			}
		case <-reconnected:
			if !s.send(nil) {
				return
			}
		case <-s.done:
			return
		}
	}
}

// send delivers a payload unless Close has been called. The consumer may
// stop reading before the listener shuts down, so a bare channel send here
// could strand the pump goroutine.
func (s *pqSource) send(payload []byte) bool {
	select {
	case s.events <- payload:
		return true
	case <-s.done:
		return false
	}
}

func (s *pqSource) Events() <-chan []byte {
	return s.events
}

func (s *pqSource) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return s.listener.Close()
}

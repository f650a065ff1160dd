package channel

import (
	"time"

	"github.com/inkwell-app/inkwell-go/pkg/connection"
	"github.com/inkwell-app/inkwell-go/pkg/log"
	"github.com/inkwell-app/inkwell-go/pkg/transport"
)

// logStateChange is the tracker's transition observer.
func (c *Channel) logStateChange(oldState, newState connection.State, reason string) {
	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: oldState.String(),
			NewState: newState.String(),
			Reason:   reason,
		},
	})
}

func (c *Channel) logControl(conn transport.Connection, msgType string) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: conn.ID(),
		RemoteAddr:   conn.RemoteAddr(),
		Direction:    log.DirectionOut,
		Category:     log.CategoryControl,
		Control:      &log.ControlEvent{Type: msgType},
	})
}

func (c *Channel) logTraffic(conn transport.Connection, dir log.Direction, msgType string, size int) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: conn.ID(),
		RemoteAddr:   conn.RemoteAddr(),
		Direction:    dir,
		Category:     log.CategoryMessage,
		Message:      &log.MessageEvent{Type: msgType, Size: size},
	})
}

func (c *Channel) logError(conn transport.Connection, err error, context string) {
	event := log.Event{
		Timestamp: time.Now(),
		Category:  log.CategoryError,
		Error:     &log.ErrorEvent{Message: err.Error(), Context: context},
	}
	if conn != nil {
		event.ConnectionID = conn.ID()
		event.RemoteAddr = conn.RemoteAddr()
	}
	c.logger.Log(event)
}

package backend

import (
	"github.com/atomicstack/tui-mixer/internal/event"
	"github.com/atomicstack/tui-mixer/internal/logging"
	"github.com/atomicstack/tui-mixer/internal/logging/events"
	"github.com/atomicstack/tui-mixer/internal/pulse"
)

// Attach executes the driver requests arriving on letters until the channel
// closes or the driver stops. Other letters are ignored.
func (d *Driver) Attach(letters <-chan event.Letter) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-d.ctx.Done():
				return
			case l, ok := <-letters:
				if !ok {
					return
				}
				_ = d.Execute(l)
			}
		}
	}()
}

// Execute sends the server command for a driver request. Failures are
// logged, published as non-fatal ServerError letters and returned; the server
// echo of a successful command updates the view.
func (d *Driver) Execute(l event.Letter) error {
	cmd, ok, err := commandFor(l)
	if err != nil {
		events.Driver.CommandError(nil, err)
		logging.Error(err)
		return err
	}
	if !ok {
		return nil
	}
	events.Driver.Command(cmd.Words)
	if err := d.server.Exec(d.ctx, cmd); err != nil {
		events.Driver.CommandError(cmd.Words, err)
		logging.Error(err)
		if d.ctx.Err() == nil {
			d.bus.Publish(event.ServerError{Err: err})
		}
		return err
	}
	return nil
}

// commandFor maps a driver request to its server command. Letters that are
// not driver requests report false.
func commandFor(l event.Letter) (pulse.Command, bool, error) {
	var (
		cmd pulse.Command
		err error
	)
	switch msg := l.(type) {
	case event.MoveEntryToParent:
		cmd, err = pulse.Move(msg.Ident, msg.Parent.Index)
	case event.RequestVolume:
		cmd, err = pulse.SetVolume(msg.Ident, msg.Volume)
	case event.RequestMute:
		cmd, err = pulse.SetMute(msg.Ident, msg.Mute)
	case event.RequestDefault:
		cmd, err = pulse.SetDefault(msg.Ident, msg.Name)
	case event.RequestKill:
		cmd, err = pulse.Kill(msg.Ident)
	case event.RequestSuspend:
		cmd, err = pulse.Suspend(msg.Ident, msg.Suspend)
	case event.RequestCardProfile:
		cmd, err = pulse.SetProfile(msg.Ident, msg.Profile)
	default:
		return pulse.Command{}, false, nil
	}
	return cmd, err == nil, err
}

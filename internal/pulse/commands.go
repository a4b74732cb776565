package pulse

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/jfreymuth/pulse/proto"
)

// ErrUnsupported means the operation does not apply to the entry type.
var ErrUnsupported = errors.New("operation not supported")

// Command is one control request. Words describes it the way pactl would
// spell it, for logs and notices.
type Command struct {
	Words   []string
	Request proto.RequestArgs
}

func (c Command) String() string {
	return strings.Join(c.Words, " ")
}

func index(i uint32) string {
	return strconv.FormatUint(uint64(i), 10)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func unsupported(op string, id entry.Identifier) error {
	return fmt.Errorf("%s %s: %w", op, id, ErrUnsupported)
}

// Exec sends cmd and waits for the server to acknowledge it.
func (c *Client) Exec(ctx context.Context, cmd Command) error {
	if err := c.request(ctx, cmd.Request, nil); err != nil {
		if errors.Is(err, proto.ErrNoSuchEntity) {
			return fmt.Errorf("%s: %w", cmd, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}

// Move moves a stream to the device with index parent.
func Move(id entry.Identifier, parent uint32) (Command, error) {
	switch id.Type {
	case entry.SinkInput:
		return Command{
			Words:   []string{"move-sink-input", index(id.Index), index(parent)},
			Request: &proto.MoveSinkInput{SinkInputIndex: id.Index, DeviceIndex: parent},
		}, nil
	case entry.SourceOutput:
		return Command{
			Words:   []string{"move-source-output", index(id.Index), index(parent)},
			Request: &proto.MoveSourceOutput{SourceOutputIndex: id.Index, DeviceIndex: parent},
		}, nil
	}
	return Command{}, unsupported("move", id)
}

// SetVolume sets raw per-channel volumes.
func SetVolume(id entry.Identifier, vol entry.Volume) (Command, error) {
	if len(vol) == 0 {
		return Command{}, unsupported("set volume", id)
	}
	cv := append(proto.ChannelVolumes(nil), vol...)
	var req proto.RequestArgs
	switch id.Type {
	case entry.Sink:
		req = &proto.SetSinkVolume{SinkIndex: id.Index, ChannelVolumes: cv}
	case entry.Source:
		req = &proto.SetSourceVolume{SourceIndex: id.Index, ChannelVolumes: cv}
	case entry.SinkInput:
		req = &proto.SetSinkInputVolume{SinkInputIndex: id.Index, ChannelVolumes: cv}
	case entry.SourceOutput:
		req = &proto.SetSourceOutputVolume{SourceOutputIndex: id.Index, ChannelVolumes: cv}
	default:
		return Command{}, unsupported("set volume", id)
	}
	words := []string{"set-" + id.Type.String() + "-volume", index(id.Index)}
	for _, v := range vol {
		words = append(words, index(v))
	}
	return Command{Words: words, Request: req}, nil
}

// SetMute sets the mute flag.
func SetMute(id entry.Identifier, mute bool) (Command, error) {
	var req proto.RequestArgs
	switch id.Type {
	case entry.Sink:
		req = &proto.SetSinkMute{SinkIndex: id.Index, Mute: mute}
	case entry.Source:
		req = &proto.SetSourceMute{SourceIndex: id.Index, Mute: mute}
	case entry.SinkInput:
		req = &proto.SetSinkInputMute{SinkInputIndex: id.Index, Mute: mute}
	case entry.SourceOutput:
		req = &proto.SetSourceOutputMute{SourceOutputIndex: id.Index, Mute: mute}
	default:
		return Command{}, unsupported("set mute", id)
	}
	return Command{
		Words:   []string{"set-" + id.Type.String() + "-mute", index(id.Index), flag(mute)},
		Request: req,
	}, nil
}

// SetDefault makes the named device the server default. The server also
// resolves a bare index, which stands in for an empty name.
func SetDefault(id entry.Identifier, name string) (Command, error) {
	if name == "" {
		name = index(id.Index)
	}
	switch id.Type {
	case entry.Sink:
		return Command{
			Words:   []string{"set-default-sink", name},
			Request: &proto.SetDefaultSink{SinkName: name},
		}, nil
	case entry.Source:
		return Command{
			Words:   []string{"set-default-source", name},
			Request: &proto.SetDefaultSource{SourceName: name},
		}, nil
	}
	return Command{}, unsupported("set default", id)
}

// Kill disconnects a stream.
func Kill(id entry.Identifier) (Command, error) {
	switch id.Type {
	case entry.SinkInput:
		return Command{
			Words:   []string{"kill-sink-input", index(id.Index)},
			Request: &proto.KillSinkInput{SinkInputIndex: id.Index},
		}, nil
	case entry.SourceOutput:
		return Command{
			Words:   []string{"kill-source-output", index(id.Index)},
			Request: &proto.KillSourceOutput{SourceOutputIndex: id.Index},
		}, nil
	}
	return Command{}, unsupported("kill", id)
}

// Suspend suspends or resumes a device.
func Suspend(id entry.Identifier, suspend bool) (Command, error) {
	var req proto.RequestArgs
	switch id.Type {
	case entry.Sink:
		req = &proto.SuspendSink{SinkIndex: id.Index, Suspend: suspend}
	case entry.Source:
		req = &proto.SuspendSource{SourceIndex: id.Index, Suspend: suspend}
	default:
		return Command{}, unsupported("suspend", id)
	}
	return Command{
		Words:   []string{"suspend-" + id.Type.String(), index(id.Index), flag(suspend)},
		Request: req,
	}, nil
}

// SetProfile switches a card profile.
func SetProfile(id entry.Identifier, profile string) (Command, error) {
	if id.Type != entry.Card || profile == "" {
		return Command{}, unsupported("set profile", id)
	}
	return Command{
		Words:   []string{"set-card-profile", index(id.Index), profile},
		Request: &proto.SetCardProfile{CardIndex: id.Index, ProfileName: profile},
	}, nil
}

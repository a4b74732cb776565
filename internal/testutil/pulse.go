package testutil

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/pulse"
	"github.com/jfreymuth/pulse/proto"
)

// FakeClientIndex is the client index the fake server hands out.
const FakeClientIndex = 77

// ErrHungUp is returned by requests after Hangup.
var ErrHungUp = errors.New("fake server: connection closed")

// FakeServer answers native protocol requests from in-memory objects and
// records every request it sees. Dial plugs it into pulse.NewClient.
type FakeServer struct {
	mu        sync.Mutex
	sinks     []*proto.GetSinkInfoReply
	sources   []*proto.GetSourceInfoReply
	inputs    []*proto.GetSinkInputInfoReply
	outputs   []*proto.GetSourceOutputInfoReply
	cards     []*proto.GetCardInfoReply
	defSink   string
	defSource string

	dialErr   error
	errs      map[string]error
	requests  []proto.RequestArgs
	requested chan proto.RequestArgs
	onMessage func(interface{})
	hungUp    bool
	dials     int
	stream    uint32
}

// NewFakeServer returns a server without objects.
func NewFakeServer() *FakeServer {
	return &FakeServer{
		errs:      make(map[string]error),
		requested: make(chan proto.RequestArgs, 256),
		stream:    100,
	}
}

// SetSinks replaces the sink list. The same goes for the other setters.
func (f *FakeServer) SetSinks(sinks ...*proto.GetSinkInfoReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = sinks
}

func (f *FakeServer) SetSources(sources ...*proto.GetSourceInfoReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = sources
}

func (f *FakeServer) SetSinkInputs(inputs ...*proto.GetSinkInputInfoReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = inputs
}

func (f *FakeServer) SetSourceOutputs(outputs ...*proto.GetSourceOutputInfoReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs = outputs
}

func (f *FakeServer) SetCards(cards ...*proto.GetCardInfoReply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards = cards
}

// SetDefaults names the default sink and source.
func (f *FakeServer) SetDefaults(sink, source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defSink, f.defSource = sink, source
}

// SetDialError makes every dial fail with err.
func (f *FakeServer) SetDialError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dialErr = err
}

// SetError makes requests of the given type fail with err. typ is the
// request's Go type as printed by %T, e.g. "*proto.KillSinkInput".
func (f *FakeServer) SetError(typ string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[typ] = err
}

// Requests returns every request seen so far, in order.
func (f *FakeServer) Requests() []proto.RequestArgs {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]proto.RequestArgs(nil), f.requests...)
}

// Requested delivers every request as it is seen.
func (f *FakeServer) Requested() <-chan proto.RequestArgs {
	return f.requested
}

// Dials reports how many connections were opened.
func (f *FakeServer) Dials() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

// Dial satisfies pulse.Dialer.
func (f *FakeServer) Dial(_ string, onMessage func(interface{})) (pulse.Conn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dialErr != nil {
		return nil, fmt.Errorf("%w: %w", pulse.ErrServerUnavailable, f.dialErr)
	}
	f.dials++
	f.hungUp = false
	f.onMessage = onMessage
	return fakeConn{f}, nil
}

// Event sends a subscription event.
func (f *FakeServer) Event(facility, kind proto.SubscriptionEventType, index uint32) {
	f.send(&proto.SubscribeEvent{Event: facility | kind, Index: index})
}

// Data sends a record stream data packet.
func (f *FakeServer) Data(stream uint32, p []byte) {
	f.send(&proto.DataPacket{StreamIndex: stream, Data: p})
}

// Kill reports a record stream as killed.
func (f *FakeServer) Kill(stream uint32) {
	f.send(&proto.RecordStreamKilled{StreamIndex: stream})
}

// Hangup closes the connection from the server side.
func (f *FakeServer) Hangup() {
	f.mu.Lock()
	f.hungUp = true
	f.mu.Unlock()
	f.send(&proto.ConnectionClosed{})
}

func (f *FakeServer) send(msg interface{}) {
	f.mu.Lock()
	fn := f.onMessage
	f.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

type fakeConn struct {
	f *FakeServer
}

func (c fakeConn) Close() error {
	return nil
}

func (c fakeConn) Request(req proto.RequestArgs, rpl proto.Reply) error {
	f := c.f
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hungUp {
		return ErrHungUp
	}
	f.requests = append(f.requests, req)
	select {
	case f.requested <- req:
	default:
	}
	if err, ok := f.errs[fmt.Sprintf("%T", req)]; ok {
		return err
	}
	return f.answer(req, rpl)
}

// answer runs with f.mu held.
func (f *FakeServer) answer(req proto.RequestArgs, rpl proto.Reply) error {
	switch r := req.(type) {
	case *proto.SetClientName:
		rpl.(*proto.SetClientNameReply).ClientIndex = FakeClientIndex
	case *proto.GetServerInfo:
		out := rpl.(*proto.GetServerInfoReply)
		out.DefaultSinkName, out.DefaultSourceName = f.defSink, f.defSource
	case *proto.GetSinkInfoList:
		*rpl.(*proto.GetSinkInfoListReply) = append(proto.GetSinkInfoListReply(nil), f.sinks...)
	case *proto.GetSourceInfoList:
		*rpl.(*proto.GetSourceInfoListReply) = append(proto.GetSourceInfoListReply(nil), f.sources...)
	case *proto.GetSinkInputInfoList:
		*rpl.(*proto.GetSinkInputInfoListReply) = append(proto.GetSinkInputInfoListReply(nil), f.inputs...)
	case *proto.GetSourceOutputInfoList:
		*rpl.(*proto.GetSourceOutputInfoListReply) = append(proto.GetSourceOutputInfoListReply(nil), f.outputs...)
	case *proto.GetCardInfoList:
		*rpl.(*proto.GetCardInfoListReply) = append(proto.GetCardInfoListReply(nil), f.cards...)
	case *proto.GetSinkInfo:
		for _, s := range f.sinks {
			if s.SinkIndex == r.SinkIndex {
				*rpl.(*proto.GetSinkInfoReply) = *s
				return nil
			}
		}
		return proto.ErrNoSuchEntity
	case *proto.GetSourceInfo:
		for _, s := range f.sources {
			if s.SourceIndex == r.SourceIndex {
				*rpl.(*proto.GetSourceInfoReply) = *s
				return nil
			}
		}
		return proto.ErrNoSuchEntity
	case *proto.GetSinkInputInfo:
		for _, s := range f.inputs {
			if s.SinkInputIndex == r.SinkInputIndex {
				*rpl.(*proto.GetSinkInputInfoReply) = *s
				return nil
			}
		}
		return proto.ErrNoSuchEntity
	case *proto.GetSourceOutputInfo:
		for _, s := range f.outputs {
			if s.SourceOutpuIndex == r.SourceOutpuIndex {
				*rpl.(*proto.GetSourceOutputInfoReply) = *s
				return nil
			}
		}
		return proto.ErrNoSuchEntity
	case *proto.GetCardInfo:
		for _, card := range f.cards {
			if card.CardIndex == r.CardIndex {
				*rpl.(*proto.GetCardInfoReply) = *card
				return nil
			}
		}
		return proto.ErrNoSuchEntity
	case *proto.CreateRecordStream:
		f.stream++
		out := rpl.(*proto.CreateRecordStreamReply)
		out.StreamIndex = f.stream
		out.SourceOutputIndex = 1000 + f.stream
	}
	// control requests are acknowledged without a reply body
	return nil
}

// Sink builds a sink with one channel at 100% and a monitor source named
// after it.
func Sink(index uint32, name, description string) *proto.GetSinkInfoReply {
	return &proto.GetSinkInfoReply{
		SinkIndex:         index,
		SinkName:          name,
		ChannelMap:        proto.ChannelMap{proto.ChannelMono},
		ChannelVolumes:    proto.ChannelVolumes{entry.NormVolume},
		MonitorSourceName: name + ".monitor",
		Properties:        props("device.description", description),
	}
}

// Source builds a source with one channel at 100%.
func Source(index uint32, name, description string) *proto.GetSourceInfoReply {
	return &proto.GetSourceInfoReply{
		SourceIndex:        index,
		SourceName:         name,
		ChannelMap:         proto.ChannelMap{proto.ChannelMono},
		ChannelVolumes:     proto.ChannelVolumes{entry.NormVolume},
		MonitorSourceIndex: proto.Undefined,
		Properties:         props("device.description", description),
	}
}

// SinkInput builds a playback stream attached to sink.
func SinkInput(index, sink uint32, app, media string) *proto.GetSinkInputInfoReply {
	return &proto.GetSinkInputInfoReply{
		SinkInputIndex: index,
		MediaName:      media,
		ClientIndex:    1,
		SinkIndex:      sink,
		ChannelMap:     proto.ChannelMap{proto.ChannelMono},
		ChannelVolumes: proto.ChannelVolumes{entry.NormVolume},
		Properties:     props("application.name", app, "media.name", media),
	}
}

// SourceOutput builds a recording stream attached to source.
func SourceOutput(index, source uint32, app, media string) *proto.GetSourceOutputInfoReply {
	return &proto.GetSourceOutputInfoReply{
		SourceOutpuIndex: index,
		MediaName:        media,
		ClientIndex:      1,
		SourceIndex:      source,
		ChannelMap:       proto.ChannelMap{proto.ChannelMono},
		ChannelVolumes:   proto.ChannelVolumes{entry.NormVolume},
		Properties:       props("application.name", app, "media.name", media),
	}
}

type cardProfile = struct {
	Name        string
	Description string
	NumSinks    uint32
	NumSources  uint32
	Priority    uint32
	Available   uint32 "29"
}

// Card builds a card with the given profiles.
func Card(index uint32, name, description, active string, profiles ...entry.Profile) *proto.GetCardInfoReply {
	card := &proto.GetCardInfoReply{
		CardIndex:         index,
		CardName:          name,
		ActiveProfileName: active,
		Properties:        props("device.description", description),
	}
	for _, p := range profiles {
		var available uint32
		if p.Available {
			available = 1
		}
		card.Profiles = append(card.Profiles, cardProfile{
			Name:        p.Name,
			Description: p.Description,
			Priority:    uint32(p.Priority),
			Available:   available,
		})
	}
	return card
}

func props(kv ...string) proto.PropList {
	out := proto.PropList{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			out[kv[i]] = proto.PropListString(kv[i+1])
		}
	}
	return out
}

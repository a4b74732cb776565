package pulse

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/jfreymuth/pulse/proto"
)

// MeterUpdatesPerSecond is how often a meter reports a peak. The server
// runs peak detection and sends one float32 sample per update.
const MeterUpdatesPerSecond = 15

// ErrStreamKilled means the server ended a record stream.
var ErrStreamKilled = errors.New("record stream killed")

// MeterSource says what a peak meter records from.
type MeterSource struct {
	// Device is the source name or index to record from. Sinks are
	// metered through their monitor source.
	Device string
	// Stream restricts recording to one sink input, or InvalidIndex.
	Stream uint32
}

// MeterSourceFor derives the recording source of en. parent is the device
// a stream is attached to and may be nil for devices.
func MeterSourceFor(en, parent *entry.Entry) (MeterSource, bool) {
	if en == nil || en.Play == nil || en.Hidden == entry.Hidden {
		return MeterSource{}, false
	}
	switch en.Ident.Type {
	case entry.Sink:
		if en.Play.MonitorSource == "" {
			return MeterSource{}, false
		}
		return MeterSource{Device: en.Play.MonitorSource, Stream: entry.InvalidIndex}, true
	case entry.Source:
		return MeterSource{Device: deviceName(en), Stream: entry.InvalidIndex}, true
	case entry.SinkInput:
		if parent == nil || parent.Play == nil || parent.Play.MonitorSource == "" {
			return MeterSource{}, false
		}
		return MeterSource{Device: parent.Play.MonitorSource, Stream: en.Ident.Index}, true
	case entry.SourceOutput:
		if parent == nil || parent.Play == nil {
			return MeterSource{}, false
		}
		return MeterSource{Device: deviceName(parent), Stream: entry.InvalidIndex}, true
	}
	return MeterSource{}, false
}

func deviceName(en *entry.Entry) string {
	if en.Play.ServerName != "" {
		return en.Play.ServerName
	}
	return strconv.FormatUint(uint64(en.Ident.Index), 10)
}

// MeterRequest builds the record stream request for src: a mono float32
// stream with server-side peak detection, one sample per fragment.
func MeterRequest(src MeterSource) *proto.CreateRecordStream {
	return &proto.CreateRecordStream{
		SampleSpec:             proto.SampleSpec{Format: proto.FormatFloat32LE, Channels: 1, Rate: MeterUpdatesPerSecond},
		ChannelMap:             proto.ChannelMap{proto.ChannelMono},
		SourceIndex:            proto.Undefined,
		SourceName:             src.Device,
		BufferMaxLength:        proto.Undefined,
		BufferFragSize:         4,
		PeakDetect:             true,
		AdjustLatency:          true,
		DontInhibitAutoSuspend: true,
		DirectOnInputIndex:     src.Stream,
		ChannelVolumes:         proto.ChannelVolumes{uint32(proto.VolumeNorm)},
		Properties: proto.PropList{
			"media.name":       proto.PropListString(MeterClientName),
			"application.name": proto.PropListString(ClientName),
		},
	}
}

type recording struct {
	fn   func(float32)
	once sync.Once
	done chan struct{}
	err  error
}

func (r *recording) data(p []byte) {
	if peak, ok := Peak(p); ok {
		r.fn(peak)
	}
}

func (r *recording) end(err error) {
	r.once.Do(func() {
		r.err = err
		close(r.done)
	})
}

// Meter records src and calls fn with the peak of every data packet until
// ctx ends or the server drops the stream. fn runs on the connection's read
// goroutine and must not block.
func (c *Client) Meter(ctx context.Context, src MeterSource, fn func(float32)) error {
	rec := &recording{fn: fn, done: make(chan struct{})}
	var reply proto.CreateRecordStreamReply
	if err := c.request(ctx, MeterRequest(src), &reply); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("record %s: %w", src.Device, err)
	}
	c.mu.Lock()
	c.records[reply.StreamIndex] = rec
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.records, reply.StreamIndex)
		c.mu.Unlock()
	}()

	select {
	case <-ctx.Done():
		_ = c.request(context.Background(), &proto.DeleteRecordStream{StreamIndex: reply.StreamIndex}, nil)
		return nil
	case <-rec.done:
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("record %s: %w", src.Device, rec.err)
	}
}

// Peak returns the largest absolute float32le sample in p, clamped to
// [0, 1]. A trailing partial sample is ignored; p without a whole sample
// reports false.
func Peak(p []byte) (float32, bool) {
	if len(p) < 4 {
		return 0, false
	}
	var peak float32
	for i := 0; i+4 <= len(p); i += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(p[i:]))
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak > 1 {
		peak = 1
	}
	return peak, true
}

package pulse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/jfreymuth/pulse/proto"
)

const (
	// ClientName is the application name the mixer registers with.
	ClientName = "tui-mixer"
	// MeterClientName is the media name of our own peak meter streams.
	// Streams carrying it are hidden from the pages.
	MeterClientName = "tui-mixer-meter"
)

// stateSuspended is the device state of a suspended sink or source.
const stateSuspended = 2

// ErrNotFound means the server has no object with the requested index.
var ErrNotFound = errors.New("no such object")

// Client talks to the audio server over one lazily opened connection.
type Client struct {
	server string
	dial   Dialer

	dialMu sync.Mutex

	mu      sync.Mutex
	conn    Conn
	self    uint32
	lost    bool
	notes   *noteQueue
	records map[uint32]*recording
}

// NewClient builds a client for server. A nil dial uses Dial.
func NewClient(server string, dial Dialer) *Client {
	if dial == nil {
		dial = Dial
	}
	return &Client{
		server:  strings.TrimSpace(server),
		dial:    dial,
		self:    entry.InvalidIndex,
		records: make(map[uint32]*recording),
	}
}

// Connect opens the connection if it is not open yet.
func (c *Client) Connect() error {
	_, err := c.connection()
	return err
}

// Close drops the connection. Running subscriptions and meters end.
func (c *Client) Close() error {
	c.dialMu.Lock()
	defer c.dialMu.Unlock()
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	c.connectionLost()
	return conn.Close()
}

func (c *Client) connection() (Conn, error) {
	c.dialMu.Lock()
	defer c.dialMu.Unlock()

	c.mu.Lock()
	conn, lost := c.conn, c.lost
	c.mu.Unlock()
	if conn != nil {
		return conn, nil
	}
	if lost {
		return nil, fmt.Errorf("%w: connection closed", ErrServerUnavailable)
	}

	conn, err := c.dial(c.server, c.onMessage)
	if err != nil {
		return nil, err
	}
	var reply proto.SetClientNameReply
	err = conn.Request(&proto.SetClientName{Props: proto.PropList{
		"application.name":       proto.PropListString(ClientName),
		"application.process.id": proto.PropListString(strconv.Itoa(os.Getpid())),
	}}, &reply)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.self = reply.ClientIndex
	c.mu.Unlock()
	return conn, nil
}

func (c *Client) request(ctx context.Context, req proto.RequestArgs, rpl proto.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conn, err := c.connection()
	if err != nil {
		return err
	}
	return conn.Request(req, rpl)
}

// onMessage runs on the read goroutine of the connection.
func (c *Client) onMessage(msg interface{}) {
	switch m := msg.(type) {
	case *proto.SubscribeEvent:
		c.mu.Lock()
		q := c.notes
		c.mu.Unlock()
		if q != nil {
			q.push(notificationOf(m))
		}
	case *proto.DataPacket:
		c.mu.Lock()
		rec := c.records[m.StreamIndex]
		c.mu.Unlock()
		if rec != nil {
			rec.data(m.Data)
		}
	case *proto.RecordStreamKilled:
		c.mu.Lock()
		rec := c.records[m.StreamIndex]
		c.mu.Unlock()
		if rec != nil {
			rec.end(ErrStreamKilled)
		}
	case *proto.ConnectionClosed:
		c.mu.Lock()
		conn := c.conn
		c.conn = nil
		c.lost = true
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		c.connectionLost()
	}
}

// connectionLost ends the subscription and every recording.
func (c *Client) connectionLost() {
	c.mu.Lock()
	q := c.notes
	c.notes = nil
	recs := make([]*recording, 0, len(c.records))
	for _, rec := range c.records {
		recs = append(recs, rec)
	}
	c.mu.Unlock()
	if q != nil {
		q.close()
	}
	for _, rec := range recs {
		rec.end(ErrServerUnavailable)
	}
}

func notFound(ident entry.Identifier, err error) error {
	if errors.Is(err, proto.ErrNoSuchEntity) {
		return fmt.Errorf("%s: %w", ident, ErrNotFound)
	}
	return fmt.Errorf("query %s: %w", ident, err)
}

// List fetches every object of type t.
func (c *Client) List(ctx context.Context, t entry.Type) ([]*entry.Entry, error) {
	var out []*entry.Entry
	switch t {
	case entry.Sink:
		var reply proto.GetSinkInfoListReply
		if err := c.request(ctx, &proto.GetSinkInfoList{}, &reply); err != nil {
			return nil, fmt.Errorf("list sinks: %w", err)
		}
		for _, s := range reply {
			out = append(out, sinkEntry(s))
		}
	case entry.Source:
		var reply proto.GetSourceInfoListReply
		if err := c.request(ctx, &proto.GetSourceInfoList{}, &reply); err != nil {
			return nil, fmt.Errorf("list sources: %w", err)
		}
		for _, s := range reply {
			out = append(out, sourceEntry(s))
		}
	case entry.SinkInput:
		var reply proto.GetSinkInputInfoListReply
		if err := c.request(ctx, &proto.GetSinkInputInfoList{}, &reply); err != nil {
			return nil, fmt.Errorf("list sink inputs: %w", err)
		}
		for _, s := range reply {
			out = append(out, c.sinkInputEntry(s))
		}
	case entry.SourceOutput:
		var reply proto.GetSourceOutputInfoListReply
		if err := c.request(ctx, &proto.GetSourceOutputInfoList{}, &reply); err != nil {
			return nil, fmt.Errorf("list source outputs: %w", err)
		}
		for _, s := range reply {
			out = append(out, c.sourceOutputEntry(s))
		}
	case entry.Card:
		var reply proto.GetCardInfoListReply
		if err := c.request(ctx, &proto.GetCardInfoList{}, &reply); err != nil {
			return nil, fmt.Errorf("list cards: %w", err)
		}
		for _, card := range reply {
			out = append(out, cardEntry(card))
		}
	default:
		return nil, fmt.Errorf("list %s: unsupported type", t)
	}
	if t == entry.Sink || t == entry.Source {
		c.markDefault(ctx, t, out)
	}
	return out, nil
}

// Get fetches a single object.
func (c *Client) Get(ctx context.Context, ident entry.Identifier) (*entry.Entry, error) {
	var en *entry.Entry
	switch ident.Type {
	case entry.Sink:
		var reply proto.GetSinkInfoReply
		if err := c.request(ctx, &proto.GetSinkInfo{SinkIndex: ident.Index}, &reply); err != nil {
			return nil, notFound(ident, err)
		}
		en = sinkEntry(&reply)
	case entry.Source:
		var reply proto.GetSourceInfoReply
		if err := c.request(ctx, &proto.GetSourceInfo{SourceIndex: ident.Index}, &reply); err != nil {
			return nil, notFound(ident, err)
		}
		en = sourceEntry(&reply)
	case entry.SinkInput:
		var reply proto.GetSinkInputInfoReply
		if err := c.request(ctx, &proto.GetSinkInputInfo{SinkInputIndex: ident.Index}, &reply); err != nil {
			return nil, notFound(ident, err)
		}
		return c.sinkInputEntry(&reply), nil
	case entry.SourceOutput:
		var reply proto.GetSourceOutputInfoReply
		if err := c.request(ctx, &proto.GetSourceOutputInfo{SourceOutpuIndex: ident.Index}, &reply); err != nil {
			return nil, notFound(ident, err)
		}
		return c.sourceOutputEntry(&reply), nil
	case entry.Card:
		var reply proto.GetCardInfoReply
		if err := c.request(ctx, &proto.GetCardInfo{CardIndex: ident.Index}, &reply); err != nil {
			return nil, notFound(ident, err)
		}
		return cardEntry(&reply), nil
	default:
		return nil, fmt.Errorf("get %s: unsupported type", ident)
	}
	c.markDefault(ctx, ident.Type, []*entry.Entry{en})
	return en, nil
}

// markDefault flags the server's default device. A failed server query
// leaves every device unflagged.
func (c *Client) markDefault(ctx context.Context, t entry.Type, entries []*entry.Entry) {
	var info proto.GetServerInfoReply
	if err := c.request(ctx, &proto.GetServerInfo{}, &info); err != nil {
		return
	}
	name := info.DefaultSinkName
	if t == entry.Source {
		name = info.DefaultSourceName
	}
	for _, en := range entries {
		en.Play.Default = name != "" && en.Play.ServerName == name
	}
}

// prop reads a string property. The wire form carries a trailing NUL.
func prop(props proto.PropList, key string) string {
	v, ok := props[key]
	if !ok {
		return ""
	}
	return strings.TrimRight(string(v), "\x00")
}

func volume(cv proto.ChannelVolumes) entry.Volume {
	if len(cv) == 0 {
		return nil
	}
	return append(entry.Volume(nil), cv...)
}

func deviceEntry(t entry.Type, index uint32, name, description string) *entry.Entry {
	if description == "" {
		description = name
	}
	en := entry.NewPlayEntry(entry.ID(t, index), description)
	en.Play.ServerName = name
	return en
}

func sinkEntry(s *proto.GetSinkInfoReply) *entry.Entry {
	en := deviceEntry(entry.Sink, s.SinkIndex, s.SinkName, prop(s.Properties, "device.description"))
	en.Mute = s.Mute
	en.Volume = volume(s.ChannelVolumes)
	en.Play.MonitorSource = s.MonitorSourceName
	en.Play.Suspended = s.State == stateSuspended
	return en
}

func sourceEntry(s *proto.GetSourceInfoReply) *entry.Entry {
	en := deviceEntry(entry.Source, s.SourceIndex, s.SourceName, prop(s.Properties, "device.description"))
	en.Mute = s.Mute
	en.Volume = volume(s.ChannelVolumes)
	en.Play.Suspended = s.State == stateSuspended
	return en
}

// streamEntry names a stream after its media, falling back to the
// application. Our own meter streams are hidden.
func (c *Client) streamEntry(t entry.Type, index, client uint32, media string, props proto.PropList) *entry.Entry {
	app := prop(props, "application.name")
	if m := prop(props, "media.name"); m != "" {
		media = m
	}
	name := media
	if name == "" {
		name = app
	}
	en := entry.NewPlayEntry(entry.ID(t, index), name)
	en.Play.Application = app
	c.mu.Lock()
	self := c.self
	c.mu.Unlock()
	if media == MeterClientName || (self != entry.InvalidIndex && client == self) {
		en.Hidden = entry.Hidden
	}
	return en
}

func (c *Client) sinkInputEntry(s *proto.GetSinkInputInfoReply) *entry.Entry {
	en := c.streamEntry(entry.SinkInput, s.SinkInputIndex, s.ClientIndex, s.MediaName, s.Properties)
	en.Mute = s.Muted
	en.Volume = volume(s.ChannelVolumes)
	en.Parent = s.SinkIndex
	return en
}

func (c *Client) sourceOutputEntry(s *proto.GetSourceOutputInfoReply) *entry.Entry {
	en := c.streamEntry(entry.SourceOutput, s.SourceOutpuIndex, s.ClientIndex, s.MediaName, s.Properties)
	en.Mute = s.Muted
	en.Volume = volume(s.ChannelVolumes)
	en.Parent = s.SourceIndex
	return en
}

// cardEntry lists profiles by priority, highest first. Servers older than
// protocol 29 report no availability, so every profile counts as available.
func cardEntry(card *proto.GetCardInfoReply) *entry.Entry {
	name := prop(card.Properties, "device.description")
	if name == "" {
		name = card.CardName
	}
	anyAvailable := false
	for _, p := range card.Profiles {
		if p.Available != 0 {
			anyAvailable = true
			break
		}
	}
	profiles := make([]entry.Profile, 0, len(card.Profiles))
	for _, p := range card.Profiles {
		profiles = append(profiles, entry.Profile{
			Name:        p.Name,
			Description: p.Description,
			Available:   p.Available != 0 || !anyAvailable,
			Priority:    int(p.Priority),
		})
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].Priority != profiles[j].Priority {
			return profiles[i].Priority > profiles[j].Priority
		}
		return profiles[i].Name < profiles[j].Name
	})
	return entry.NewCardEntry(card.CardIndex, name, profiles, card.ActiveProfileName)
}

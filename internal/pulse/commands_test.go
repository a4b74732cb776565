package pulse_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/atomicstack/tui-mixer/internal/entry"
	"github.com/atomicstack/tui-mixer/internal/pulse"
	"github.com/jfreymuth/pulse/proto"
)

func TestCommands(t *testing.T) {
	sink := entry.ID(entry.Sink, 1)
	source := entry.ID(entry.Source, 2)
	input := entry.ID(entry.SinkInput, 12)
	output := entry.ID(entry.SourceOutput, 8)
	card := entry.ID(entry.Card, 0)

	tests := []struct {
		name  string
		build func() (pulse.Command, error)
		words string
		req   proto.RequestArgs
	}{
		{"move sink input", func() (pulse.Command, error) { return pulse.Move(input, 1) },
			"move-sink-input 12 1", &proto.MoveSinkInput{SinkInputIndex: 12, DeviceIndex: 1}},
		{"move source output", func() (pulse.Command, error) { return pulse.Move(output, 2) },
			"move-source-output 8 2", &proto.MoveSourceOutput{SourceOutputIndex: 8, DeviceIndex: 2}},
		{"volume", func() (pulse.Command, error) { return pulse.SetVolume(sink, entry.Volume{100, 200}) },
			"set-sink-volume 1 100 200", &proto.SetSinkVolume{SinkIndex: 1, ChannelVolumes: proto.ChannelVolumes{100, 200}}},
		{"stream volume", func() (pulse.Command, error) { return pulse.SetVolume(input, entry.Volume{5}) },
			"set-sink-input-volume 12 5", &proto.SetSinkInputVolume{SinkInputIndex: 12, ChannelVolumes: proto.ChannelVolumes{5}}},
		{"mute", func() (pulse.Command, error) { return pulse.SetMute(source, true) },
			"set-source-mute 2 1", &proto.SetSourceMute{SourceIndex: 2, Mute: true}},
		{"unmute", func() (pulse.Command, error) { return pulse.SetMute(output, false) },
			"set-source-output-mute 8 0", &proto.SetSourceOutputMute{SourceOutputIndex: 8}},
		{"default", func() (pulse.Command, error) { return pulse.SetDefault(sink, "alsa_output.x") },
			"set-default-sink alsa_output.x", &proto.SetDefaultSink{SinkName: "alsa_output.x"}},
		{"default by index", func() (pulse.Command, error) { return pulse.SetDefault(source, "") },
			"set-default-source 2", &proto.SetDefaultSource{SourceName: "2"}},
		{"kill", func() (pulse.Command, error) { return pulse.Kill(input) },
			"kill-sink-input 12", &proto.KillSinkInput{SinkInputIndex: 12}},
		{"suspend", func() (pulse.Command, error) { return pulse.Suspend(sink, true) },
			"suspend-sink 1 1", &proto.SuspendSink{SinkIndex: 1, Suspend: true}},
		{"profile", func() (pulse.Command, error) { return pulse.SetProfile(card, "off") },
			"set-card-profile 0 off", &proto.SetCardProfile{CardIndex: 0, ProfileName: "off"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := tt.build()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := cmd.String(); got != tt.words {
				t.Fatalf("got %q, want %q", got, tt.words)
			}
			if !reflect.DeepEqual(cmd.Request, tt.req) {
				t.Fatalf("got request %#v, want %#v", cmd.Request, tt.req)
			}
		})
	}
}

func TestCommandsRejectWrongTypes(t *testing.T) {
	card := entry.ID(entry.Card, 0)
	sink := entry.ID(entry.Sink, 1)
	checks := []func() (pulse.Command, error){
		func() (pulse.Command, error) { return pulse.Move(sink, 2) },
		func() (pulse.Command, error) { return pulse.SetVolume(card, entry.Volume{1}) },
		func() (pulse.Command, error) { return pulse.SetVolume(sink, nil) },
		func() (pulse.Command, error) { return pulse.SetMute(card, true) },
		func() (pulse.Command, error) { return pulse.SetDefault(card, "x") },
		func() (pulse.Command, error) { return pulse.Kill(sink) },
		func() (pulse.Command, error) { return pulse.Suspend(card, true) },
		func() (pulse.Command, error) { return pulse.SetProfile(sink, "off") },
		func() (pulse.Command, error) { return pulse.SetProfile(card, "") },
	}
	for i, check := range checks {
		if _, err := check(); !errors.Is(err, pulse.ErrUnsupported) {
			t.Fatalf("check %d: expected ErrUnsupported, got %v", i, err)
		}
	}
}

func TestVolumeCommandCopiesChannels(t *testing.T) {
	vol := entry.Volume{1, 2}
	cmd, err := pulse.SetVolume(entry.ID(entry.Source, 0), vol)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	vol[0] = 99
	if got := cmd.Request.(*proto.SetSourceVolume).ChannelVolumes[0]; got != 1 {
		t.Fatalf("request should not alias the caller's volume, got %d", got)
	}
}

func TestExecSendsRequest(t *testing.T) {
	srv, client := newServer()
	cmd, _ := pulse.Kill(entry.ID(entry.SinkInput, 42))
	if err := client.Exec(context.Background(), cmd); err != nil {
		t.Fatalf("exec: %v", err)
	}
	reqs := srv.Requests()
	if last := reqs[len(reqs)-1]; !reflect.DeepEqual(last, cmd.Request) {
		t.Fatalf("unexpected request %#v", last)
	}

	srv.SetError("*proto.KillSinkInput", proto.ErrNoSuchEntity)
	err := client.Exec(context.Background(), cmd)
	if !errors.Is(err, pulse.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.Exec(ctx, cmd); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

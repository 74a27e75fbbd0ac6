package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

// PulseOptions configures a PulseRecorder.
type PulseOptions struct {
	SampleRate int     // default 44100
	Source     string  // PulseAudio source name; empty selects the default
	Gain       float64 // pre-filter gain, 0 disables it
}

// PulseRecorder records mono samples from a PulseAudio source.
type PulseRecorder struct {
	client *pulse.Client
	opts   PulseOptions
}

var _ Recorder = (*PulseRecorder)(nil)

// NewPulseRecorder connects to the PulseAudio server.
func NewPulseRecorder(opts PulseOptions) (*PulseRecorder, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = 44100
	}
	c, err := pulse.NewClient(pulse.ClientApplicationName("chorus"))
	if err != nil {
		return nil, fmt.Errorf("unable to open a client to Pulse: %w", err)
	}
	return &PulseRecorder{client: c, opts: opts}, nil
}

// Record captures d of audio and returns it WAV encoded.
func (r *PulseRecorder) Record(ctx context.Context, d time.Duration) (Sample, error) {
	var (
		mu      sync.Mutex
		samples = make([]float32, 0, int(d.Seconds()+1)*r.opts.SampleRate)
	)
	writer := pulse.Float32Writer(func(p []float32) (int, error) {
		mu.Lock()
		samples = append(samples, p...)
		mu.Unlock()
		return len(p), nil
	})

	recordOpts := []pulse.RecordOption{
		pulse.RecordSampleRate(r.opts.SampleRate),
		pulse.RecordChannels(proto.ChannelMap{proto.ChannelMono}),
		pulse.RecordMediaName("chorus sample"),
	}
	if r.opts.Source != "" {
		src, err := r.client.SourceByID(r.opts.Source)
		if err != nil {
			return Sample{}, fmt.Errorf("find source %q: %w", r.opts.Source, err)
		}
		recordOpts = append(recordOpts, pulse.RecordSource(src))
	}

	stream, err := r.client.NewRecord(writer, recordOpts...)
	if err != nil {
		return Sample{}, fmt.Errorf("unable to initialize a recording: %w", err)
	}
	defer stream.Close()

	logger.Debugf(ctx, "recording %v from pulse", d)
	stream.Start()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		stream.Stop()
		return Sample{}, ctx.Err()
	case <-timer.C:
	}
	stream.Stop()

	if err := stream.Error(); err != nil {
		return Sample{}, fmt.Errorf("an error occurred during recording: %w", err)
	}

	mu.Lock()
	captured := samples
	mu.Unlock()

	data, err := EncodeWAV(captured, r.opts.SampleRate, r.opts.Gain)
	if err != nil {
		return Sample{}, err
	}
	return Sample{Data: data, MIMEType: "audio/wav", Duration: d}, nil
}

// Close releases the PulseAudio connection.
func (r *PulseRecorder) Close() error {
	r.client.Close()
	return nil
}

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"papercast/internal/logging"
	"papercast/internal/script"
	"papercast/internal/services"
)

// wordsPerMinute is the assumed speaking rate used for per-line progress
// estimates. Final duration is measured from the stitched samples.
const wordsPerMinute = 150

// Synthesizer produces encoded audio for one line of dialogue.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error)
}

// Progress reports stitching advancement after each completed line.
// LineIndex is 1-based.
type Progress struct {
	LineIndex        int     `json:"lineIndex"`
	TotalLines       int     `json:"totalLines"`
	Percent          float64 `json:"percent"`
	EstimatedSeconds float64 `json:"estimatedSeconds"`
}

// Options controls a stitching run.
type Options struct {
	Speed                float64
	PauseBetweenSpeakers float64
	OnProgress           func(Progress)
}

// Result is the stitched asset.
type Result struct {
	Audio         []byte  `json:"-"`
	SampleRate    int     `json:"sampleRate"`
	Channels      int     `json:"channels"`
	TotalDuration float64 `json:"totalDuration"`
}

// Stitcher drives line-by-line synthesis and concatenation.
type Stitcher struct {
	synth  Synthesizer
	logger *slog.Logger
}

// NewStitcher builds a stitcher over the given synthesizer.
func NewStitcher(synth Synthesizer, logger *slog.Logger) *Stitcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Stitcher{synth: synth, logger: logging.NewComponentLogger(logger, "stitcher")}
}

// Stitch synthesizes every dialogue line in order and splices the decoded
// segments with silence gaps between consecutive segments. Any per-line
// failure aborts the whole run.
func (s *Stitcher) Stitch(ctx context.Context, scr script.PodcastScript, opts Options) (*Result, error) {
	if len(scr.Lines) == 0 {
		return nil, services.Wrap(services.ErrValidation, "stitcher", "stitch", "script has no dialogue lines", nil)
	}
	speed := opts.Speed
	if speed <= 0 {
		speed = 1
	}

	total := len(scr.Lines)
	segments := make([]*PCM, 0, total)
	var estimated float64

	for i, line := range scr.Lines {
		if err := ctx.Err(); err != nil {
			return nil, services.Wrap(services.ErrSynthesis, "stitcher", "stitch", "", err)
		}

		voice := voiceFor(scr, line.Speaker)
		raw, err := s.synth.Synthesize(ctx, line.Text, voice, speed)
		if err != nil {
			return nil, services.Wrap(services.ErrSynthesis, "stitcher", "synthesize line",
				fmt.Sprintf("line %d (%s)", i+1, line.Speaker), err)
		}
		segment, err := DecodeWAV(raw)
		if err != nil {
			return nil, services.Wrap(services.ErrSynthesis, "stitcher", "decode line",
				fmt.Sprintf("line %d (%s)", i+1, line.Speaker), err)
		}
		if len(segments) > 0 {
			first := segments[0]
			if segment.SampleRate != first.SampleRate || segment.Channels != first.Channels {
				return nil, services.Wrap(services.ErrSynthesis, "stitcher", "decode line",
					fmt.Sprintf("line %d format %dHz/%dch does not match first segment %dHz/%dch",
						i+1, segment.SampleRate, segment.Channels, first.SampleRate, first.Channels), nil)
			}
		}
		segments = append(segments, segment)

		words := len(strings.Fields(line.Text))
		estimated += float64(words) / wordsPerMinute * 60 / speed
		estimated += opts.PauseBetweenSpeakers
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				LineIndex:        i + 1,
				TotalLines:       total,
				Percent:          float64(i+1) / float64(total) * 100,
				EstimatedSeconds: estimated,
			})
		}
		s.logger.Debug("line synthesized",
			logging.Int("line", i+1),
			logging.Int("total", total),
			logging.String("voice", voice))
	}

	first := segments[0]
	gap := Silence(opts.PauseBetweenSpeakers, first.SampleRate, first.Channels)
	var samples []int16
	for i, segment := range segments {
		if i > 0 {
			samples = append(samples, gap...)
		}
		samples = append(samples, segment.Samples...)
	}

	stitched := &PCM{SampleRate: first.SampleRate, Channels: first.Channels, Samples: samples}
	result := &Result{
		Audio:         EncodeWAV(stitched),
		SampleRate:    first.SampleRate,
		Channels:      first.Channels,
		TotalDuration: stitched.DurationSeconds(),
	}
	s.logger.Info("stitching complete",
		logging.Int("lines", total),
		logging.Float64("duration_seconds", result.TotalDuration))
	return result, nil
}

func voiceFor(scr script.PodcastScript, speakerID string) string {
	if speaker, ok := scr.SpeakerByID(speakerID); ok && speaker.Voice != "" {
		return speaker.Voice
	}
	return script.DefaultVoices[0]
}

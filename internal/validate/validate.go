// Package validate checks probed streams against the decoder's codec policy
// and builds the per-stream report lines shown before playback.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/backmassage/brownieplayer/internal/config"
	"github.com/backmassage/brownieplayer/internal/probe"
)

// ErrMissingField is matched by every *FieldError.
var ErrMissingField = errors.New("missing stream field")

// FieldError reports a stream record without a field the report needs.
type FieldError struct {
	Stream int // Position in the stream list, zero-based.
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("stream %d: missing field %q", e.Stream, e.Field)
}

func (e *FieldError) Unwrap() error { return ErrMissingField }

// Kind is the stream's codec_type.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Warning describes one policy violation.
type Warning struct {
	Kind  Kind
	Codec string

	// Oversize is set for a resolution warning; Width and Height are the
	// stream's dimensions and the policy ceiling is carried in Policy.
	Oversize      bool
	Width, Height int

	Policy config.CodecPolicy
}

// Lines renders the warning as the two operator-facing lines.
func (w Warning) Lines() []string {
	switch {
	case w.Oversize:
		return []string{
			fmt.Sprintf("Warning: %dx%d px exceeds the maximum video resolution. Playback might fail.", w.Width, w.Height),
			fmt.Sprintf("Please use %dx%d px or less.", w.Policy.MaxWidth, w.Policy.MaxHeight),
		}
	case w.Kind == KindAudio:
		return []string{
			fmt.Sprintf("Warning: %s is not a recommended audio codec. Playback might fail.", w.Codec),
			"Please use one of these instead: " + strings.Join(w.Policy.AudioCodecs, ", "),
		}
	default:
		return []string{
			fmt.Sprintf("Warning: %s is not a recommended video codec. Playback might fail.", w.Codec),
			fmt.Sprintf("Please use %s instead.", w.Policy.VideoCodec),
		}
	}
}

// StreamReport is the outcome for one audio or video stream.
type StreamReport struct {
	Kind        Kind
	Codec       string
	Description string // "Audio: aac, 48000 Hz, fltp, 2 Channel(s)"
	Warnings    []Warning
}

// Result is the outcome for all streams of one file.
type Result struct {
	Streams     []StreamReport
	HasWarnings bool
}

// Validate classifies each stream by codec_type and checks it against policy.
// Streams that are neither audio nor video are skipped. A missing field fails
// the whole file so the caller can treat it like a probe failure.
func Validate(streams []probe.Record, policy config.CodecPolicy) (Result, error) {
	var res Result
	for i, s := range streams {
		codecType, ok := s.Get("codec_type")
		if !ok {
			return Result{}, &FieldError{Stream: i, Field: "codec_type"}
		}

		var (
			report StreamReport
			err    error
		)
		switch Kind(codecType) {
		case KindAudio:
			report, err = checkAudio(i, s, policy)
		case KindVideo:
			report, err = checkVideo(i, s, policy)
		default:
			continue
		}
		if err != nil {
			return Result{}, err
		}

		if len(report.Warnings) > 0 {
			res.HasWarnings = true
		}
		res.Streams = append(res.Streams, report)
	}
	return res, nil
}

func checkAudio(i int, s probe.Record, policy config.CodecPolicy) (StreamReport, error) {
	f, err := fields(i, s, "codec_name", "sample_rate", "sample_fmt", "channels")
	if err != nil {
		return StreamReport{}, err
	}
	r := StreamReport{
		Kind:        KindAudio,
		Codec:       f[0],
		Description: fmt.Sprintf("Audio: %s, %s Hz, %s, %s Channel(s)", f[0], f[1], f[2], f[3]),
	}
	if !policy.AcceptsAudio(r.Codec) {
		r.Warnings = append(r.Warnings, Warning{Kind: KindAudio, Codec: r.Codec, Policy: policy})
	}
	return r, nil
}

func checkVideo(i int, s probe.Record, policy config.CodecPolicy) (StreamReport, error) {
	f, err := fields(i, s, "codec_name", "width", "height", "avg_frame_rate")
	if err != nil {
		return StreamReport{}, err
	}
	r := StreamReport{
		Kind:        KindVideo,
		Codec:       f[0],
		Description: fmt.Sprintf("Video: %s, %sx%s px, %s fps", f[0], f[1], f[2], f[3]),
	}
	if r.Codec != policy.VideoCodec {
		r.Warnings = append(r.Warnings, Warning{Kind: KindVideo, Codec: r.Codec, Policy: policy})
	}

	if policy.EnforceMaxResolution {
		// Non-numeric dimensions ("N/A") cannot be compared and are let through.
		w, werr := strconv.Atoi(f[1])
		h, herr := strconv.Atoi(f[2])
		if werr == nil && herr == nil && (w > policy.MaxWidth || h > policy.MaxHeight) {
			r.Warnings = append(r.Warnings, Warning{
				Kind: KindVideo, Codec: r.Codec,
				Oversize: true, Width: w, Height: h,
				Policy: policy,
			})
		}
	}
	return r, nil
}

// fields looks up keys in order, failing on the first one that is absent.
func fields(i int, s probe.Record, keys ...string) ([]string, error) {
	out := make([]string, len(keys))
	for k, key := range keys {
		v, ok := s.Get(key)
		if !ok {
			return nil, &FieldError{Stream: i, Field: key}
		}
		out[k] = v
	}
	return out, nil
}

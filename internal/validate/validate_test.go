package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/brownieplayer/internal/config"
	"github.com/backmassage/brownieplayer/internal/probe"
)

func record(kv ...string) probe.Record {
	var r probe.Record
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

func video(codec string) probe.Record {
	return record("codec_type", "video", "codec_name", codec,
		"width", "1920", "height", "1080", "avg_frame_rate", "25/1")
}

func audio(codec string) probe.Record {
	return record("codec_type", "audio", "codec_name", codec,
		"sample_rate", "48000", "sample_fmt", "fltp", "channels", "2")
}

func defaultPolicy() config.CodecPolicy {
	cfg := config.DefaultConfig()
	return cfg.Policy()
}

func TestValidate_VideoCodec(t *testing.T) {
	cases := []struct {
		codec string
		warn  bool
	}{
		{"h264", false},
		{"h265", true},
		{"hevc", true},
		{"H264", true},
	}
	for _, tc := range cases {
		t.Run(tc.codec, func(t *testing.T) {
			res, err := Validate([]probe.Record{video(tc.codec)}, defaultPolicy())
			require.NoError(t, err)
			assert.Equal(t, tc.warn, res.HasWarnings)
		})
	}
}

func TestValidate_AudioCodec(t *testing.T) {
	res, err := Validate([]probe.Record{audio("mp3")}, defaultPolicy())
	require.NoError(t, err)
	require.True(t, res.HasWarnings)
	require.Len(t, res.Streams, 1)

	w := res.Streams[0].Warnings
	require.Len(t, w, 1)
	assert.Equal(t, []string{
		"Warning: mp3 is not a recommended audio codec. Playback might fail.",
		"Please use one of these instead: aac",
	}, w[0].Lines())

	policy := defaultPolicy()
	policy.AudioCodecs = []string{"aac", "mp3"}
	res, err = Validate([]probe.Record{audio("mp3")}, policy)
	require.NoError(t, err)
	assert.False(t, res.HasWarnings)
}

func TestValidate_Descriptions(t *testing.T) {
	res, err := Validate([]probe.Record{video("h264"), audio("aac")}, defaultPolicy())
	require.NoError(t, err)
	require.Len(t, res.Streams, 2)

	assert.Equal(t, "Video: h264, 1920x1080 px, 25/1 fps", res.Streams[0].Description)
	assert.Equal(t, "Audio: aac, 48000 Hz, fltp, 2 Channel(s)", res.Streams[1].Description)
	assert.False(t, res.HasWarnings)
}

func TestValidate_VideoWarningLines(t *testing.T) {
	res, err := Validate([]probe.Record{video("mpeg4")}, defaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Warning: mpeg4 is not a recommended video codec. Playback might fail.",
		"Please use h264 instead.",
	}, res.Streams[0].Warnings[0].Lines())
}

func TestValidate_IgnoresOtherStreamTypes(t *testing.T) {
	sub := record("codec_type", "subtitle", "codec_name", "mov_text")
	data := record("codec_type", "data")

	res, err := Validate([]probe.Record{sub, data, video("h264")}, defaultPolicy())
	require.NoError(t, err)
	assert.Len(t, res.Streams, 1)
	assert.False(t, res.HasWarnings)
}

func TestValidate_MissingField(t *testing.T) {
	noChannels := record("codec_type", "audio", "codec_name", "aac",
		"sample_rate", "48000", "sample_fmt", "fltp")

	_, err := Validate([]probe.Record{video("h264"), noChannels}, defaultPolicy())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Stream)
	assert.Equal(t, "channels", fe.Field)

	_, err = Validate([]probe.Record{record("codec_name", "h264")}, defaultPolicy())
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestValidate_Resolution(t *testing.T) {
	uhd := record("codec_type", "video", "codec_name", "h264",
		"width", "3840", "height", "2160", "avg_frame_rate", "30/1")

	// Not enforced by default.
	res, err := Validate([]probe.Record{uhd}, defaultPolicy())
	require.NoError(t, err)
	assert.False(t, res.HasWarnings)

	policy := defaultPolicy()
	policy.EnforceMaxResolution = true
	res, err = Validate([]probe.Record{uhd}, policy)
	require.NoError(t, err)
	require.True(t, res.HasWarnings)
	assert.Equal(t, []string{
		"Warning: 3840x2160 px exceeds the maximum video resolution. Playback might fail.",
		"Please use 1920x1080 px or less.",
	}, res.Streams[0].Warnings[0].Lines())

	res, err = Validate([]probe.Record{video("h264")}, policy)
	require.NoError(t, err)
	assert.False(t, res.HasWarnings, "1920x1080 is at the ceiling")
}

func TestValidate_Empty(t *testing.T) {
	res, err := Validate(nil, defaultPolicy())
	require.NoError(t, err)
	assert.False(t, res.HasWarnings)
	assert.Empty(t, res.Streams)
}

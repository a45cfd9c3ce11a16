package display

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/brownieplayer/internal/config"
)

type recorder struct {
	lines []string
}

func (r *recorder) Info(f string, a ...interface{})  { r.lines = append(r.lines, fmt.Sprintf(f, a...)) }
func (r *recorder) Error(f string, a ...interface{}) { r.lines = append(r.lines, "E "+fmt.Sprintf(f, a...)) }
func (r *recorder) Debug(f string, a ...interface{}) { r.lines = append(r.lines, "D "+fmt.Sprintf(f, a...)) }
func (r *recorder) Blank()                           { r.lines = append(r.lines, "") }
func (r *recorder) Rule()                            { r.lines = append(r.lines, "----") }

func TestPrintHelp_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	var r recorder
	PrintHelp(&r, cfg.Policy())

	assert.Equal(t, "----", r.lines[0])
	assert.Equal(t, "----", r.lines[len(r.lines)-1])
	assert.Contains(t, r.lines, "Please insert a USB drive that contains the media files in its root folder.")
	assert.Contains(t, r.lines, "Supported video codec: H.264")
	assert.Contains(t, r.lines, "Supported audio codecs: AAC")
	assert.Contains(t, r.lines, "Maximum video resolution: 1920x1080 px (Full HD)")
	assert.Contains(t, r.lines, "Reboot to try again.")
}

func TestPrintHelp_FollowsPolicy(t *testing.T) {
	var r recorder
	PrintHelp(&r, config.CodecPolicy{
		AudioCodecs: []string{"mp3", "aac"},
		VideoCodec:  "h264",
		MaxWidth:    1280,
		MaxHeight:   720,
	})

	assert.Contains(t, r.lines, "Supported audio codecs: MP3, AAC")
	assert.Contains(t, r.lines, "Maximum video resolution: 1280x720 px")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	var r recorder
	PrintBanner(&buf, &r, "1.2.3")

	assert.Equal(t, "\n\n", buf.String())
	assert.Equal(t, []string{"----", "", Homepage, "D Version 1.2.3", "----", ""}, r.lines)
}

package display

import (
	"fmt"
	"strings"

	"github.com/backmassage/brownieplayer/internal/config"
)

// codecNames maps ffprobe codec identifiers to the names people know them by.
var codecNames = map[string]string{
	"h264": "H.264",
	"hevc": "H.265",
	"aac":  "AAC",
	"mp3":  "MP3",
	"ac3":  "AC-3",
}

// CodecName returns the display name of an ffprobe codec identifier.
func CodecName(id string) string {
	if name, ok := codecNames[id]; ok {
		return name
	}
	return strings.ToUpper(id)
}

// PrintHelp shows the setup instructions for an operator standing in front
// of a kiosk with nothing to play. The requirements follow policy.
func PrintHelp(p Printer, policy config.CodecPolicy) {
	audio := make([]string, len(policy.AudioCodecs))
	for i, c := range policy.AudioCodecs {
		audio[i] = CodecName(c)
	}

	resolution := fmt.Sprintf("%dx%d px", policy.MaxWidth, policy.MaxHeight)
	if policy.MaxWidth == 1920 && policy.MaxHeight == 1080 {
		resolution += " (Full HD)"
	}

	p.Rule()
	p.Blank()
	p.Info("Please insert a USB drive that contains the media files in its root folder.")
	p.Blank()
	p.Info("Ensure that the following requirements are met:")
	p.Blank()
	p.Info("Supported file systems for USB drive: exFAT, FAT32, NTFS, EXT2, EXT3, EXT4")
	p.Info("Supported video codec: %s", CodecName(policy.VideoCodec))
	p.Info("Supported audio codecs: %s", strings.Join(audio, ", "))
	p.Info("Maximum video resolution: %s", resolution)
	p.Info("Supported container formats: MP4 (.mp4), QuickTime (.mov)")
	p.Blank()
	p.Info("Reboot to try again.")
	p.Rule()
}

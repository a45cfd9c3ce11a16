// Package probe runs ffprobe and parses its default (bracketed INI-like)
// output into ordered section records.
//
// ffprobe -show_format -show_streams prints blocks such as:
//
//	[STREAM]
//	index=0
//	codec_name=h264
//	codec_type=video
//	[/STREAM]
//	[FORMAT]
//	format_name=mov,mp4,m4a,3gp,3g2,mj2
//	[/FORMAT]
//
// [Parse] turns that text into [Sections]; [Serialize] is its canonical
// inverse and is what the tests build fixtures with. [FFprobe] is the
// process-backed collaborator used by the pipeline.
package probe

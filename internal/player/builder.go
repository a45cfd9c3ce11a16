package player

import "github.com/backmassage/brownieplayer/internal/config"

// Build returns the complete argument slice, binary first. With loop set the
// loop flag goes right after the binary, matching omxplayer's usage line.
func Build(cfg *config.Config, path string, loop bool) []string {
	args := make([]string, 0, len(cfg.PlayerArgs)+3)
	args = append(args, cfg.PlayerCommand)
	if loop && cfg.PlayerLoopFlag != "" {
		args = append(args, cfg.PlayerLoopFlag)
	}
	args = append(args, cfg.PlayerArgs...)
	return append(args, path)
}

// Package player builds and runs the external video player command.
//
// The argument profile is fixed by configuration: the player binary, the
// optional loop flag, the profile arguments (dual audio output, background
// blanking, target display) and finally the file. Each invocation blocks
// until the player exits.
package player

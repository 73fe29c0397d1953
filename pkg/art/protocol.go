// Package art downloads album covers and turns them into terminal escape
// strings, picking the richest graphics protocol the terminal supports and
// falling back to Unicode halfblocks.
package art

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// Protocol identifies which image rendering protocol to use.
type Protocol int

const (
	ProtocolNone       Protocol = iota // no graphics
	ProtocolKitty                      // Kitty graphics (Ghostty, Kitty, WezTerm)
	ProtocolITerm2                     // iTerm2 inline images
	ProtocolSixel                      // Sixel graphics
	ProtocolHalfblocks                 // Unicode half blocks with truecolor
)

var protocolNames = [...]string{
	ProtocolNone:       "none",
	ProtocolKitty:      "kitty",
	ProtocolITerm2:     "iterm2",
	ProtocolSixel:      "sixel",
	ProtocolHalfblocks: "halfblocks",
}

func (p Protocol) String() string {
	if int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return "unknown"
}

// DetectProtocol picks the protocol for the current terminal. Pixel
// protocols over SSH are unreliable, so remote sessions degrade to
// halfblocks, and halfblocks itself needs truecolor.
func DetectProtocol() Protocol {
	proto := baseProtocol()
	if isSSH() && proto != ProtocolNone {
		proto = ProtocolHalfblocks
	}
	if proto == ProtocolHalfblocks && termenv.ColorProfile() != termenv.TrueColor {
		return ProtocolNone
	}
	return proto
}

func baseProtocol() Protocol {
	switch os.Getenv("TERM_PROGRAM") {
	case "ghostty", "WezTerm":
		return ProtocolKitty
	case "iTerm.app":
		return ProtocolITerm2
	}
	term := os.Getenv("TERM")
	switch {
	case strings.Contains(term, "kitty"), strings.Contains(term, "ghostty"):
		return ProtocolKitty
	case strings.Contains(term, "foot"), strings.Contains(term, "mlterm"):
		return ProtocolSixel
	default:
		return ProtocolHalfblocks
	}
}

// SelectProtocol applies the config override on top of detection. Valid
// overrides: "kitty", "iterm2", "sixel", "halfblocks", "none"; "" and
// "auto" mean detect.
func SelectProtocol(override string) Protocol {
	switch strings.ToLower(override) {
	case "", "auto":
		return DetectProtocol()
	case "kitty":
		return ProtocolKitty
	case "iterm2":
		return ProtocolITerm2
	case "sixel":
		return ProtocolSixel
	case "halfblocks", "unicode", "half-blocks":
		return ProtocolHalfblocks
	case "none", "off", "disabled":
		return ProtocolNone
	default:
		return DetectProtocol()
	}
}

func isSSH() bool {
	return os.Getenv("SSH_TTY") != "" ||
		os.Getenv("SSH_CONNECTION") != "" ||
		os.Getenv("SSH_CLIENT") != ""
}

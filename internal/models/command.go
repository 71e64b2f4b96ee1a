package models

import (
	"fmt"
	"strings"
)

// CommandKind tags a decoded instruction.
type CommandKind int

const (
	// CommandActivate opens a port for a number of minutes.
	CommandActivate CommandKind = iota + 1
	// CommandSleep sets the next low-power duration and ends the sequence.
	CommandSleep
)

func (k CommandKind) String() string {
	switch k {
	case CommandActivate:
		return "activate"
	case CommandSleep:
		return "sleep"
	default:
		return "unknown"
	}
}

// Command is one line of the served body.
// Port is the 1-based logical index and is zero for sleep commands.
type Command struct {
	Kind    CommandKind `json:"kind"`
	Port    uint32      `json:"port,omitempty"`
	Minutes uint32      `json:"minutes"`
}

// Activate builds an activation command.
func Activate(port, minutes uint32) Command {
	return Command{Kind: CommandActivate, Port: port, Minutes: minutes}
}

// Sleep builds a sleep directive.
func Sleep(minutes uint32) Command {
	return Command{Kind: CommandSleep, Minutes: minutes}
}

// Line renders the command in wire form ("port,minutes").
func (c Command) Line() string {
	if c.Kind == CommandSleep {
		return fmt.Sprintf("0,%d", c.Minutes)
	}
	return fmt.Sprintf("%d,%d", c.Port, c.Minutes)
}

func (c Command) String() string {
	if c.Kind == CommandSleep {
		return fmt.Sprintf("Sleep(%d)", c.Minutes)
	}
	return fmt.Sprintf("Activate(%d,%d)", c.Port, c.Minutes)
}

// CommandSequence is the ordered result of parsing one response.
type CommandSequence []Command

// Body renders the sequence as a newline-terminated response body.
func (s CommandSequence) Body() string {
	var b strings.Builder
	for _, c := range s {
		b.WriteString(c.Line())
		b.WriteByte('\n')
	}
	return b.String()
}

// RawResponse holds the bytes received from the command server.
type RawResponse struct {
	Data []byte
	// Truncated is set when the buffer filled before the peer closed.
	Truncated bool
}

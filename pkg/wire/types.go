// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

// Package wire defines the values that cross the boundary between a Hank
// plugin and its host, and the Codec used to turn them into bytes.
//
// The shapes mirror the Hank host protocol. Chat, database and metadata
// payloads are passed through the plugin kit untouched; only the fields the
// kit itself needs (job identifiers, error strings) are interpreted.
package wire

// User identifies a chat participant.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Channel identifies where a message was sent.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Message is a chat message delivered to or sent by a plugin.
type Message struct {
	ID        string   `json:"id,omitempty"`
	Content   string   `json:"content"`
	Timestamp int64    `json:"timestamp,omitempty"` // Unix milliseconds
	Author    *User    `json:"author,omitempty"`
	Channel   *Channel `json:"channel,omitempty"`
}

// Reaction is an emoji reaction attached to a message.
type Reaction struct {
	Emoji   string   `json:"emoji"`
	Message *Message `json:"message,omitempty"`
}

// PreparedStatement is a parameterized SQL statement run against the
// plugin's database by the host.
type PreparedStatement struct {
	SQL    string   `json:"sql"`
	Values []string `json:"values,omitempty"`
}

// Results holds the rows returned by a query. Each row is a JSON object
// keyed by column name.
type Results struct {
	Rows []string `json:"rows,omitempty"`
}

// CronJob asks the host to invoke a job on a recurring cron schedule.
type CronJob struct {
	Cron  string `json:"cron"`
	JobID string `json:"job_id"`
}

// OneShotJob asks the host to invoke a job once after a delay.
type OneShotJob struct {
	Duration int64  `json:"duration"` // milliseconds
	JobID    string `json:"job_id"`
}

// ArgumentValue is a parsed command argument.
type ArgumentValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CommandContext describes the chat command a user invoked. Subcommand is
// set when the user invoked one of the plugin's subcommands.
type CommandContext struct {
	Name       string          `json:"name"`
	Arguments  []ArgumentValue `json:"arguments,omitempty"`
	Subcommand *CommandContext `json:"subcommand,omitempty"`
}

// Argument returns the value of the named argument and whether it was given.
func (c CommandContext) Argument(name string) (string, bool) {
	for _, a := range c.Arguments {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// InstructionKind enumerates the capability instructions a privileged plugin
// may send to the host.
type InstructionKind int32

// Instruction kinds.
const (
	InstructionUnspecified InstructionKind = iota
	InstructionShutdown
	InstructionRestart
	InstructionClearCache
)

// Instruction is a request for the host to perform an escalated action.
type Instruction struct {
	Kind InstructionKind `json:"kind"`
	Args []string        `json:"args,omitempty"`
}

// Ack is the empty response of every entry point that has nothing to return.
type Ack struct{}

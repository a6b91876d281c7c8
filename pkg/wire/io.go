// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package wire

// Request and response envelopes for every host function and entry point.
// Outputs with an Error field report host-side failures as plain strings.

// SendMessageInput is the request of the send_message host function.
type SendMessageInput struct {
	Message *Message `json:"message,omitempty"`
}

// SendMessageOutput is the response of send_message.
type SendMessageOutput struct {
	Error string `json:"error,omitempty"`
}

// ReactInput is the request of the react host function.
type ReactInput struct {
	Reaction *Reaction `json:"reaction,omitempty"`
}

// ReactOutput is the response of react.
type ReactOutput struct {
	Error string `json:"error,omitempty"`
}

// DBQueryInput is the request of the db_query host function.
type DBQueryInput struct {
	PreparedStatement *PreparedStatement `json:"prepared_statement,omitempty"`
}

// DBQueryOutput is the response of db_query.
type DBQueryOutput struct {
	Results *Results `json:"results,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// CronInput is the request of the cron host function.
type CronInput struct {
	CronJob *CronJob `json:"cron_job,omitempty"`
}

// CronOutput is the response of cron.
type CronOutput struct {
	Error string `json:"error,omitempty"`
}

// OneShotInput is the request of the one_shot host function.
type OneShotInput struct {
	OneShotJob *OneShotJob `json:"one_shot_job,omitempty"`
}

// OneShotOutput is the response of one_shot.
type OneShotOutput struct {
	Error string `json:"error,omitempty"`
}

// ReloadPluginInput is the request of the reload_plugin host function.
type ReloadPluginInput struct {
	Plugin string `json:"plugin"`
}

// ReloadPluginOutput is the response of reload_plugin.
type ReloadPluginOutput struct {
	Error string `json:"error,omitempty"`
}

// UnloadPluginInput is the request of the unload_plugin host function.
// Cleanup asks the host to also drop the plugin's database.
type UnloadPluginInput struct {
	Plugin  string `json:"plugin"`
	Cleanup bool   `json:"cleanup,omitempty"`
}

// UnloadPluginOutput is the response of unload_plugin.
type UnloadPluginOutput struct {
	Error string `json:"error,omitempty"`
}

// Wasm references a plugin binary to load: inline bytes or a URL.
// Exactly one field is set.
type Wasm struct {
	Data []byte `json:"data,omitempty"`
	URL  string `json:"url,omitempty"`
}

// LoadPluginInput is the request of the load_plugin host function.
type LoadPluginInput struct {
	Wasm *Wasm `json:"wasm,omitempty"`
}

// LoadPluginOutput is the response of load_plugin. Manifest is the extism
// manifest the host built for the loaded plugin, as JSON text.
type LoadPluginOutput struct {
	Manifest string    `json:"manifest,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// InstructionInput is the request of the instruction host function.
type InstructionInput struct {
	Instruction *Instruction `json:"instruction,omitempty"`
}

// InstructionOutput is the response of instruction.
type InstructionOutput struct {
	Error string `json:"error,omitempty"`
}

// HandleChatCommandInput is the payload of the handle_chat_command entry
// point. The host always sets both fields.
type HandleChatCommandInput struct {
	Context *CommandContext `json:"context,omitempty"`
	Message *Message        `json:"message,omitempty"`
}

// ScheduledJobInput is the payload of the handle_scheduled_job entry point:
// the host echoes back whichever job description it was given.
// Exactly one field is set.
type ScheduledJobInput struct {
	CronJob    *CronJob    `json:"cron_job,omitempty"`
	OneShotJob *OneShotJob `json:"one_shot_job,omitempty"`
}

// JobID returns the echoed job identifier and the variant that carried it
// ("cron" or "one_shot"). ok is false when neither variant is set.
func (in ScheduledJobInput) JobID() (id, kind string, ok bool) {
	switch {
	case in.CronJob != nil:
		return in.CronJob.JobID, "cron", true
	case in.OneShotJob != nil:
		return in.OneShotJob.JobID, "one_shot", true
	default:
		return "", "", false
	}
}

// Package command exposes go-command compatible command handlers implementing
// xlist business logic (profile publishing, edits, removal and click
// recording). Commands are wired by the service layer and can be invoked by
// any transport.
package command

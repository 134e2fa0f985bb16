// Package command exposes go-command compatible handlers implementing
// go-fieldlog business logic (activity lifecycle, audit recording,
// report preferences). Commands are wired by the service layer and can
// be invoked by any transport.
package command

// Package bus contains concrete MessageBus implementations. The bus
// interface resides in the core package. Import
// github.com/hupe1980/agentrun/core and depend on core.MessageBus in your
// code; select an implementation (the in-memory bus below, or the redis
// subpackage for multi-process setups) at wiring time.
package bus

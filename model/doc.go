// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language / reasoning models.
//
// Core goals:
//   - Unify complete and token-streamed generation behind a single interface
//   - Normalize tool call representation (ToolCall) across vendors
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel, StubModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from
// this package so agents remain decoupled from vendor SDKs.
package model

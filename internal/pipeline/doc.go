// Package pipeline sequences actions into interactions.
//
// A Pipeline owns an ordered list of actions, a forward-only cursor and the
// data map its actions share. It is advanced once per frame. An action that
// finishes without consuming frame time hands over to the next one within
// the same frame; otherwise the next action starts on the next frame. A
// failed action, or an abort from outside, ends the pipeline and rolls back
// every started reversible action in reverse order.
//
// The Registry maps pipeline kinds to recipes that build the action list
// from configuration.
package pipeline

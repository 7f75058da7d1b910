// Package messages defines the stable identifiers of every warning, fault and
// configuration error produced by the statemachine package, and renders them
// into human-readable text.
//
// Identifiers are plain strings (ID) so listeners can switch on them without
// parsing text. Rendering goes through a golang.org/x/text message catalog
// that ships with English wording; other languages can be added with Register.
//
//	text := messages.Text(messages.TransitionNotAllowed, "idle", "closed")
//	// transition from state "idle" to state "closed" not allowed.
//
//	_ = messages.Register(language.German, messages.StateMachineDead, "Zustandsautomat ist tot")
//	de := messages.Render(language.German, messages.StateMachineDead)
package messages

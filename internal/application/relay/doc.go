// Package relay implements the translate operation of the relay.
//
// The manager handles one translation per call by:
//   - Validating the request and applying the src/dest defaults
//   - Calling the upstream translator exactly once, never retrying
//   - Mapping the upstream outcome to a TranslationResult or a sentinel error
//   - Recording metrics and publishing a translation event
//
// The validator trims the text and rejects requests whose text is empty.
package relay

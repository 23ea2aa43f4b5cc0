// Package upstream provides upstream translation API clients.
//
// The factory creates a ports.Translator based on provider configuration.
// Currently supports:
//   - MyMemory (api.mymemory.translated.net)
package upstream

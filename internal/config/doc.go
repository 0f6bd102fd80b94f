// Package config resolves eicli settings into one validated, immutable
// snapshot per process.
//
// Resolution layers, highest precedence first:
//
//  1. Process environment variables using the SECTION__FIELD convention
//     (for example API__OPENAI_API_KEY, TTS__VOICE).
//  2. A .env file in the current working directory, loaded into the
//     environment without overriding variables that are already set.
//  3. An explicitly supplied YAML or JSON configuration file.
//  4. Built-in defaults.
//
// Every bounded field is validated at construction time; the first
// violation aborts the whole snapshot with an error naming the field.
// The API key is held in a Secret whose textual representation is always
// a placeholder; callers must use Reveal to obtain the raw value.
package config

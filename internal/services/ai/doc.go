// Package ai wraps the OpenAI HTTP API behind typed operations: web
// search, vision analysis, image generation, speech synthesis, and audio
// transcription/translation. Every remote call runs behind the guard's
// rate gate and bounded retry loop; availability and parameter validation
// happen before any network traffic.
package ai

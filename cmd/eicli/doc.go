// Command eicli is a terminal toolkit for the OpenAI API: web search,
// image analysis and generation, speech synthesis, and audio
// transcription, with layered configuration and invocation history.
package main

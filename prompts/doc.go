// Package prompts holds the insurance domain prompt templates and the typed
// response schemas that structured generation validates against.
package prompts

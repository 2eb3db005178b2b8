// Package api provides the Gemini API client implementation.
package api

// GJSON paths for extracting values from generateContent responses.
const (
	PathCandidates     = "candidates"
	PathCandPartsText  = "content.parts.#.text"
	PathCandFinish     = "finishReason"
	PathCandIndex      = "index"
	PathBlockReason    = "promptFeedback.blockReason"
	PathModelVersion   = "modelVersion"
	PathUsagePrompt    = "usageMetadata.promptTokenCount"
	PathUsageCandidate = "usageMetadata.candidatesTokenCount"
	PathUsageTotal     = "usageMetadata.totalTokenCount"

	// Error envelope: {"error":{"code":400,"message":"...","status":"INVALID_ARGUMENT"}}
	PathError        = "error"
	PathErrorCode    = "error.code"
	PathErrorMessage = "error.message"
	PathErrorStatus  = "error.status"
)

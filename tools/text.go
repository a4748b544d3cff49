package tools

import (
	"strings"

	"github.com/BaSui01/graphflow/types"
	"github.com/BaSui01/graphflow/workflow"
)

// Built-in tool names.
const (
	ToolSplitText       = "split_text"
	ToolSummarizeChunks = "summarize_chunks"
	ToolMergeSummaries  = "merge_summaries"
	ToolRefineSummary   = "refine_summary"
)

// RegisterBuiltins registers the built-in text tools. The registry must be
// populated before any graph referencing these names is run.
func RegisterBuiltins(r *workflow.ToolRegistry) {
	r.Register(ToolSplitText, SplitText)
	r.Register(ToolSummarizeChunks, SummarizeChunks)
	r.Register(ToolMergeSummaries, MergeSummaries)
	r.Register(ToolRefineSummary, RefineSummary)
}

// SplitText splits state["text"] into word-preserving chunks of at most
// config["chunk_size"] characters (default 200) and writes them to
// state["chunks"]. A chunk may exceed the limit only when a single word does.
func SplitText(state types.State, config map[string]any) types.State {
	text := stateString(state, "text")
	chunkSize := configInt(config, "chunk_size", 200)

	words := strings.Fields(text)
	var chunks []string
	var current []string

	for _, w := range words {
		candidate := strings.Join(append(append([]string{}, current...), w), " ")
		if len(candidate) > chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{w}
		} else {
			current = append(current, w)
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	state["chunks"] = chunks
	return state
}

// SummarizeChunks caps every chunk in state["chunks"] at the first
// config["summary_words"] words (default 30) and writes the results to
// state["summaries"].
func SummarizeChunks(state types.State, config map[string]any) types.State {
	chunks := stateStrings(state, "chunks")
	summaryWords := configInt(config, "summary_words", 30)

	summaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		words := strings.Fields(chunk)
		if len(words) > summaryWords {
			words = words[:summaryWords]
		}
		summaries = append(summaries, strings.Join(words, " "))
	}

	state["summaries"] = summaries
	return state
}

// MergeSummaries joins state["summaries"] into a single space-separated
// string, writing state["merged_summary"] and state["summary_length"].
func MergeSummaries(state types.State, _ map[string]any) types.State {
	summaries := stateStrings(state, "summaries")
	merged := strings.Join(summaries, " ")
	state["merged_summary"] = merged
	state["summary_length"] = len(merged)
	return state
}

// RefineSummary shortens state["merged_summary"] toward
// config["target_length"] characters (default 400). When the summary already
// fits, it is published as state["final_summary"] unchanged. Otherwise the
// summary is truncated at the last space before the limit; each refine pass
// shortens further, so a self-loop guarded on summary_length converges.
func RefineSummary(state types.State, config map[string]any) types.State {
	targetLength := configInt(config, "target_length", 400)
	summary := stateString(state, "merged_summary")

	if len(summary) <= targetLength {
		state["final_summary"] = summary
		state["summary_length"] = len(summary)
		return state
	}

	shorter := summary[:targetLength]
	if idx := strings.LastIndex(shorter, " "); idx > 0 {
		shorter = shorter[:idx]
	}

	state["merged_summary"] = shorter
	state["final_summary"] = shorter
	state["summary_length"] = len(shorter)
	return state
}

// stateString reads a string key, tolerating absence.
func stateString(state types.State, key string) string {
	s, _ := state[key].(string)
	return s
}

// stateStrings reads a string-slice key, tolerating both []string (written
// by tools in-process) and []any (a state round-tripped through JSON).
func stateStrings(state types.State, key string) []string {
	switch val := state[key].(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// configInt reads an integer config key, tolerating JSON-decoded floats.
func configInt(config map[string]any, key string, def int) int {
	switch val := config[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	}
	return def
}

// Copyright (c) Graphflow Authors.
// Licensed under the MIT License.

// Package tools provides the built-in text-processing tools and their
// registration helper. Each tool follows the workflow.ToolFunc contract:
// it reads keys from the run state, writes the keys downstream nodes need,
// and returns the mapping that becomes the run's new canonical state.
package tools

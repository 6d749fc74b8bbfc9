package mcp

import "github.com/mark3labs/mcp-go/mcp"

func isExtractableTool() mcp.Tool {
	return mcp.NewTool(
		"is_extractable",
		mcp.WithDescription("Check whether a text fragment is a self-contained JSX expression that can be extracted into a component."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The selected source fragment to check")),
	)
}

func extractComponentTool() mcp.Tool {
	return mcp.NewTool(
		"extract_component",
		mcp.WithDescription("Extract the selected JSX range of a document into a new component. Returns the component declaration, the usage tag that replaces the selection, and the byte offset where the declaration should be inserted. Does not modify any file."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name for the new component; free-form input is normalized to PascalCase")),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Full document text containing the selection")),
		mcp.WithNumber("start",
			mcp.Required(),
			mcp.Description("Selection start byte offset (inclusive)")),
		mcp.WithNumber("end",
			mcp.Required(),
			mcp.Description("Selection end byte offset (exclusive)")),
		mcp.WithString("style",
			mcp.Description("Component shape: function (default), arrowFunction or class")),
		mcp.WithBoolean("class",
			mcp.Description("Shorthand for style=class")),
	)
}

func extractToFileTool() mcp.Tool {
	return mcp.NewTool(
		"extract_to_file",
		mcp.WithDescription("Extract the selected JSX range of a file into a new component and rewrite the file in place. Returns the component name and the line range the new declaration occupies."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name for the new component")),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Path of the file to refactor")),
		mcp.WithNumber("start",
			mcp.Required(),
			mcp.Description("Selection start byte offset (inclusive)")),
		mcp.WithNumber("end",
			mcp.Required(),
			mcp.Description("Selection end byte offset (exclusive)")),
		mcp.WithString("style",
			mcp.Description("Component shape: function (default), arrowFunction or class")),
		mcp.WithBoolean("class",
			mcp.Description("Shorthand for style=class")),
	)
}

func listCandidatesTool() mcp.Tool {
	return mcp.NewTool(
		"list_candidates",
		mcp.WithDescription("Scan a workspace for JSX elements that are candidates for extraction. Returns one entry per outermost element with its file, tag and position."),
		mcp.WithString("root",
			mcp.Required(),
			mcp.Description("Workspace root directory to scan")),
		mcp.WithArray("include",
			mcp.Description("Doublestar patterns files must match (default: all js/jsx/ts/tsx sources)")),
		mcp.WithArray("exclude",
			mcp.Description("Doublestar patterns to skip (default: node_modules, .git, dist, build, coverage)")),
	)
}

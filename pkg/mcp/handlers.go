package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/jsxtract/pkg/refactor"
	"github.com/gnana997/jsxtract/pkg/workspace"
)

// handleIsExtractable reports whether the given fragment is standalone JSX.
func (s *Server) handleIsExtractable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	text, ok := args["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	return jsonResult(map[string]bool{
		"extractable": s.extractor.IsExtractable(text),
	})
}

// handleExtractComponent runs an in-memory extraction and returns the
// RefactorResult as JSON. Invalid selections come back as tool errors, not
// protocol errors, so the client can relay them to the user.
func (s *Server) handleExtractComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	ectx, errResult := s.extractionContext(args)
	if errResult != nil {
		return errResult, nil
	}
	text, ok := args["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	ectx.Text = text

	result, err := s.extractor.Extract(*ectx)
	if err != nil {
		if isUserError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	return jsonResult(result)
}

// extractToFileResponse is the payload returned by extract_to_file.
type extractToFileResponse struct {
	File      string `json:"file"`
	Component string `json:"component"`
	FirstLine int    `json:"firstLine"`
	LastLine  int    `json:"lastLine"`
}

// handleExtractToFile extracts from a file on disk and writes the rewritten
// content back in place.
func (s *Server) handleExtractToFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	ectx, errResult := s.extractionContext(args)
	if errResult != nil {
		return errResult, nil
	}
	file, ok := args["file"].(string)
	if !ok {
		return mcp.NewToolResultError("file parameter is required"), nil
	}

	text, err := s.cache.ReadText(file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", file, err)), nil
	}
	ectx.Text = text

	result, err := s.extractor.Extract(*ectx)
	if err != nil {
		if isUserError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	rewritten := text[:result.InsertAt] +
		result.ComponentCode + "\n\n" +
		text[result.InsertAt:ectx.Start] +
		result.ReplaceJSXCode +
		text[ectx.End:]

	if err := os.WriteFile(file, []byte(rewritten), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", file, err)
	}
	s.cache.Invalidate(file)

	first, last := refactor.InsertedLineSpan(text, result.InsertAt, result.ComponentCode)
	s.logger.Info("extracted component to file",
		"file", file,
		"component", refactor.NormalizeComponentName(ectx.Name),
		"first_line", first,
		"last_line", last)

	return jsonResult(extractToFileResponse{
		File:      file,
		Component: refactor.NormalizeComponentName(ectx.Name),
		FirstLine: first,
		LastLine:  last,
	})
}

// handleListCandidates scans a workspace and returns its extraction
// candidates.
func (s *Server) handleListCandidates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	root, ok := args["root"].(string)
	if !ok {
		return mcp.NewToolResultError("root parameter is required"), nil
	}

	options := workspace.ScanOptions{
		Include: stringSlice(args["include"]),
		Exclude: stringSlice(args["exclude"]),
	}

	result, err := s.scanner.Scan(root, options)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"candidates":    result.Candidates,
		"files_scanned": result.Stats.FilesScanned,
		"files_failed":  result.Stats.FilesFailed,
	})
}

// extractionContext builds the shared part of an ExtractionContext from tool
// arguments: name, range and style. Text is filled in by the caller.
func (s *Server) extractionContext(args map[string]any) (*refactor.ExtractionContext, *mcp.CallToolResult) {
	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, mcp.NewToolResultError("name parameter is required")
	}
	start, ok := args["start"].(float64)
	if !ok {
		return nil, mcp.NewToolResultError("start parameter is required")
	}
	end, ok := args["end"].(float64)
	if !ok {
		return nil, mcp.NewToolResultError("end parameter is required")
	}

	style := s.defaultStyle()
	if styleArg, ok := args["style"].(string); ok && styleArg != "" {
		style = refactor.ParseStyle(styleArg)
	}
	class, _ := args["class"].(bool)

	return &refactor.ExtractionContext{
		Name:  name,
		Start: int(start),
		End:   int(end),
		Class: class,
		Style: style,
	}, nil
}

// isUserError reports whether err describes a problem with the request or
// the submitted source rather than a failure of the server.
func isUserError(err error) bool {
	var ee *refactor.ExtractionError
	return errors.Is(err, refactor.ErrInvalidJSX) ||
		errors.Is(err, refactor.ErrInvalidComponent) ||
		errors.As(err, &ee)
}

// stringSlice converts an MCP array argument to []string, dropping non-string
// entries.
func stringSlice(arg any) []string {
	items, ok := arg.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// jsonResult marshals v and wraps it as a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

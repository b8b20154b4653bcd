package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchLibraryTool defines the search_library MCP tool.
var searchLibraryTool = mcp.NewTool("search_library",
	mcp.WithDescription("Search the media library semantically. Returns matching chunks and document summaries with citation anchors."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
	mcp.WithString("type_filter",
		mcp.Description("Filter results by source media type"),
		mcp.Enum("pdf", "audio", "video", "image", "srt"),
	),
)

// askLibraryTool defines the ask_library MCP tool.
var askLibraryTool = mcp.NewTool("ask_library",
	mcp.WithDescription("Ask a question about the media library. Returns a synthesized answer with [S#]/[C#] citations into the retrieved sources."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to answer"),
	),
	mcp.WithString("language",
		mcp.Description("ISO language code for the answer (default: configured language)"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of retrieved results to ground the answer on (default 10)"),
	),
)

// listSourcesTool defines the list_sources MCP tool.
var listSourcesTool = mcp.NewTool("list_sources",
	mcp.WithDescription("List every ingested source in the library with its type, chunk count, and metadata."),
	mcp.WithString("type_filter",
		mcp.Description("Only list sources of this media type"),
		mcp.Enum("pdf", "audio", "video", "image", "srt"),
	),
)

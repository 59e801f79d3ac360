package mcp

import "github.com/mark3labs/mcp-go/mcp"

var summarizeSourceTool = mcp.NewTool("summarize_source",
	mcp.WithDescription("Summarize a web page, a YouTube video, or a meeting transcript file. Selecting a different source clears the previous summary and chat."),
	mcp.WithString("mode",
		mcp.Required(),
		mcp.Description("Kind of source"),
		mcp.Enum("web", "youtube", "transcript"),
	),
	mcp.WithString("url",
		mcp.Description("Page or video URL (web and youtube modes)"),
	),
	mcp.WithString("file_path",
		mcp.Description("Path to a .txt, .doc, .docx or .pdf transcript (transcript mode)"),
	),
)

var askQuestionTool = mcp.NewTool("ask_question",
	mcp.WithDescription("Ask a follow-up question about the current source. The conversation is kept across calls until the source changes."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to ask"),
	),
)

var getStateTool = mcp.NewTool("get_state",
	mcp.WithDescription("Return the current mode, source, summary and chat transcript as JSON."),
)

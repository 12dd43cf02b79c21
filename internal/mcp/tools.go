package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var reflectToolDef = mcp.NewTool("quest_reflect",
	mcp.WithDescription("Submit a free-text journal entry about your day. Costs 1 token. Returns the coach's analysis, attribute changes, and any rewards earned."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The journal entry describing what you did"),
	),
)

var analyzeToolDef = mcp.NewTool("quest_analyze",
	mcp.WithDescription("Run a deep character analysis over your profile and recent reflections. Costs 5 tokens."),
)

var profileToolDef = mcp.NewTool("quest_profile",
	mcp.WithDescription("Get the current character profile: attributes with levels, streak, and token balance."),
)

var historyToolDef = mcp.NewTool("quest_history",
	mcp.WithDescription("List past reflections and analyses, most recent first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum records to return (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of records to skip"),
	),
	mcp.WithString("type",
		mcp.Description("Filter by record type: reflection or character_analysis"),
	),
)

var showToolDef = mcp.NewTool("quest_show",
	mcp.WithDescription("Show one history record by id, including its full analysis."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("The history record id"),
	),
)

var setNameToolDef = mcp.NewTool("quest_set_name",
	mcp.WithDescription("Set the character's display name."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("The new character name"),
	),
)

var earnToolDef = mcp.NewTool("quest_earn",
	mcp.WithDescription("Claim a bonus token reward from the promo source, if one is ready."),
)

var resetToolDef = mcp.NewTool("quest_reset",
	mcp.WithDescription("Wipe the profile and all history back to a fresh start. Irreversible."),
	mcp.WithBoolean("confirm",
		mcp.Required(),
		mcp.Description("Must be true to confirm the wipe"),
	),
)

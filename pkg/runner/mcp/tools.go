package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/filter"
)

func registerTools(srv *server.MCPServer, svc *app.Service) {
	registerListCollectionsTool(srv, svc)
	registerListTasksTool(srv, svc)
	registerCreateCollectionTool(srv, svc)
	registerAddTaskTool(srv, svc)
	registerSetTaskCompletedTool(srv, svc)
	registerRenameTaskTool(srv, svc)
	registerRemoveTaskTool(srv, svc)
	registerRemoveDoneTasksTool(srv, svc)
	registerGetFilterTool(srv, svc)
	registerSetFilterTool(srv, svc)
}

func collectionArg(opts ...mcp.PropertyOption) mcp.ToolOption {
	opts = append([]mcp.PropertyOption{
		mcp.Required(),
		mcp.Description("Collection title, or #N for the N-th collection."),
	}, opts...)
	return mcp.WithString("collection", opts...)
}

func numberArg() mcp.ToolOption {
	return mcp.WithNumber("number",
		mcp.Required(),
		mcp.Description("1-based task number as reported by list_tasks."),
		mcp.Min(1),
	)
}

func filterValues() []string {
	out := make([]string, 0, 3)
	for _, p := range filter.Preferences() {
		out = append(out, string(p))
	}
	return out
}

func registerListCollectionsTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"list_collections",
		mcp.WithDescription("List all collections with open and done counts, in sidebar order."),
	)
	srv.AddTool(tool, listCollectionsHandler(svc))
}

func listCollectionsHandler(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sums, err := svc.Collections(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dtos := collectionDTOs(sums)
		return toJSONResult(map[string]any{
			"collections": dtos,
			"count":       len(dtos),
		})
	}
}

func registerListTasksTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("List the tasks of a collection. Without a filter the stored filter preference applies."),
		collectionArg(),
		mcp.WithString("filter",
			mcp.Description("Which tasks to include."),
			mcp.Enum(filterValues()...),
		),
	)
	srv.AddTool(tool, listTasksHandler(svc))
}

func listTasksHandler(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("collection")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var pref filter.Preference
		if raw := strings.TrimSpace(request.GetString("filter", "")); raw != "" {
			if pref, err = filter.ParsePreference(raw); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		c, rows, applied, err := svc.Tasks(ctx, ref, pref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tasks := taskDTOs(rows)
		return toJSONResult(map[string]any{
			"collection": c.Title,
			"filter":     string(applied),
			"tasks":      tasks,
			"count":      len(tasks),
		})
	}
}

func registerCreateCollectionTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"create_collection",
		mcp.WithDescription("Create a new, empty collection. Titles may repeat."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new collection."),
		),
	)
	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := request.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sum, err := svc.CreateCollection(ctx, title)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(collectionDTO(sum))
	})
}

func registerAddTaskTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"add_task",
		mcp.WithDescription("Append an open task to a collection."),
		collectionArg(),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task text."),
		),
	)
	srv.AddTool(tool, addTaskHandler(svc))
}

func addTaskHandler(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Collection string `json:"collection"`
			Title      string `json:"title"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		row, err := svc.AddTask(ctx, args.Collection, args.Title)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(taskDTO(row))
	}
}

func registerSetTaskCompletedTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"set_task_completed",
		mcp.WithDescription("Mark a task done, or open again."),
		collectionArg(),
		numberArg(),
		mcp.WithBoolean("completed",
			mcp.Description("True to complete the task, false to reopen it."),
			mcp.DefaultBool(true),
		),
	)
	srv.AddTool(tool, setTaskCompletedHandler(svc))
}

func setTaskCompletedHandler(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("collection")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		n, err := request.RequireInt("number")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		row, err := svc.SetCompleted(ctx, ref, n, request.GetBool("completed", true))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(taskDTO(row))
	}
}

func registerRenameTaskTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"rename_task",
		mcp.WithDescription("Change the text of a task."),
		collectionArg(),
		numberArg(),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("New task text."),
		),
	)
	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("collection")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		n, err := request.RequireInt("number")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		title, err := request.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		row, err := svc.RenameTask(ctx, ref, n, title)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(taskDTO(row))
	})
}

func registerRemoveTaskTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"remove_task",
		mcp.WithDescription("Delete a task. Later tasks move up by one number."),
		collectionArg(),
		numberArg(),
	)
	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("collection")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		n, err := request.RequireInt("number")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, err := svc.RemoveTask(ctx, ref, n)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(TaskDTO{Number: n, Title: t.Title, Completed: t.Completed})
	})
}

func registerRemoveDoneTasksTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"remove_done_tasks",
		mcp.WithDescription("Delete every completed task of a collection."),
		collectionArg(),
	)
	srv.AddTool(tool, removeDoneHandler(svc))
}

func removeDoneHandler(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("collection")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		n, err := svc.RemoveDone(ctx, ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"removed": n})
	}
}

func registerGetFilterTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"get_filter",
		mcp.WithDescription("Return the stored filter preference (All, Open or Done)."),
	)
	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toJSONResult(map[string]any{"filter": string(svc.Preference(ctx))})
	})
}

func registerSetFilterTool(srv *server.MCPServer, svc *app.Service) {
	tool := mcp.NewTool(
		"set_filter",
		mcp.WithDescription("Store the filter preference used by the UI and by list_tasks."),
		mcp.WithString("filter",
			mcp.Required(),
			mcp.Enum(filterValues()...),
		),
	)
	srv.AddTool(tool, setFilterHandler(svc))
}

func setFilterHandler(svc *app.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("filter")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		pref, err := filter.ParsePreference(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.SetPreference(ctx, pref); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"filter": string(pref)})
	}
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}

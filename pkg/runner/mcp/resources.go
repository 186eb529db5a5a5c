package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/todo/pkg/app"
)

func registerResources(srv *server.MCPServer, svc *app.Service) {
	registerCollectionsResource(srv, svc)
	registerCollectionTemplate(srv, svc)
}

func registerCollectionsResource(srv *server.MCPServer, svc *app.Service) {
	resource := mcp.NewResource(
		"todo://collections",
		"Collections",
		mcp.WithResourceDescription("All collections with open and done counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		sums, err := svc.Collections(ctx)
		if err != nil {
			return nil, err
		}
		dtos := collectionDTOs(sums)
		payload := map[string]any{
			"collections": dtos,
			"count":       len(dtos),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerCollectionTemplate(srv *server.MCPServer, svc *app.Service) {
	template := mcp.NewResourceTemplate(
		"todo://collections/{name}",
		"Collection Tasks",
		mcp.WithTemplateDescription("Every task of a collection, regardless of the filter."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, collectionTemplateHandler(svc))
}

func collectionTemplateHandler(svc *app.Service) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := templateArg(request.Params.Arguments, "name")
		if name == "" {
			return nil, fmt.Errorf("collection name is required")
		}

		c, rows, _, err := svc.Tasks(ctx, name, "All")
		if err != nil {
			return nil, err
		}
		tasks := taskDTOs(rows)
		payload := map[string]any{
			"collection": c.Title,
			"count":      len(tasks),
			"tasks":      tasks,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	}
}

// templateArg reads a URI template variable, which arrives as a string or a
// one-element list depending on the template operator.
func templateArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

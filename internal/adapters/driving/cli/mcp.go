package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-corpus/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search the
corpus.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP on localhost instead.

Tools:
  search     - Run a query and return its first page
  load_more  - Fetch the next page of the last query

Examples:
  # Stdio mode
  sercha-corpus mcp serve

  # HTTP mode
  sercha-corpus mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx, nil, 0)
	if err != nil {
		return err
	}
	defer sess.Close()

	server, err := mcp.NewServer(&mcp.Ports{
		Search:   sess.search,
		Document: sess.document,
	}, mcp.Options{RateLimit: sess.settings.MCP.RateLimit})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf("localhost:%d", port)
		cmd.PrintErrf("MCP server listening on http://%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}
	return server.Run(ctx)
}

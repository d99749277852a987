package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	coreconfig "github.com/AzielCF/az-content/core/config"
	"github.com/AzielCF/az-content/ui/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var (
	mcpPort string
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the content cache MCP server using SSE",
	Long:  `Start an MCP (Model Context Protocol) server using Server-Sent Events (SSE) transport. AI agents can generate outlines and inspect or clear the content cache through it.`,
	Run:   mcpServer,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpPort, "port", "", "Port for the SSE MCP server")
	mcpCmd.Flags().StringVar(&mcpHost, "host", "", "Host for the SSE MCP server")
}

func mcpServer(_ *cobra.Command, _ []string) {
	if mcpPort != "" {
		coreconfig.Global.MCP.Port = mcpPort
	}
	if mcpHost != "" {
		coreconfig.Global.MCP.Host = mcpHost
	}
	host, port := coreconfig.Global.MCP.Host, coreconfig.Global.MCP.Port

	// Create MCP server with capabilities
	mcpServer := server.NewMCPServer(
		"Az-Content MCP Server",
		coreconfig.Global.App.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
	)

	cacheHandler := mcp.InitMcpCache(cacheUsecase, generatorUsecase)
	cacheHandler.AddCacheTools(mcpServer)

	// Create SSE server
	sseServer := server.NewSSEServer(
		mcpServer,
		server.WithBaseURL(fmt.Sprintf("http://%s:%s", host, port)),
		server.WithKeepAlive(true),
	)

	addr := fmt.Sprintf("%s:%s", host, port)
	logrus.Printf("Starting content MCP SSE server on %s", addr)
	logrus.Printf("SSE endpoint: http://%s:%s/sse", host, port)
	logrus.Printf("Message endpoint: http://%s:%s/message", host, port)

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[MCP] Reception of termination signal, shutting down gracefully...")
		StopApp()
		os.Exit(0)
	}()

	if err := sseServer.Start(addr); err != nil {
		logrus.Fatalf("Failed to start SSE server: %v", err)
	}
}

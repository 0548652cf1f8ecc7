// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/scholar/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Scholar MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Scholar Decision Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: rank_applicants ---
	s.AddTool(mcp.NewTool("rank_applicants",
		mcp.WithDescription("Score an applicant dataset and return applicants ranked by final score with tier and award."),
		mcp.WithString("dataset_path", mcp.Description("Path to a .csv, .json or .parquet applicant dataset.")),
		mcp.WithString("seed", mcp.Description("Seed for the enhancer so that synthesized values are reproducible, as a decimal string (e.g. \"42\").")),
		mcp.WithString("tier", mcp.Description("Comma-separated tiers to keep (full, partial, none).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleRankApplicants)

	// --- 2. Tool: explain_applicant ---
	s.AddTool(mcp.NewTool("explain_applicant",
		mcp.WithDescription("Return the full score breakdown of one applicant, selected by ID or rank."),
		mcp.WithString("dataset_path", mcp.Description("Path to the applicant dataset.")),
		mcp.WithString("applicant_id", mcp.Description("Applicant identifier.")),
		mcp.WithNumber("rank", mcp.Description("1-based rank of the applicant.")),
		mcp.WithString("seed", mcp.Description("Seed for the enhancer, as a decimal string.")),
	), h.handleExplainApplicant)

	// --- 3. Tool: get_summary ---
	s.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Summarize a scored cohort: applicants, share and award total per tier."),
		mcp.WithString("dataset_path", mcp.Description("Path to the applicant dataset.")),
		mcp.WithString("seed", mcp.Description("Seed for the enhancer, as a decimal string.")),
	), h.handleGetSummary)

	// --- 4. Tool: get_weights ---
	s.AddTool(mcp.NewTool("get_weights",
		mcp.WithDescription("Return the active category and sub-factor weights, formulas, thresholds and awards."),
	), h.handleGetWeights)

	return s
}

// StartMCPServer starts the Scholar MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}

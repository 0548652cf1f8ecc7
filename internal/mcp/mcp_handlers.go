package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/scholar/core"
	"github.com/huangsam/scholar/core/algo"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/internal/outwriter"
	"github.com/huangsam/scholar/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// datasetConfig clones the base config and applies the dataset_path and seed arguments.
func (h *toolHandler) datasetConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("dataset_path", ""); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("invalid dataset_path: %w", err)
		}
		cfg.DatasetPath = abs
	}
	if cfg.DatasetPath == "" {
		return nil, errors.New("dataset_path is required")
	}

	seed, err := parseSeed(request.GetArguments()["seed"])
	if err != nil {
		return nil, err
	}
	if seed != nil {
		cfg.Seed = seed
	}
	if cfg.Engine == nil {
		cfg.Engine = algo.DefaultConfiguration()
	}
	return cfg, nil
}

// maxExactSeed is the largest integer a JSON number carries without loss.
const maxExactSeed = 1 << 53

// parseSeed reads the seed argument. Decimal strings cover the full uint64
// range; JSON numbers are accepted only while they are exact integers.
func parseSeed(raw any) (*uint64, error) {
	var seed uint64
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %q: must be a non-negative integer", v)
		}
		seed = s
	case float64:
		if v < 0 || v != math.Trunc(v) || v > maxExactSeed {
			return nil, fmt.Errorf("invalid seed %v: must be a non-negative integer up to 2^53 (pass larger seeds as a string)", v)
		}
		seed = uint64(v)
	case json.Number:
		s, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed %s: must be a non-negative integer", v)
		}
		seed = s
	default:
		return nil, fmt.Errorf("invalid seed %v: must be a string or an integer", v)
	}
	return &seed, nil
}

// rankedResults runs a scoring pass without recording history.
func (h *toolHandler) rankedResults(ctx context.Context, cfg *contract.Config) ([]schema.RankedApplicant, error) {
	output, err := core.GetRankedResults(core.WithoutHistory(ctx), cfg, h.mgr)
	if err != nil {
		return nil, err
	}
	return output.Ranked, nil
}

func (h *toolHandler) handleRankApplicants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.datasetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	var tiers []schema.Tier
	if t := request.GetString("tier", ""); t != "" {
		for part := range strings.SplitSeq(t, ",") {
			tier, err := schema.ParseTier(part)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
			}
			tiers = append(tiers, tier)
		}
	}
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("invalid parameters: limit must be non-negative"), nil
	}

	ranked, err := h.rankedResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	ranked = algo.TopN(algo.FilterByTier(ranked, tiers...), limit)
	return jsonResult(ranked)
}

func (h *toolHandler) handleExplainApplicant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.datasetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	id := strings.TrimSpace(request.GetString("applicant_id", ""))
	rank := request.GetInt("rank", 0)
	switch {
	case id == "" && rank <= 0:
		return mcp.NewToolResultError("invalid parameters: one of applicant_id or rank is required"), nil
	case id != "" && rank > 0:
		return mcp.NewToolResultError("invalid parameters: applicant_id and rank are mutually exclusive"), nil
	}

	ranked, err := h.rankedResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	applicant, err := core.SelectApplicant(ranked, id, rank)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(schema.NewExplainedApplicant(applicant))
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.datasetConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	ranked, err := h.rankedResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return jsonResult(algo.Summarize(ranked))
}

func (h *toolHandler) handleGetWeights(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine := h.baseCfg.Engine
	if engine == nil {
		engine = algo.DefaultConfiguration()
	}
	return jsonResult(outwriter.BuildWeightsRenderModel(engine))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

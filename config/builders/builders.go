package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/matchkit/config"
	"github.com/rushteam/matchkit/core"
	"github.com/rushteam/matchkit/feature"
	"github.com/rushteam/matchkit/filter"
	"github.com/rushteam/matchkit/model"
	"github.com/rushteam/matchkit/pipeline"
	"github.com/rushteam/matchkit/pkg/conv"
	"github.com/rushteam/matchkit/rank"
	"github.com/rushteam/matchkit/rerank"
	"github.com/rushteam/matchkit/retrieval"
)

func init() {
	config.Register("retrieval.fanout", BuildFanoutNode)
	config.Register("retrieval.pinned", BuildPinnedNode)
	config.Register("score.match", BuildMatchNode)
	config.Register("curate.diversity", BuildCuratorNode)
	config.Register("curate.topn", BuildTopNNode)
	config.Register("filter", BuildFilterNode)
	config.Register("feature.enrich", BuildFeatureEnrichNode)
}

func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]retrieval.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		switch sourceType {
		case "pinned":
			ids := conv.SliceAnyToString(sourceMap["ids"])
			if ids == nil {
				ids = []string{}
			}
			sources = append(sources, &retrieval.Pinned{IDs: ids})
		case "catalog", "bestseller", "color_ann":
			// 这些源依赖 Store / VectorService，纯配置构建不了；
			// 接入方用 config.Register 注册带基础设施闭包的自定义 builder
			return nil, fmt.Errorf("source type %q requires a store; register a custom builder via config.Register", sourceType)
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &retrieval.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", ""),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func BuildPinnedNode(cfg map[string]interface{}) (pipeline.Node, error) {
	ids := conv.SliceAnyToString(cfg["ids"])
	if ids == nil {
		ids = []string{}
	}
	return &retrieval.Pinned{IDs: ids}, nil
}

func BuildMatchNode(cfg map[string]interface{}) (pipeline.Node, error) {
	weights := core.DefaultWeights()
	if weightsMap, ok := cfg["weights"].(map[string]interface{}); ok {
		weights = core.ScoringWeights{
			Color:        conv.ConfigGetFloat64(weightsMap, "color", 0),
			Texture:      conv.ConfigGetFloat64(weightsMap, "texture", 0),
			Availability: conv.ConfigGetFloat64(weightsMap, "availability", 0),
			Popularity:   conv.ConfigGetFloat64(weightsMap, "popularity", 0),
			Construction: conv.ConfigGetFloat64(weightsMap, "construction", 0),
		}
	}
	scorer, err := model.NewMatchScorer(weights)
	if err != nil {
		return nil, err
	}
	return &rank.MatchNode{Scorer: scorer}, nil
}

func BuildCuratorNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Curator{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "length":
			filters = append(filters, &filter.LengthFilter{
				Lengths: conv.SliceAnyToString(filterMap["lengths"]),
			})
		case "price":
			// min/max 区分"未配置"和"配置为 0"，只有出现过的键才生效
			pf := &filter.PriceFilter{}
			if raw, exists := filterMap["min"]; exists {
				if min, ok := conv.ToFloat64(raw); ok {
					pf.Min = &min
				}
			}
			if raw, exists := filterMap["max"]; exists {
				if max, ok := conv.ToFloat64(raw); ok {
					pf.Max = &max
				}
			}
			filters = append(filters, pf)
		case "availability":
			filters = append(filters, &filter.AvailabilityFilter{})
		case "style":
			filters = append(filters, &filter.StyleFilter{
				Style: conv.ConfigGet(filterMap, "style", ""),
			})
		case "blacklist":
			ids := conv.SliceAnyToString(filterMap["product_ids"])
			if ids == nil {
				ids = []string{}
			}
			key := conv.ConfigGet(filterMap, "key", "")
			filters = append(filters, filter.NewBlacklistFilter(ids, nil, key))
		case "user_block":
			keyPrefix := conv.ConfigGet(filterMap, "key_prefix", "")
			filters = append(filters, filter.NewUserBlockFilter(nil, keyPrefix))
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			rf, err := filter.NewRuleFilter(expr)
			if err != nil {
				return nil, fmt.Errorf("rule filter: %w", err)
			}
			filters = append(filters, rf)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildFeatureEnrichNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &feature.EnrichNode{
		TitleFallback: conv.ConfigGet(cfg, "title_fallback", true),
	}, nil
}

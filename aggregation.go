package clauso

// AggregationNode describes one level of a declarative aggregation tree.
// Each node becomes a nested bucket scoped to Path; children become
// sub-aggregations merged under the node's key. When FieldType is set the
// node additionally emits a terms sub-aggregation on its path, using the
// .keyword subfield for text fields.
type AggregationNode struct {
	Key       string
	Path      string
	FieldType string
	Children  []AggregationNode
}

// BuildAggregations expands an aggregation tree into the engine's aggs
// document. Every sibling at every level is expanded independently and
// merged under its parent key.
func BuildAggregations(nodes []AggregationNode) map[string]any {
	aggs := make(map[string]any, len(nodes))
	for _, node := range nodes {
		agg := map[string]any{
			"nested": map[string]any{"path": node.Path},
		}
		sub := map[string]any{}
		if node.FieldType != "" {
			field := node.Path
			if node.FieldType == "text" {
				field += ".keyword"
			}
			sub[node.Key+"_terms"] = map[string]any{
				"terms": map[string]any{"field": field},
			}
		}
		for key, child := range BuildAggregations(node.Children) {
			sub[key] = child
		}
		if len(sub) > 0 {
			agg["aggs"] = sub
		}
		aggs[node.Key] = agg
	}
	return aggs
}

func copyAggregationNodes(nodes []AggregationNode) []AggregationNode {
	if nodes == nil {
		return nil
	}
	out := make([]AggregationNode, len(nodes))
	for i, n := range nodes {
		n.Children = copyAggregationNodes(n.Children)
		out[i] = n
	}
	return out
}

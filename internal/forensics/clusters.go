package forensics

import (
	"context"
	"sync"

	"originality/internal/chunk"
	"originality/internal/pipeline"
	"originality/internal/similarity"
)

const (
	minClusterSegments = 3
	paraphraseCosine   = 0.8
)

type Cluster struct {
	SegmentA   int     `json:"segment_a"`
	SegmentB   int     `json:"segment_b"`
	Similarity float64 `json:"similarity"`
}

type Semantic struct {
	Clusters       []Cluster `json:"clusters"`
	ParaphraseRisk float64   `json:"paraphrase_risk"`
}

// SemanticClusters embeds every segment and reports the pairs whose cosine
// exceeds 0.8. Any embedding failure yields an empty result.
func SemanticClusters(ctx context.Context, embedder similarity.Embedder, segments []chunk.Segment, workers int) Semantic {
	empty := Semantic{Clusters: []Cluster{}}
	if embedder == nil || !embedder.Available() || len(segments) < minClusterSegments {
		return empty
	}

	pos := make(map[int]int, len(segments))
	for i, seg := range segments {
		pos[seg.ID] = i
	}

	vectors := make([][]float64, len(segments))
	var mu sync.Mutex
	errs := pipeline.AnalyzeSegments(segments, workers, func(seg chunk.Segment) error {
		vec, err := embedder.Encode(ctx, seg.Text)
		if err != nil {
			return err
		}
		mu.Lock()
		vectors[pos[seg.ID]] = vec
		mu.Unlock()
		return nil
	})
	if len(errs) > 0 || ctx.Err() != nil {
		return empty
	}

	out := empty
	for i := range segments {
		for j := i + 1; j < len(segments); j++ {
			sim := similarity.Cosine(vectors[i], vectors[j])
			if sim > paraphraseCosine {
				out.Clusters = append(out.Clusters, Cluster{
					SegmentA:   segments[i].ID,
					SegmentB:   segments[j].ID,
					Similarity: round(sim, 3),
				})
			}
		}
	}
	out.ParaphraseRisk = round(float64(len(out.Clusters))/float64(len(segments)), 3)
	return out
}

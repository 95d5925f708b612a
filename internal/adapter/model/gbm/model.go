// Package gbm scores trips with a gradient-boosted regression tree ensemble
// exported to JSON.
package gbm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/Temutjin2k/fare-predictor/internal/domain/models"
	"github.com/Temutjin2k/fare-predictor/internal/domain/types"
)

var (
	ErrEmptyEnsemble = errors.New("ensemble has no trees")
	ErrInvalidTree   = errors.New("invalid tree")
	ErrRowWidth      = errors.New("feature row width does not match model")
)

type (
	// Artifact is the on-disk representation of the ensemble.
	Artifact struct {
		Name           string   `json:"name"`
		Version        string   `json:"version"`
		FeatureNames   []string `json:"feature_names"`
		InitPrediction float64  `json:"init_prediction"`
		LearningRate   float64  `json:"learning_rate"`
		Trees          []Tree   `json:"trees"`
	}

	Tree struct {
		Nodes []Node `json:"nodes"`
	}

	// Node is either a split (Feature, Threshold, Left, Right) or a leaf
	// (Leaf set, Value). Rows with x <= Threshold go left.
	Node struct {
		Leaf      bool    `json:"leaf,omitempty"`
		Value     float64 `json:"value,omitempty"`
		Feature   int     `json:"feature,omitempty"`
		Threshold float64 `json:"threshold,omitempty"`
		Left      int     `json:"left,omitempty"`
		Right     int     `json:"right,omitempty"`
	}
)

// Model is a loaded, validated ensemble. It is immutable and safe for
// concurrent use.
type Model struct {
	art Artifact
}

// Open reads and validates the artifact at path.
func Open(ctx context.Context, path string) (*Model, error) {
	const op = "gbm.Open"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", op, path, err)
	}

	m, err := New(art)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// New validates art against the feature schema and tree shape.
func New(art Artifact) (*Model, error) {
	if !slices.Equal(art.FeatureNames, models.FeatureNames()) {
		return nil, fmt.Errorf("%w: model expects %v, service provides %v",
			types.ErrSchemaMismatch, art.FeatureNames, models.FeatureNames())
	}
	if len(art.Trees) == 0 {
		return nil, ErrEmptyEnsemble
	}
	for i, tree := range art.Trees {
		if err := tree.validate(len(art.FeatureNames)); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return &Model{art: art}, nil
}

// validate requires children to come after their parent, which rules out cycles.
func (t Tree) validate(width int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalidTree)
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return fmt.Errorf("%w: node %d splits on feature %d", ErrInvalidTree, i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("%w: node %d has children %d/%d", ErrInvalidTree, i, n.Left, n.Right)
		}
	}
	return nil
}

func (t Tree) score(values []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if values[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Predict returns init_prediction + learning_rate * sum of tree outputs.
func (m *Model) Predict(ctx context.Context, row models.FeatureRow) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(row.Values) != len(m.art.FeatureNames) {
		return 0, fmt.Errorf("%w: got %d values, want %d", ErrRowWidth, len(row.Values), len(m.art.FeatureNames))
	}
	if len(row.Names) > 0 && !slices.Equal(row.Names, m.art.FeatureNames) {
		return 0, fmt.Errorf("%w: row columns %v", types.ErrSchemaMismatch, row.Names)
	}

	var sum float64
	for _, tree := range m.art.Trees {
		sum += tree.score(row.Values)
	}
	return m.art.InitPrediction + m.art.LearningRate*sum, nil
}

func (m *Model) Info() models.ModelInfo {
	return models.ModelInfo{
		Name:         m.art.Name,
		Version:      m.art.Version,
		FeatureNames: slices.Clone(m.art.FeatureNames),
	}
}

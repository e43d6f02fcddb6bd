package estimator

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// nutrientModel is a bag-of-words linear model over ingredient name tokens.
// It is trained offline; the engine only loads and applies it. Two artifacts
// are required: a vocabulary (token -> column index) and per-nutrient weight
// rows with an intercept. Either file missing selects the heuristic tier.
type nutrientModel struct {
	vocabulary map[string]int
	// weights is one row per predicted nutrient, in the fixed order
	// calories, protein, carbohydrates, fat, fiber, sugar, sodium,
	// cholesterol, saturated fat. Each row has len(vocabulary) columns.
	weights    [][]float64
	intercepts []float64
}

const modelOutputs = 9

type vocabularyArtifact struct {
	Tokens map[string]int `json:"tokens"`
}

type weightsArtifact struct {
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
}

// loadModel reads the two artifacts. A missing file is reported via
// os.IsNotExist so the caller can fall through silently; a malformed file is
// a real error worth logging.
func loadModel(modelPath, vocabularyPath string) (*nutrientModel, error) {
	vocabData, err := os.ReadFile(vocabularyPath)
	if err != nil {
		return nil, err
	}
	weightData, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, err
	}

	var vocab vocabularyArtifact
	if err := json.Unmarshal(vocabData, &vocab); err != nil {
		return nil, fmt.Errorf("parse vocabulary artifact: %w", err)
	}
	var wa weightsArtifact
	if err := json.Unmarshal(weightData, &wa); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	if len(wa.Weights) != modelOutputs || len(wa.Intercepts) != modelOutputs {
		return nil, fmt.Errorf("model artifact has %d outputs, want %d", len(wa.Weights), modelOutputs)
	}
	for i, row := range wa.Weights {
		if len(row) != len(vocab.Tokens) {
			return nil, fmt.Errorf("weight row %d has %d columns, vocabulary has %d tokens", i, len(row), len(vocab.Tokens))
		}
	}
	// Column indices must address the weight rows, or predict would index
	// out of range on a loadable artifact.
	for token, col := range vocab.Tokens {
		if col < 0 || col >= len(vocab.Tokens) {
			return nil, fmt.Errorf("vocabulary token %q maps to column %d, want 0..%d", token, col, len(vocab.Tokens)-1)
		}
	}

	return &nutrientModel{
		vocabulary: vocab.Tokens,
		weights:    wa.Weights,
		intercepts: wa.Intercepts,
	}, nil
}

// predict vectorizes the name (binary token presence) and evaluates the
// nine linear outputs.
func (m *nutrientModel) predict(name string) [modelOutputs]float64 {
	var out [modelOutputs]float64
	copy(out[:], m.intercepts)

	for _, token := range strings.Fields(strings.ToLower(name)) {
		col, ok := m.vocabulary[token]
		if !ok {
			continue
		}
		for i := 0; i < modelOutputs; i++ {
			out[i] += m.weights[i][col]
		}
	}
	return out
}

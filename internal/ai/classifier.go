package ai

import "sort"

// Label es una etiqueta de clasificación con su confianza.
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Vocabulario de etiquetas del clasificador simulado.
var classifierVocab = []string{
	"portrait", "full-body", "outdoor", "studio", "black-and-white",
	"fashion", "glamour", "artistic", "editorial", "lifestyle",
}

// Classifier simula un clasificador de imágenes.
type Classifier struct{}

func NewClassifier() *Classifier { return &Classifier{} }

// Classify devuelve hasta maxLabels etiquetas ordenadas por confianza.
// Determinista para un mismo imageID.
func (c *Classifier) Classify(imageID string, maxLabels int) []Label {
	if maxLabels <= 0 || maxLabels > len(classifierVocab) {
		maxLabels = 3
	}
	r := rng(imageID + ":classify")

	labels := make([]Label, 0, len(classifierVocab))
	for _, name := range classifierVocab {
		labels = append(labels, Label{Name: name, Confidence: r.Float64()})
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Confidence > labels[j].Confidence })
	return labels[:maxLabels]
}

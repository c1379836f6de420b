package ai

// QualityReport es el resultado de la evaluación de calidad simulada.
type QualityReport struct {
	Sharpness   float64 `json:"sharpness"`
	Exposure    float64 `json:"exposure"`
	Composition float64 `json:"composition"`
	Overall     float64 `json:"overall"`
	Acceptable  bool    `json:"acceptable"`
	Issues      []string `json:"issues"`
}

// QualityAssessor simula la evaluación de calidad de imagen.
type QualityAssessor struct {
	Thresholds Thresholds
}

func NewQualityAssessor(t Thresholds) *QualityAssessor {
	return &QualityAssessor{Thresholds: t}
}

// Assess puntúa sharpness/exposure/composition contra los thresholds.
// Determinista para un mismo imageID.
func (q *QualityAssessor) Assess(imageID string) QualityReport {
	rep := QualityReport{
		Sharpness:   score(imageID, "sharpness"),
		Exposure:    score(imageID, "exposure"),
		Composition: score(imageID, "composition"),
	}
	rep.Overall = (rep.Sharpness + rep.Exposure + rep.Composition) / 3

	if rep.Sharpness < q.Thresholds.MinSharpness {
		rep.Issues = append(rep.Issues, "low_sharpness")
	}
	if rep.Exposure < q.Thresholds.MinExposure {
		rep.Issues = append(rep.Issues, "poor_exposure")
	}
	if rep.Overall < q.Thresholds.MinComposite {
		rep.Issues = append(rep.Issues, "low_overall_score")
	}
	rep.Acceptable = len(rep.Issues) == 0
	return rep
}

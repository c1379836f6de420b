package ai

import "fmt"

// Estados de moderación.
const (
	StatusApproved = "approved"
	StatusFlagged  = "flagged"
	StatusRejected = "rejected"
)

// Clases de pose del análisis simulado.
var poseClasses = []string{"standing", "sitting", "reclining", "action", "closeup"}

// ModerationResult es la salida del pipeline de moderación simulado.
type ModerationResult struct {
	NudityScore         float64  `json:"nudity_score"`
	DetectedParts       []string `json:"detected_parts"`
	PoseClassification  string   `json:"pose_classification"`
	ExplicitPoseScore   float64  `json:"explicit_pose_score"`
	GeneratedCaption    string   `json:"generated_caption"`
	PolicyViolations    []string `json:"policy_violations"`
	ModerationStatus    string   `json:"moderation_status"`
	HumanReviewRequired bool     `json:"human_review_required"`
	ConfidenceScore     float64  `json:"confidence_score"`
}

// Moderator simula el pipeline de moderación de contenido.
type Moderator struct {
	Thresholds Thresholds
}

func NewModerator(t Thresholds) *Moderator {
	return &Moderator{Thresholds: t}
}

// Moderate corre el pipeline sobre una imagen. Determinista por imageID.
func (m *Moderator) Moderate(imageID, filename string) ModerationResult {
	r := rng(imageID + ":moderate")

	res := ModerationResult{
		NudityScore:        r.Float64(),
		PoseClassification: poseClasses[r.Intn(len(poseClasses))],
		ExplicitPoseScore:  r.Float64(),
		ConfidenceScore:    0.70 + r.Float64()*0.29,
	}
	res.GeneratedCaption = fmt.Sprintf("A %s portrait photograph", res.PoseClassification)
	if filename != "" {
		res.GeneratedCaption = fmt.Sprintf("A %s photograph (%s)", res.PoseClassification, filename)
	}

	if res.NudityScore >= m.Thresholds.NudityFlag {
		res.DetectedParts = append(res.DetectedParts, "torso_exposed")
		res.PolicyViolations = append(res.PolicyViolations, "nudity_threshold")
	}
	if res.ExplicitPoseScore >= m.Thresholds.ExplicitPose {
		res.PolicyViolations = append(res.PolicyViolations, "explicit_pose")
	}

	switch {
	case res.NudityScore >= m.Thresholds.NudityReject:
		res.ModerationStatus = StatusRejected
		res.HumanReviewRequired = false
	case len(res.PolicyViolations) > 0:
		res.ModerationStatus = StatusFlagged
		res.HumanReviewRequired = true
	default:
		res.ModerationStatus = StatusApproved
		res.HumanReviewRequired = false
	}
	return res
}

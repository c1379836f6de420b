// Package ai contiene los servicios "AI" simulados de la plataforma:
// clasificación de imágenes, evaluación de calidad, pipeline de moderación,
// asistente conversacional y detector de cuellos de botella.
//
// Ninguno ejecuta inferencia real: los scores son pseudo-aleatorios
// deterministas (seed derivado del ID de la imagen) evaluados contra
// thresholds configurados. El mismo input produce siempre el mismo output.
package ai

import (
	"hash/fnv"
	"math/rand"
)

// Thresholds son los umbrales del pipeline de moderación y calidad.
type Thresholds struct {
	// Moderación
	NudityFlag   float64 // score >= NudityFlag → flagged (revisión humana)
	NudityReject float64 // score >= NudityReject → rejected
	ExplicitPose float64 // explicit_pose_score >= → flagged

	// Calidad
	MinSharpness float64
	MinExposure  float64
	MinComposite float64
}

// DefaultThresholds replica los valores del pipeline original.
var DefaultThresholds = Thresholds{
	NudityFlag:   0.60,
	NudityReject: 0.85,
	ExplicitPose: 0.70,

	MinSharpness: 0.40,
	MinExposure:  0.35,
	MinComposite: 0.50,
}

// rng devuelve un generador determinista para el seed dado.
// Todos los simuladores derivan sus scores de aquí: mismo input, mismo output.
func rng(seed string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// score devuelve un valor en [0,1) determinista para seed+aspect.
func score(seed, aspect string) float64 {
	return rng(seed + ":" + aspect).Float64()
}

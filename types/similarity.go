/*
 * Copyright 2025 The RepoQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"fmt"
	"math"
)

// ScoringFunction identifies the database-native scoring function whose raw
// result a SimilarityNormalizer maps into the normalized [0,1] range.
type ScoringFunction int

const (
	// ScoringUnspecified leaves scores untouched.
	ScoringUnspecified ScoringFunction = iota
	// ScoringEuclidean for euclidean_distance(...) scores.
	ScoringEuclidean
	// ScoringCosine for cosine_distance(...) scores.
	ScoringCosine
	// ScoringDot for negative_inner_product(...) scores.
	ScoringDot
)

// String returns the scoring function name.
func (f ScoringFunction) String() string {
	switch f {
	case ScoringEuclidean:
		return "EUCLIDEAN"
	case ScoringCosine:
		return "COSINE"
	case ScoringDot:
		return "DOT"
	default:
		return "UNSPECIFIED"
	}
}

// SimilarityNormalizer converts between a database-native score and a
// normalized [0,1] similarity value. Normalizers are stateless; the package
// exposes one constant normalizer per scoring function.
type SimilarityNormalizer struct {
	function   ScoringFunction
	similarity func(float64) float64
	score      func(float64) float64
}

var (
	// IdentityNormalizer passes scores through unchanged.
	IdentityNormalizer = SimilarityNormalizer{
		function:   ScoringUnspecified,
		similarity: func(x float64) float64 { return x },
		score:      func(x float64) float64 { return x },
	}

	// EuclideanNormalizer maps euclidean distances onto [0,1].
	EuclideanNormalizer = SimilarityNormalizer{
		function:   ScoringEuclidean,
		similarity: func(x float64) float64 { return 1 / (1.0 + math.Pow(x, 2)) },
		score: func(x float64) float64 {
			if x == 0 {
				return math.MaxFloat32
			}
			return math.Sqrt((1 / x) - 1)
		},
	}

	// CosineNormalizer maps cosine distances onto [0,1].
	CosineNormalizer = SimilarityNormalizer{
		function:   ScoringCosine,
		similarity: func(x float64) float64 { return (1.0 + (1 - x)) / 2.0 },
		score:      func(x float64) float64 { return 1 - ((x * 2) - 1) },
	}

	// DotNormalizer maps negative-inner-product scores onto [0,1].
	DotNormalizer = SimilarityNormalizer{
		function:   ScoringDot,
		similarity: func(x float64) float64 { return (1 - x) / 2 },
		score:      func(x float64) float64 { return 1 - (x * 2) },
	}
)

// NormalizerFor looks up the SimilarityNormalizer for a scoring function.
// Unknown functions are an error rather than silently passing scores through.
func NormalizerFor(f ScoringFunction) (SimilarityNormalizer, error) {
	switch f {
	case ScoringUnspecified:
		return IdentityNormalizer, nil
	case ScoringEuclidean:
		return EuclideanNormalizer, nil
	case ScoringCosine:
		return CosineNormalizer, nil
	case ScoringDot:
		return DotNormalizer, nil
	default:
		return SimilarityNormalizer{}, fmt.Errorf("no similarity normalizer for scoring function %d", int(f))
	}
}

// Function returns the scoring function this normalizer translates.
func (n SimilarityNormalizer) Function() ScoringFunction {
	return n.function
}

// Similarity computes the normalized [0,1] similarity from a raw database score.
func (n SimilarityNormalizer) Similarity(score float64) float64 {
	return n.similarity(score)
}

// Score computes the raw database score for a normalized similarity value.
func (n SimilarityNormalizer) Score(similarity float64) float64 {
	return n.score(similarity)
}

// String describes the normalizer's score range for diagnostics.
func (n SimilarityNormalizer) String() string {
	return fmt.Sprintf("%s Normalizer: Similarity[0 to 1] -> Score[%f to %f]",
		n.function, n.Score(0), n.Score(1))
}

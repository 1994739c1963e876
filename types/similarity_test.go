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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEuclideanNormalizer(t *testing.T) {
	// zero distance is a perfect match
	assert.InDelta(t, 1.0, EuclideanNormalizer.Similarity(0), 1e-9)
	assert.InDelta(t, 0.5, EuclideanNormalizer.Similarity(1), 1e-9)
	assert.InDelta(t, 0.2, EuclideanNormalizer.Similarity(2), 1e-9)

	assert.InDelta(t, 0.0, EuclideanNormalizer.Score(1), 1e-9)
	assert.InDelta(t, 1.0, EuclideanNormalizer.Score(0.5), 1e-9)
	assert.Equal(t, float64(math.MaxFloat32), EuclideanNormalizer.Score(0))
}

func TestCosineNormalizer(t *testing.T) {
	assert.InDelta(t, 1.0, CosineNormalizer.Similarity(0), 1e-9)
	assert.InDelta(t, 0.5, CosineNormalizer.Similarity(1), 1e-9)
	assert.InDelta(t, 0.0, CosineNormalizer.Similarity(2), 1e-9)

	assert.InDelta(t, 0.0, CosineNormalizer.Score(1), 1e-9)
	assert.InDelta(t, 1.0, CosineNormalizer.Score(0.5), 1e-9)
	assert.InDelta(t, 2.0, CosineNormalizer.Score(0), 1e-9)
}

func TestDotNormalizer(t *testing.T) {
	assert.InDelta(t, 0.5, DotNormalizer.Similarity(0), 1e-9)
	assert.InDelta(t, 1.0, DotNormalizer.Similarity(-1), 1e-9)
	assert.InDelta(t, 0.0, DotNormalizer.Similarity(1), 1e-9)

	assert.InDelta(t, -1.0, DotNormalizer.Score(1), 1e-9)
	assert.InDelta(t, 1.0, DotNormalizer.Score(0), 1e-9)
}

func TestIdentityNormalizer(t *testing.T) {
	for _, v := range []float64{0, 0.25, 1, 42} {
		assert.Equal(t, v, IdentityNormalizer.Similarity(v))
		assert.Equal(t, v, IdentityNormalizer.Score(v))
	}
}

func TestNormalizersRoundTrip(t *testing.T) {
	normalizers := []SimilarityNormalizer{EuclideanNormalizer, CosineNormalizer, DotNormalizer}
	for _, n := range normalizers {
		for _, sim := range []float64{0.1, 0.25, 0.5, 0.75, 0.99} {
			score := n.Score(sim)
			assert.InDelta(t, sim, n.Similarity(score), 1e-9,
				"%s similarity %f", n.Function(), sim)
		}
	}
}

func TestNormalizerFor(t *testing.T) {
	cases := []struct {
		function ScoringFunction
		want     SimilarityNormalizer
	}{
		{ScoringUnspecified, IdentityNormalizer},
		{ScoringEuclidean, EuclideanNormalizer},
		{ScoringCosine, CosineNormalizer},
		{ScoringDot, DotNormalizer},
	}
	for _, tc := range cases {
		n, err := NormalizerFor(tc.function)
		require.NoError(t, err)
		assert.Equal(t, tc.want.Function(), n.Function())
	}

	_, err := NormalizerFor(ScoringFunction(42))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no similarity normalizer")
}

func TestScoringFunctionString(t *testing.T) {
	assert.Equal(t, "EUCLIDEAN", ScoringEuclidean.String())
	assert.Equal(t, "COSINE", ScoringCosine.String())
	assert.Equal(t, "DOT", ScoringDot.String())
	assert.Equal(t, "UNSPECIFIED", ScoringUnspecified.String())
}

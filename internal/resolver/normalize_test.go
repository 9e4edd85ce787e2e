// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		target        string
		wantType      IdentifierType
		wantCanonical string
	}{
		{"2301.07041", TypeArxiv, "2301.07041"},
		{"arXiv:2301.07041", TypeArxiv, "2301.07041"},
		{"2301.07041v3", TypeArxiv, "2301.07041"},
		{"https://arxiv.org/abs/2301.07041", TypeArxiv, "2301.07041"},
		{"https://arxiv.org/pdf/2301.07041v2", TypeArxiv, "2301.07041"},
		{"10.1145/1234567.1234568", TypeDOI, "10.1145/1234567.1234568"},
		{"https://doi.org/10.1145/1234567.1234568", TypeDOI, "10.1145/1234567.1234568"},
		{"https://example.com/papers/attention", TypeURL, "https://example.com/papers/attention"},
		{"not an identifier", TypeUnknown, "not an identifier"},
		{"ftp://example.com/file", TypeUnknown, "ftp://example.com/file"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			idType, canonical := Classify(tt.target)
			assert.Equal(t, tt.wantType, idType)
			assert.Equal(t, tt.wantCanonical, canonical)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"arXiv:2301.07041", "arxiv:2301.07041"},
		{"https://arxiv.org/abs/2301.07041v2", "arxiv:2301.07041"},
		{"https://doi.org/10.1145/1234567.1234568", "doi:10.1145/1234567.1234568"},
		{"https://EXAMPLE.com/x/", "example.com/x"},
		{"http://example.com/x", "example.com/x"},
		{"https://example.com/x?utm_source=feed#sec-2", "example.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, err := Normalize(tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeSchemeAndCaseVariantsCollide(t *testing.T) {
	a, err := Normalize("https://EXAMPLE.com/x/")
	require.NoError(t, err)
	b, err := Normalize("https://example.com/x")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalizeMalformed(t *testing.T) {
	for _, target := range []string{"", "   ", "just some words", "mailto:author@example.com"} {
		_, err := Normalize(target)
		assert.Error(t, err, "target %q", target)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolver matches unresolved citation targets against known
// resource identifiers. See docs/ARCHITECTURE § Citation Resolver.
package resolver

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// IdentifierType classifies a citation target string.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypeArxiv
	TypeDOI
	TypeURL
)

func (t IdentifierType) String() string {
	switch t {
	case TypeArxiv:
		return "arxiv"
	case TypeDOI:
		return "doi"
	case TypeURL:
		return "url"
	default:
		return "unknown"
	}
}

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`(?i)^(?:arxiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)

// arxivURLPattern matches arXiv abs/pdf URLs.
var arxivURLPattern = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5})(?:v\d+)?`)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// doiURLPattern matches doi.org resolver URLs.
var doiURLPattern = regexp.MustCompile(`(?i)doi\.org/(10\.\d{4,9}/\S+)$`)

// Classify determines the identifier type of a citation target and
// returns its canonical form: the bare ID for arXiv (version stripped),
// the bare DOI for DOIs, and the input for URLs.
func Classify(target string) (IdentifierType, string) {
	target = strings.TrimSpace(target)

	if m := arxivPattern.FindStringSubmatch(target); m != nil {
		return TypeArxiv, m[1]
	}
	if m := arxivURLPattern.FindStringSubmatch(target); m != nil {
		return TypeArxiv, m[1]
	}

	if doiPattern.MatchString(target) {
		return TypeDOI, target
	}
	if m := doiURLPattern.FindStringSubmatch(target); m != nil {
		return TypeDOI, m[1]
	}

	if u, err := url.Parse(target); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return TypeURL, target
	}

	return TypeUnknown, target
}

// Normalize reduces a citation target or resource identifier to a
// comparable key. arXiv and DOI forms normalize to "arxiv:ID" and
// "doi:ID" so URL and bare spellings match; plain URLs are lowercased
// with the protocol, query string, fragment, and trailing slashes
// stripped. Returns an error for targets that are neither a recognized
// identifier nor a parseable URL.
func Normalize(target string) (string, error) {
	idType, canonical := Classify(target)

	switch idType {
	case TypeArxiv:
		return "arxiv:" + strings.ToLower(canonical), nil
	case TypeDOI:
		return "doi:" + strings.ToLower(canonical), nil
	case TypeURL:
		u, err := url.Parse(strings.TrimSpace(target))
		if err != nil {
			return "", fmt.Errorf("parsing url %q: %w", target, err)
		}
		key := strings.ToLower(u.Host + u.Path)
		key = strings.TrimRight(key, "/")
		if key == "" {
			return "", fmt.Errorf("url %q has no host or path", target)
		}
		return key, nil
	default:
		return "", fmt.Errorf("unrecognized identifier %q", target)
	}
}

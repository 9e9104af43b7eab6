// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metadata rewrites a source granule's CMR XML document into the
// template the VI metadata generator completes. URL and file references in
// the source document describe HLS files, not VI files, so they are stripped
// and re-populated downstream during ingestion.
package metadata

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/NASA-IMPACT/hls-vi-historical/model"
)

// dropSubtrees names the element types that are specific to the source
// granule and must be removed along with their entire subtrees. This table is
// the sanitation policy; adding an element name here is the only change
// needed to strip a new source-specific reference type.
var dropSubtrees = map[string]bool{
	"OnlineAccessURL":          true,
	"OnlineResource":           true,
	"AssociatedBrowseImageUrl": true,
	"ProviderBrowseUrl":        true,
	"AdditionalFile":           true,
}

// requiredParents names the container elements the downstream metadata
// generator requires to exist, even when sanitation has emptied them. At
// least one must be present in a compatible source document.
var requiredParents = map[string]bool{
	"OnlineAccessURLs":          true,
	"OnlineResources":           true,
	"AssociatedBrowseImageUrls": true,
}

// SanitizeFile rewrites the CMR XML document at path in place
func SanitizeFile(path string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return model.Errorf(model.MalformedMetadataDocument, "parsing %s: %v", path, err)
	}
	if err := Sanitize(doc); err != nil {
		return err
	}
	// Empty elements must serialize as <x></x>, never <x/>: the SAX parser
	// feeding the metadata generator rejects collapsed empty elements.
	doc.WriteSettings.CanonicalEndTags = true
	return doc.WriteToFile(path)
}

// Sanitize applies the sanitation policy to a parsed document: every element
// and attribute copies through untouched except the dropSubtrees element
// types, which are removed entirely. Required parent containers are retained
// even when emptied, with leftover whitespace-only text stripped. Sanitizing
// an already sanitized document is a no-op.
func Sanitize(doc *etree.Document) error {
	root := doc.Root()
	if root == nil {
		return model.Errorf(model.MalformedMetadataDocument, "document has no root element")
	}

	if countRequiredParents(root) == 0 {
		return model.Errorf(model.MalformedMetadataDocument,
			"document contains none of the required container elements; incompatible source schema")
	}

	prune(root)
	normalizeChecksumAlgorithms(root)
	return nil
}

func countRequiredParents(el *etree.Element) int {
	count := 0
	if requiredParents[el.Tag] {
		count++
	}
	for _, child := range el.ChildElements() {
		count += countRequiredParents(child)
	}
	return count
}

// prune removes dropped subtrees and tidies required parents, depth-first
func prune(el *etree.Element) {
	for _, child := range el.ChildElements() {
		if dropSubtrees[child.Tag] {
			el.RemoveChild(child)
		} else {
			prune(child)
		}
	}

	if requiredParents[el.Tag] && len(el.ChildElements()) == 0 {
		stripWhitespaceText(el)
	}
}

// stripWhitespaceText removes whitespace-only character data left behind
// after an element's children were dropped
func stripWhitespaceText(el *etree.Element) {
	for _, token := range append([]etree.Token(nil), el.Child...) {
		if chardata, ok := token.(*etree.CharData); ok && strings.TrimSpace(chardata.Data) == "" {
			el.RemoveChild(token)
		}
	}
}

// normalizeChecksumAlgorithms rewrites SHA512 algorithm labels to the dashed
// form; the granule schema downstream only permits SHA-512 and validation of
// the generated VI metadata fails when the undashed label survives
func normalizeChecksumAlgorithms(el *etree.Element) {
	if el.Tag == "Algorithm" && strings.TrimSpace(el.Text()) == "SHA512" {
		el.SetText("SHA-512")
	}
	for _, child := range el.ChildElements() {
		normalizeChecksumAlgorithms(child)
	}
}

// Package combine reads and writes COMBINE archives (OMEX files): zip
// containers whose manifest.xml declares the location and format of every
// bundled file. The package handles the container only; interpreting the
// contents (SED-ML documents, SBML models) is left to callers.
package combine

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// Format URIs and URI prefixes used to recognize archive contents.
const (
	FormatSEDML    = "http://identifiers.org/combine.specifications/sed-ml"
	FormatSBML     = "http://identifiers.org/combine.specifications/sbml"
	FormatOMEX     = "http://identifiers.org/combine.specifications/omex"
	FormatManifest = "http://identifiers.org/combine.specifications/omex-manifest"
)

// Content is one entry of an archive: a file location (relative to the
// archive root) and the format URI describing it.
type Content struct {
	Location string
	Format   string
	Master   bool
}

// IsSEDML reports whether the content is a SED-ML document. Format URIs may
// carry a level/version suffix (…/sed-ml.level-1.version-3), so matching is
// by prefix.
func (c Content) IsSEDML() bool {
	return strings.HasPrefix(c.Format, FormatSEDML)
}

// IsSBML reports whether the content is an SBML model.
func (c Content) IsSBML() bool {
	return strings.HasPrefix(c.Format, FormatSBML)
}

// Archive is the parsed manifest of a COMBINE archive. Locations are slash
// separated and relative to the archive root.
type Archive struct {
	Contents []Content
}

// SEDMLContents returns the archive's SED-ML documents in manifest order.
func (a *Archive) SEDMLContents() []Content {
	var out []Content
	for _, c := range a.Contents {
		if c.IsSEDML() {
			out = append(out, c)
		}
	}
	return out
}

// manifest.xml structure.
type xmlManifest struct {
	XMLName xml.Name     `xml:"omexManifest"`
	Xmlns   string       `xml:"xmlns,attr"`
	Entries []xmlContent `xml:"content"`
}

type xmlContent struct {
	Location string `xml:"location,attr"`
	Format   string `xml:"format,attr"`
	Master   bool   `xml:"master,attr,omitempty"`
}

const manifestNamespace = "http://identifiers.org/combine.specifications/omex-manifest"

// parseManifest decodes manifest.xml. The manifest's self entry (location
// "." with the OMEX format) is dropped; it describes the archive, not a
// content file.
func parseManifest(data []byte) (*Archive, error) {
	var m xmlManifest
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest.xml: %w", err)
	}

	a := &Archive{}
	for _, e := range m.Entries {
		loc := normalizeLocation(e.Location)
		if loc == "." || strings.HasPrefix(e.Format, FormatOMEX) || strings.HasPrefix(e.Format, FormatManifest) {
			continue
		}
		if err := checkLocation(loc); err != nil {
			return nil, err
		}
		a.Contents = append(a.Contents, Content{Location: loc, Format: e.Format, Master: e.Master})
	}
	return a, nil
}

func encodeManifest(a *Archive) ([]byte, error) {
	m := xmlManifest{Xmlns: manifestNamespace}
	m.Entries = append(m.Entries, xmlContent{Location: ".", Format: FormatOMEX})
	for _, c := range a.Contents {
		m.Entries = append(m.Entries, xmlContent{Location: c.Location, Format: c.Format, Master: c.Master})
	}

	data, err := xml.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

// normalizeLocation strips the leading "./" many tools write into manifests.
func normalizeLocation(loc string) string {
	if loc == "." {
		return loc
	}
	return strings.TrimPrefix(loc, "./")
}

// checkLocation rejects locations that would escape the extraction root.
func checkLocation(loc string) error {
	if loc == "" {
		return fmt.Errorf("manifest entry with empty location")
	}
	if path.IsAbs(loc) || loc != path.Clean(loc) || strings.HasPrefix(loc, "..") {
		return fmt.Errorf("unsafe manifest location %q", loc)
	}
	return nil
}

// Package sbml extracts the little structure the simulator adapter needs
// from SBML model files: the model id and the identities of its species.
// Everything else in the model (kinetics, rules, units) is the simulation
// engine's business and is passed through untouched.
package sbml

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Species is one entry of the model's listOfSpecies.
type Species struct {
	ID   string
	Name string
}

// Model is the introspected shape of an SBML model file.
type Model struct {
	ID      string
	Name    string
	Species []Species
}

// HasSpecies reports whether the model defines a species with the given id.
func (m *Model) HasSpecies(id string) bool {
	for _, s := range m.Species {
		if s.ID == id {
			return true
		}
	}
	return false
}

// SpeciesIDs returns the species ids in document order.
func (m *Model) SpeciesIDs() []string {
	ids := make([]string, len(m.Species))
	for i, s := range m.Species {
		ids[i] = s.ID
	}
	return ids
}

type xmlSBML struct {
	XMLName xml.Name  `xml:"sbml"`
	Model   *xmlModel `xml:"model"`
}

type xmlModel struct {
	ID      string       `xml:"id,attr"`
	Name    string       `xml:"name,attr"`
	Species []xmlSpecies `xml:"listOfSpecies>species"`
}

type xmlSpecies struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// ReadModel parses the SBML file at path. A file that is not well-formed
// XML, is not rooted at <sbml>, or lacks a <model> element is an error.
func ReadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root xmlSBML
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("not a valid SBML document: %w", err)
	}
	if root.Model == nil {
		return nil, fmt.Errorf("not a valid SBML document: no model element")
	}

	m := &Model{ID: root.Model.ID, Name: root.Model.Name}
	for _, s := range root.Model.Species {
		m.Species = append(m.Species, Species{ID: s.ID, Name: s.Name})
	}
	return m, nil
}

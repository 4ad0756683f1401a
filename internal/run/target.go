package run

import "regexp"

// speciesTargetForm is the one XPath shape the adapter accepts for variable
// targets: a species addressed by id.
const speciesTargetForm = `/sbml:sbml/sbml:model/sbml:listOfSpecies/sbml:species[@id='X']`

// Both quote styles occur in the wild.
var speciesTargetRe = regexp.MustCompile(
	`^/sbml:sbml/sbml:model/sbml:listOfSpecies/sbml:species\[@id=(?:'([^']+)'|"([^"]+)")\]$`)

// speciesIDFromTarget extracts the species id from a variable target, or
// returns false if the target does not have the supported shape.
func speciesIDFromTarget(target string) (string, bool) {
	m := speciesTargetRe.FindStringSubmatch(target)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

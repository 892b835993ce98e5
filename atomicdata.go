/*
 * atomicdata.go, part of peptidelab.
 *
 * Copyright 2024 The PeptideLab developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mol

import "strings"

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//A map for assigning covalent radii to elements
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
//Note that just common "bio-elements" are present
var symbolCovrad = map[string]float64{
	"H":  0.31,
	"C":  0.76, //the sp3 radius
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Co": 1.5,  // hs
	"Fe": 1.52, //hs
	"Mn": 1.61, //hs
	"Cr": 1.39,
	"Si": 1.11,
	"Be": 0.96,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}

//CovalentRadius returns the covalent radius for an element symbol and
//whether the element is known to the library. Symbols are matched
//case-insensitively ("FE" and "Fe" are the same element).
func CovalentRadius(symbol string) (float64, bool) {
	r, ok := symbolCovrad[normalizeSymbol(symbol)]
	return r, ok
}

func normalizeSymbol(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToUpper(s)
	if len(s) == 1 {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}

//Elements considered metals by the "metals" selector.
var metalSymbols = map[string]bool{
	"Na": true,
	"K":  true,
	"Mg": true,
	"Ca": true,
	"Mn": true,
	"Fe": true,
	"Co": true,
	"Ni": true,
	"Cu": true,
	"Zn": true,
	"Cr": true,
	"Cd": true,
	"Hg": true,
	"Li": true,
}

//IsMetal reports whether the element symbol is in the fixed metal set.
func IsMetal(symbol string) bool {
	return metalSymbols[normalizeSymbol(symbol)]
}

//Residue names recognized as water by the "solvent"/"water" selector
//and excluded from the organic/inorganic classification.
var waterNames = map[string]bool{
	"HOH": true,
	"WAT": true,
	"H2O": true,
	"SOL": true,
	"DOD": true,
}

//IsWaterName reports whether name is one of the recognized water
//residue names.
func IsWaterName(name string) bool {
	return waterNames[strings.ToUpper(name)]
}

//Atom names that form the polymer backbone of a standard residue.
//Backbone hydrogens are included so that "sidechain" does not pick
//them up on protonated models.
var backboneNames = map[string]bool{
	"N":   true,
	"CA":  true,
	"C":   true,
	"O":   true,
	"OXT": true,
	"H":   true,
	"H1":  true,
	"H2":  true,
	"H3":  true,
	"HA":  true,
	"HA2": true,
	"HA3": true,
	"HXT": true,
}

//IsBackboneName reports whether an atom name belongs to the fixed
//backbone set.
func IsBackboneName(name string) bool {
	return backboneNames[strings.ToUpper(name)]
}

//A map between 3-letter names for aminoacidic residues and the
//corresponding 1-letter names.
var three2OneLetter = map[string]byte{
	"SER": 'S',
	"THR": 'T',
	"ASN": 'N',
	"GLN": 'Q',
	"SEC": 'U', //Selenocysteine!
	"CYS": 'C',
	"GLY": 'G',
	"PRO": 'P',
	"ALA": 'A',
	"VAL": 'V',
	"ILE": 'I',
	"LEU": 'L',
	"MET": 'M',
	"PHE": 'F',
	"TYR": 'Y',
	"TRP": 'W',
	"ARG": 'R',
	"HIS": 'H',
	"LYS": 'K',
	"ASP": 'D',
	"GLU": 'E',
}

//OneLetterCode returns the 1-letter code for a 3-letter residue name,
//or 'X' for residues without one.
func OneLetterCode(resname string) byte {
	if c, ok := three2OneLetter[strings.ToUpper(resname)]; ok {
		return c
	}
	return 'X'
}

//sidechain connectivity for the standard amino acids, as atom-name
//pairs. The backbone triple (N-CA, CA-C, C-O) is shared and prepended
//at init time; C-OXT is handled separately as it only appears on
//C-terminal residues.
var sidechainTemplates = map[string][][2]string{
	"ALA": {{"CA", "CB"}},
	"ARG": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "CD"}, {"CD", "NE"}, {"NE", "CZ"}, {"CZ", "NH1"}, {"CZ", "NH2"}},
	"ASN": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "OD1"}, {"CG", "ND2"}},
	"ASP": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "OD1"}, {"CG", "OD2"}},
	"CYS": {{"CA", "CB"}, {"CB", "SG"}},
	"GLN": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "CD"}, {"CD", "OE1"}, {"CD", "NE2"}},
	"GLU": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "CD"}, {"CD", "OE1"}, {"CD", "OE2"}},
	"GLY": {},
	"HIS": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "ND1"}, {"CG", "CD2"}, {"ND1", "CE1"}, {"CD2", "NE2"}, {"CE1", "NE2"}},
	"ILE": {{"CA", "CB"}, {"CB", "CG1"}, {"CB", "CG2"}, {"CG1", "CD1"}},
	"LEU": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "CD1"}, {"CG", "CD2"}},
	"LYS": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "CD"}, {"CD", "CE"}, {"CE", "NZ"}},
	"MET": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "SD"}, {"SD", "CE"}},
	"PHE": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "CD1"}, {"CG", "CD2"}, {"CD1", "CE1"}, {"CD2", "CE2"}, {"CE1", "CZ"}, {"CE2", "CZ"}},
	"PRO": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "CD"}, {"CD", "N"}},
	"SER": {{"CA", "CB"}, {"CB", "OG"}},
	"THR": {{"CA", "CB"}, {"CB", "OG1"}, {"CB", "CG2"}},
	"TRP": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "CD1"}, {"CG", "CD2"}, {"CD1", "NE1"}, {"NE1", "CE2"}, {"CD2", "CE2"}, {"CD2", "CE3"}, {"CE3", "CZ3"}, {"CZ3", "CH2"}, {"CH2", "CZ2"}, {"CZ2", "CE2"}},
	"TYR": {{"CA", "CB"}, {"CB", "CG"}, {"CG", "CD1"}, {"CG", "CD2"}, {"CD1", "CE1"}, {"CD2", "CE2"}, {"CE1", "CZ"}, {"CE2", "CZ"}, {"CZ", "OH"}},
	"VAL": {{"CA", "CB"}, {"CB", "CG1"}, {"CB", "CG2"}},
}

var backboneTemplate = [][2]string{{"N", "CA"}, {"CA", "C"}, {"C", "O"}}

//residueTemplates holds the full intra-residue bond template per
//standard residue name.
var residueTemplates = map[string][][2]string{}

func init() {
	for name, side := range sidechainTemplates {
		pairs := make([][2]string, 0, len(backboneTemplate)+len(side))
		pairs = append(pairs, backboneTemplate...)
		pairs = append(pairs, side...)
		residueTemplates[name] = pairs
	}
}

//IsStandardResidueName reports whether a bond template exists for the
//residue name, i.e. whether it is one of the 20 standard amino acids.
func IsStandardResidueName(name string) bool {
	_, ok := residueTemplates[strings.ToUpper(name)]
	return ok
}

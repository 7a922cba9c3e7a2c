package areacode

import (
	"slices"
	"strings"
)

// State groups the geographic NPAs serving one US state or the District of
// Columbia. Codes in a State never appear in the non-geographic, Canadian or
// country-or-territory tables.
type State struct {
	Name         string `json:"name" yaml:"name"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`
	AreaCodes    []int  `json:"area_codes" yaml:"area_codes"`
}

// Source: NANPA area codes by location report.
var states = [...]State{
	{Name: "Alabama", Abbreviation: "AL", AreaCodes: []int{205, 251, 256, 334, 938}},
	{Name: "Alaska", Abbreviation: "AK", AreaCodes: []int{907}},
	{Name: "Arizona", Abbreviation: "AZ", AreaCodes: []int{480, 520, 602, 623, 928}},
	{Name: "Arkansas", Abbreviation: "AR", AreaCodes: []int{479, 501, 870}},
	{Name: "California", Abbreviation: "CA", AreaCodes: []int{
		209, 213, 279, 310, 323, 408, 415, 424, 442, 510, 530, 559, 562, 619, 626, 628, 650,
		657, 661, 669, 707, 714, 747, 760, 805, 818, 820, 831, 858, 909, 916, 925, 949, 951,
	}},
	{Name: "Colorado", Abbreviation: "CO", AreaCodes: []int{303, 719, 720, 970}},
	{Name: "Connecticut", Abbreviation: "CT", AreaCodes: []int{203, 475, 860, 959}},
	{Name: "Delaware", Abbreviation: "DE", AreaCodes: []int{302}},
	{Name: "Florida", Abbreviation: "FL", AreaCodes: []int{
		239, 305, 321, 352, 386, 407, 561, 727, 754, 772, 786, 813, 850, 863, 904, 941, 954,
	}},
	{Name: "Georgia", Abbreviation: "GA", AreaCodes: []int{229, 404, 470, 478, 678, 706, 762, 770, 912, 943}},
	{Name: "Hawaii", Abbreviation: "HI", AreaCodes: []int{808}},
	{Name: "Idaho", Abbreviation: "ID", AreaCodes: []int{208, 986}},
	{Name: "Illinois", Abbreviation: "IL", AreaCodes: []int{
		217, 224, 309, 312, 331, 618, 630, 708, 773, 779, 815, 847, 872,
	}},
	{Name: "Indiana", Abbreviation: "IN", AreaCodes: []int{219, 260, 317, 463, 574, 765, 812, 930}},
	{Name: "Iowa", Abbreviation: "IA", AreaCodes: []int{319, 515, 563, 641, 712}},
	{Name: "Kansas", Abbreviation: "KS", AreaCodes: []int{316, 620, 785, 913}},
	{Name: "Kentucky", Abbreviation: "KY", AreaCodes: []int{270, 364, 502, 606, 859}},
	{Name: "Louisiana", Abbreviation: "LA", AreaCodes: []int{225, 318, 337, 504, 985}},
	{Name: "Maine", Abbreviation: "ME", AreaCodes: []int{207}},
	{Name: "Maryland", Abbreviation: "MD", AreaCodes: []int{240, 301, 410, 443, 667}},
	{Name: "Massachusetts", Abbreviation: "MA", AreaCodes: []int{339, 351, 413, 508, 617, 774, 781, 857, 978}},
	{Name: "Michigan", Abbreviation: "MI", AreaCodes: []int{
		231, 248, 269, 313, 517, 586, 616, 734, 810, 906, 947, 989,
	}},
	{Name: "Minnesota", Abbreviation: "MN", AreaCodes: []int{218, 320, 507, 612, 651, 763, 952}},
	{Name: "Mississippi", Abbreviation: "MS", AreaCodes: []int{228, 601, 662, 769}},
	{Name: "Missouri", Abbreviation: "MO", AreaCodes: []int{314, 417, 573, 636, 660, 816}},
	{Name: "Montana", Abbreviation: "MT", AreaCodes: []int{406}},
	{Name: "Nebraska", Abbreviation: "NE", AreaCodes: []int{308, 402, 531}},
	{Name: "Nevada", Abbreviation: "NV", AreaCodes: []int{702, 725, 775}},
	{Name: "New Hampshire", Abbreviation: "NH", AreaCodes: []int{603}},
	{Name: "New Jersey", Abbreviation: "NJ", AreaCodes: []int{201, 551, 609, 640, 732, 848, 856, 862, 908, 973}},
	{Name: "New Mexico", Abbreviation: "NM", AreaCodes: []int{505, 575}},
	{Name: "New York", Abbreviation: "NY", AreaCodes: []int{
		212, 315, 332, 347, 516, 518, 585, 607, 631, 646, 680, 716, 718, 838, 845, 914, 917, 929, 934,
	}},
	{Name: "North Carolina", Abbreviation: "NC", AreaCodes: []int{252, 336, 704, 743, 828, 910, 919, 980, 984}},
	{Name: "North Dakota", Abbreviation: "ND", AreaCodes: []int{701}},
	{Name: "Ohio", Abbreviation: "OH", AreaCodes: []int{
		216, 220, 234, 330, 380, 419, 440, 513, 567, 614, 740, 937,
	}},
	{Name: "Oklahoma", Abbreviation: "OK", AreaCodes: []int{405, 539, 580, 918}},
	{Name: "Oregon", Abbreviation: "OR", AreaCodes: []int{458, 503, 541, 971}},
	{Name: "Pennsylvania", Abbreviation: "PA", AreaCodes: []int{
		215, 223, 267, 272, 412, 445, 484, 570, 610, 717, 724, 814, 878,
	}},
	{Name: "Rhode Island", Abbreviation: "RI", AreaCodes: []int{401}},
	{Name: "South Carolina", Abbreviation: "SC", AreaCodes: []int{803, 843, 854, 864}},
	{Name: "South Dakota", Abbreviation: "SD", AreaCodes: []int{605}},
	{Name: "Tennessee", Abbreviation: "TN", AreaCodes: []int{423, 615, 629, 731, 865, 901, 931}},
	{Name: "Texas", Abbreviation: "TX", AreaCodes: []int{
		210, 214, 254, 281, 325, 346, 361, 409, 430, 432, 469, 512, 682, 713,
		726, 737, 806, 817, 830, 832, 903, 915, 936, 940, 956, 972, 979,
	}},
	{Name: "Utah", Abbreviation: "UT", AreaCodes: []int{385, 435, 801}},
	{Name: "Vermont", Abbreviation: "VT", AreaCodes: []int{802}},
	{Name: "Virginia", Abbreviation: "VA", AreaCodes: []int{276, 434, 540, 571, 703, 757, 804}},
	{Name: "Washington", Abbreviation: "WA", AreaCodes: []int{206, 253, 360, 425, 509, 564}},
	{Name: "Washington, DC", Abbreviation: "DC", AreaCodes: []int{202}},
	{Name: "West Virginia", Abbreviation: "WV", AreaCodes: []int{304, 681}},
	{Name: "Wisconsin", Abbreviation: "WI", AreaCodes: []int{262, 414, 534, 608, 715, 920}},
	{Name: "Wyoming", Abbreviation: "WY", AreaCodes: []int{307}},
}

// stateIndex maps an NPA to its position in states, -1 when unassigned.
var stateIndex = buildStateIndex()

func buildStateIndex() [lookupSize]int {
	var idx [lookupSize]int
	for i := range idx {
		idx[i] = -1
	}
	for i, s := range states {
		for _, code := range s.AreaCodes {
			idx[code] = i
		}
	}
	return idx
}

// States returns a copy of the state table, ordered by state name.
func States() []State {
	out := make([]State, len(states))
	for i, s := range states {
		out[i] = s.clone()
	}
	return out
}

// StateForNPA returns the state served by npa.
func StateForNPA(npa int) (State, bool) {
	if npa < 0 || npa >= lookupSize || stateIndex[npa] < 0 {
		return State{}, false
	}
	return states[stateIndex[npa]].clone(), true
}

// StateByAbbreviation finds a state by its two-letter postal code, ignoring case.
func StateByAbbreviation(abbr string) (State, bool) {
	abbr = strings.TrimSpace(abbr)
	for _, s := range states {
		if strings.EqualFold(s.Abbreviation, abbr) {
			return s.clone(), true
		}
	}
	return State{}, false
}

func (s State) clone() State {
	s.AreaCodes = slices.Clone(s.AreaCodes)
	return s
}

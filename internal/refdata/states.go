// Package refdata holds immutable reference datasets that are injected into
// services instead of being read from process-wide mutable state.
package refdata

// States is a read-only lookup of US state codes to names.
type States struct {
	byCode map[string]string
}

// USStates returns the standard dataset. The returned value never mutates;
// callers share one instance.
func USStates() *States {
	return usStates
}

// Name returns the state name for a two-letter code, and whether it exists.
func (s *States) Name(code string) (string, bool) {
	name, ok := s.byCode[code]
	return name, ok
}

// IsValidCode reports whether the code names a US state.
func (s *States) IsValidCode(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// Codes returns every known state code. The slice is a copy.
func (s *States) Codes() []string {
	codes := make([]string, 0, len(s.byCode))
	for code := range s.byCode {
		codes = append(codes, code)
	}
	return codes
}

var usStates = &States{byCode: map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming", "DC": "District of Columbia",
}}

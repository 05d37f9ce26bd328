// Package taxonomy maps free-text category and label strings onto the
// canonical category tokens used across the engine. It is the single
// source of truth for the synonym table; callers must not keep copies.
package taxonomy

import "strings"

// synonyms maps lower-cased, trimmed raw inputs to canonical tokens.
// Inputs already in canonical form map to themselves so that
// normalization is idempotent.
var synonyms = map[string]string{
	"int_airport":            "int_airport",
	"int airport":            "int_airport",
	"international airport":  "int_airport",
	"international airports": "int_airport",
	"airport":                "int_airport",
	"airports":               "int_airport",

	"entertainment":  "entertainment",
	"theater":        "entertainment",
	"theaters":       "entertainment",
	"theatre":        "entertainment",
	"theatres":       "entertainment",
	"cinema":         "entertainment",
	"cinemas":        "entertainment",
	"movie theater":  "entertainment",
	"movie theaters": "entertainment",

	"restaurant":  "restaurant",
	"restaurants": "restaurant",
	"dining":      "restaurant",
	"cafe":        "restaurant",
	"cafes":       "restaurant",

	"school":       "education",
	"schools":      "education",
	"education":    "education",
	"university":   "education",
	"universities": "education",
	"college":      "education",
	"colleges":     "education",

	"hospital":  "medical",
	"hospitals": "medical",
	"medical":   "medical",
	"clinic":    "medical",
	"clinics":   "medical",

	"grocery":        "grocery",
	"groceries":      "grocery",
	"grocery store":  "grocery",
	"grocery stores": "grocery",
	"supermarket":    "grocery",
	"supermarkets":   "grocery",

	"park":        "park",
	"parks":       "park",
	"green space": "park",

	"gym":            "fitness",
	"gyms":           "fitness",
	"fitness":        "fitness",
	"fitness center": "fitness",

	"shopping":       "shopping",
	"mall":           "shopping",
	"malls":          "shopping",
	"shopping mall":  "shopping",
	"shopping malls": "shopping",

	"transit":         "transit_station",
	"transit_station": "transit_station",
	"transit station": "transit_station",
	"train station":   "transit_station",
	"train stations":  "transit_station",
	"bus station":     "transit_station",
	"bus stations":    "transit_station",
}

// labels maps canonical tokens to their display labels.
var labels = map[string]string{
	"int_airport":     "International Airport",
	"entertainment":   "Entertainment",
	"restaurant":      "Restaurant",
	"education":       "Education",
	"medical":         "Medical",
	"grocery":         "Grocery",
	"park":            "Park",
	"fitness":         "Fitness",
	"shopping":        "Shopping",
	"transit_station": "Transit Station",
}

// Normalize maps a raw category string to its canonical token. Unknown
// values are lower-cased and trimmed and returned as their own de-facto
// bucket; Normalize never fails.
func Normalize(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := synonyms[cleaned]; ok {
		return canonical
	}
	return cleaned
}

// Label returns the display label for a canonical token, or the token
// verbatim when no label is registered.
func Label(canonical string) string {
	if label, ok := labels[canonical]; ok {
		return label
	}
	return canonical
}

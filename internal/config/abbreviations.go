package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// commonLanguage is the language-neutral list merged into every language.
const commonLanguage = "common"

// builtinAbbreviations is used when no abbreviations file is configured.
// Tokens are matched case-sensitively against the word before a period,
// so common capitalizations are listed explicitly.
var builtinAbbreviations = map[string][]string{
	commonLanguage: {
		"Cf", "cf", "Fig", "fig", "Eq", "eq", "No", "Nr", "Vol", "al", "etc",
	},
	"en": {
		"Mr", "Mrs", "Ms", "Dr", "Prof", "Jr", "Sr",
		"e.g", "i.e", "vs", "approx", "resp",
	},
	"de": {
		"bzw", "bspw", "z.B", "z.b", "u.a", "d.h", "vgl", "ggf",
		"Abb", "Tab", "S", "usw", "evtl", "inkl",
	},
}

// abbreviationsFile is the YAML shape of an abbreviations file:
//
//	abbreviations:
//	  common: [Cf, Fig]
//	  en: [Mr, Dr]
type abbreviationsFile struct {
	Abbreviations map[string][]string `yaml:"abbreviations"`
}

// LoadAbbreviations returns the abbreviation tokens for a language,
// merged with the common list, deduplicated and sorted. An empty path
// uses the built-in lists; an explicit path must exist and must contain
// the requested language.
func LoadAbbreviations(path, language string) ([]string, error) {
	table := builtinAbbreviations

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading abbreviations file: %w", err)
		}
		var parsed abbreviationsFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("parsing abbreviations file %s: %w", path, err)
		}
		if len(parsed.Abbreviations) == 0 {
			return nil, fmt.Errorf("abbreviations file %s has no 'abbreviations' mapping", path)
		}
		table = parsed.Abbreviations
	}

	tokens, ok := table[language]
	if !ok {
		return nil, fmt.Errorf("no abbreviations for language %q", language)
	}

	seen := map[string]bool{}
	merged := make([]string, 0, len(tokens)+len(table[commonLanguage]))
	for _, t := range append(append([]string{}, table[commonLanguage]...), tokens...) {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
	}
	sort.Strings(merged)
	return merged, nil
}

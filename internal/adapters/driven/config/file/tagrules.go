package file

import (
	"github.com/custodia-labs/notelink/internal/core/ports/driven"
	"github.com/custodia-labs/notelink/internal/core/scoring"
)

// TagRulesFromConfig builds the tag canonicalisation rules from
// configuration, falling back to the built-in tables when the config
// carries none.
//
// Config layout:
//
//	[tags.synonyms]
//	golang = "go"
//
//	[tags]
//	stopwords = ["misc", "todo"]
func TagRulesFromConfig(cfg driven.ConfigStore) scoring.TagRules {
	rules := scoring.DefaultTagRules()

	if synonyms := cfg.GetStringMap("tags.synonyms"); synonyms != nil {
		rules.Synonyms = synonyms
	}
	if stopwords := cfg.GetStringSlice("tags.stopwords"); stopwords != nil {
		rules.Stopwords = stopwords
	}

	return rules
}

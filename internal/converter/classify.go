package converter

import (
	"strings"

	"github.com/ginjaninja78/in1888-converter/internal/config"
	"github.com/ginjaninja78/in1888-converter/internal/types"
)

// Classifier maps transaction types to report codes and exchanges to their
// metadata. It is read-only after construction.
type Classifier struct {
	codes     map[string]types.Code
	exchanges map[string]config.ExchangeInfo
}

// NewClassifier builds a Classifier. Keys are upper-cased and trimmed;
// values that are not a report code are kept and classify as ignored.
func NewClassifier(classification map[string]string, exchanges map[string]config.ExchangeInfo) *Classifier {
	c := &Classifier{
		codes:     make(map[string]types.Code, len(classification)),
		exchanges: make(map[string]config.ExchangeInfo, len(exchanges)),
	}
	for k, v := range classification {
		c.codes[normalizeKey(k)] = types.Code(strings.TrimSpace(v))
	}
	for k, v := range exchanges {
		c.exchanges[normalizeKey(k)] = v
	}
	return c
}

// Classify returns the report code for a normalized transaction type. The
// boolean is false when the type is unmapped or maps to anything other than
// 0110 or 0120; such rows are ignored.
func (c *Classifier) Classify(txType string) (types.Code, bool) {
	code, ok := c.codes[normalizeKey(txType)]
	if !ok || !code.Valid() {
		return "", false
	}
	return code, true
}

// Exchange returns the metadata for name, or empty values when unknown.
func (c *Classifier) Exchange(name string) config.ExchangeInfo {
	return c.exchanges[normalizeKey(name)]
}

func normalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

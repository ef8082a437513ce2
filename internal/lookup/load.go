package lookup

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embeddedRules []byte

type ruleFile struct {
	Transactions []TransactionRule `yaml:"transactions"`
	Forms        []FormRule        `yaml:"forms"`
	Tolling      []TollingRule     `yaml:"tolling"`
}

// Load builds the catalog from the embedded rule tables.
func Load() (*StaticCatalog, error) {
	return parse(embeddedRules)
}

// LoadFile builds the catalog from a YAML file on disk, for deployments
// that need rule fixes ahead of a release.
func LoadFile(path string) (*StaticCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "lookup: read rules file %s", path)
	}
	return parse(raw)
}

func parse(raw []byte) (*StaticCatalog, error) {
	var f ruleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrap(err, "lookup: parse rules")
	}

	c := &StaticCatalog{
		transactions: make(map[string]TransactionRule, len(f.Transactions)),
		forms:        make(map[string]FormRule, len(f.Forms)),
		tolling:      make(map[string]TollingRule, len(f.Tolling)),
	}

	for _, r := range f.Transactions {
		if r.Code == "" || r.Category == "" {
			return nil, eris.Errorf("lookup: transaction rule missing code or category: %+v", r)
		}
		key := NormalizeTransactionCode(r.Code)
		if _, dup := c.transactions[key]; dup {
			return nil, eris.Errorf("lookup: duplicate transaction code %s", key)
		}
		r.Known = true
		c.transactions[key] = r
	}

	for _, r := range f.Forms {
		if r.Code == "" || r.Category == "" {
			return nil, eris.Errorf("lookup: form rule missing code or category: %+v", r)
		}
		r.Known = true
		for _, key := range append([]string{r.Code}, r.Aliases...) {
			norm := NormalizeFormCode(key)
			if _, dup := c.forms[norm]; dup {
				return nil, eris.Errorf("lookup: duplicate form code %s", norm)
			}
			c.forms[norm] = r
		}
	}

	for _, r := range f.Tolling {
		if r.Category == "" || r.Days <= 0 {
			return nil, eris.Errorf("lookup: tolling rule missing category or days: %+v", r)
		}
		key := strings.ToLower(strings.TrimSpace(r.Category))
		if _, dup := c.tolling[key]; dup {
			return nil, eris.Errorf("lookup: duplicate tolling category %s", key)
		}
		c.tolling[key] = r
	}

	return c, nil
}

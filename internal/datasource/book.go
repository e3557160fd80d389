package datasource

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/seenimoa/finmath/pkg/errors"
	"github.com/seenimoa/finmath/pkg/models"
)

// BookEntry is one option to price from an option book.
type BookEntry struct {
	Name  string
	Spec  models.OptionSpec
	Steps int
}

// BookDefaults fill fields an entry leaves out.
type BookDefaults struct {
	Rate  float64
	Steps int
}

type bookFile struct {
	Options []bookOption `toml:"option"`
}

type bookOption struct {
	Name   string   `toml:"name"`
	Type   string   `toml:"type"`
	Spot   float64  `toml:"spot"`
	Strike float64  `toml:"strike"`
	Time   float64  `toml:"time"`
	Rate   *float64 `toml:"rate"`
	Vol    float64  `toml:"vol"`
	Steps  *int     `toml:"steps"`
}

// LoadOptionBook decodes a TOML file of [[option]] tables:
//
//	[[option]]
//	name   = "NIFTY 24000 CE"
//	type   = "call"
//	spot   = 24150
//	strike = 24000
//	time   = 0.25
//	vol    = 0.14
//	rate   = 0.065   # optional, defaults.Rate
//	steps  = 1000    # optional, defaults.Steps
//
// Unknown keys and invalid contracts are rejected.
func LoadOptionBook(path string, defaults BookDefaults) ([]BookEntry, error) {
	var raw bookFile
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "option book %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "option book %s: unknown key %s", path, undecoded[0])
	}
	return buildBook(raw, defaults)
}

// ParseOptionBook is LoadOptionBook for an in-memory document.
func ParseOptionBook(doc string, defaults BookDefaults) ([]BookEntry, error) {
	var raw bookFile
	md, err := toml.Decode(doc, &raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "option book: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "option book: unknown key %s", undecoded[0])
	}
	return buildBook(raw, defaults)
}

func buildBook(raw bookFile, defaults BookDefaults) ([]BookEntry, error) {
	if len(raw.Options) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "option book has no [[option]] entries")
	}

	entries := make([]BookEntry, 0, len(raw.Options))
	for i, o := range raw.Options {
		kind, err := models.ParseOptionType(o.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "option %d", i+1)
		}
		e := BookEntry{
			Name: o.Name,
			Spec: models.OptionSpec{
				Type:       kind,
				Spot:       o.Spot,
				Strike:     o.Strike,
				Expiry:     o.Time,
				Rate:       defaults.Rate,
				Volatility: o.Vol,
			},
			Steps: defaults.Steps,
		}
		if o.Rate != nil {
			e.Spec.Rate = *o.Rate
		}
		if o.Steps != nil {
			e.Steps = *o.Steps
		}
		if e.Name == "" {
			e.Name = defaultName(i, e.Spec)
		}
		if err := e.Spec.Validate(); err != nil {
			return nil, errors.Wrapf(err, "option %d (%s)", i+1, e.Name)
		}
		if e.Steps < 1 {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "option %d (%s): steps must be positive, got %d", i+1, e.Name, e.Steps)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func defaultName(i int, s models.OptionSpec) string {
	return fmt.Sprintf("#%d %s %g", i+1, s.Type, s.Strike)
}

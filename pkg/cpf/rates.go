// Package cpf models a CPF-style mandatory-savings scheme: age-banded
// contributions into four sub-accounts, tiered interest, an annual
// contribution ceiling and a one-time consolidation event at a threshold age.
package cpf

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/iwvelando/retirement-forecast/pkg/constants"
	"github.com/iwvelando/retirement-forecast/pkg/model"
	"gopkg.in/yaml.v3"
)

const allocationTolerance = 1e-9

// Band holds the contribution rates for ages below UpToAge, as fractions of
// the monthly wage. The last band has UpToAge 0 and covers every older age.
type Band struct {
	UpToAge    float64 `yaml:"upToAge"`
	Employee   float64 `yaml:"employee"`
	Employer   float64 `yaml:"employer"`
	Ordinary   float64 `yaml:"ordinary"`
	Special    float64 `yaml:"special"`
	Medisave   float64 `yaml:"medisave"`
	Retirement float64 `yaml:"retirement"`
}

// Total is the combined employee and employer rate.
func (b Band) Total() float64 {
	return b.Employee + b.Employer
}

func (b Band) allocated() float64 {
	return b.Ordinary + b.Special + b.Medisave + b.Retirement
}

// InterestRates are the annual base rates per account.
type InterestRates struct {
	Ordinary   float64 `yaml:"ordinary"`
	Special    float64 `yaml:"special"`
	Medisave   float64 `yaml:"medisave"`
	Retirement float64 `yaml:"retirement"`
}

// ExtraInterest is the bonus tier paid on the first BalanceCap of combined
// balances, at most OrdinaryCap of which may come from the ordinary account.
// It only applies below BelowAge and is credited to the special account.
type ExtraInterest struct {
	Rate        float64 `yaml:"rate"`
	BalanceCap  float64 `yaml:"balanceCap"`
	OrdinaryCap float64 `yaml:"ordinaryCap"`
	BelowAge    float64 `yaml:"belowAge"`
}

// RetirementSums are the consolidation caps selectable per plan.
type RetirementSums struct {
	Basic    float64 `yaml:"basic"`
	Full     float64 `yaml:"full"`
	Enhanced float64 `yaml:"enhanced"`
}

// RateTable is the complete jurisdiction configuration.
type RateTable struct {
	Bands            []Band         `yaml:"bands"`
	Interest         InterestRates  `yaml:"interest"`
	Extra            ExtraInterest  `yaml:"extraInterest"`
	AnnualCeiling    float64        `yaml:"annualCeiling"`
	ConsolidationAge float64        `yaml:"consolidationAge"`
	RetirementSums   RetirementSums `yaml:"retirementSums"`
	// TopUpFromOrdinary moves ordinary-account funds into the retirement
	// account at consolidation when the special account falls short of the
	// target sum.
	TopUpFromOrdinary bool `yaml:"topUpFromOrdinary"`
}

// DefaultRateTable returns the reference jurisdiction's rates.
func DefaultRateTable() RateTable {
	return RateTable{
		Bands: []Band{
			{UpToAge: 35, Employee: 0.20, Employer: 0.17, Ordinary: 0.23, Special: 0.06, Medisave: 0.08},
			{UpToAge: 45, Employee: 0.20, Employer: 0.17, Ordinary: 0.21, Special: 0.07, Medisave: 0.09},
			{UpToAge: 50, Employee: 0.20, Employer: 0.17, Ordinary: 0.19, Special: 0.08, Medisave: 0.10},
			{UpToAge: 55, Employee: 0.20, Employer: 0.17, Ordinary: 0.15, Special: 0.115, Medisave: 0.105},
			{UpToAge: 60, Employee: 0.17, Employer: 0.155, Ordinary: 0.12, Medisave: 0.105, Retirement: 0.10},
			{UpToAge: 65, Employee: 0.115, Employer: 0.12, Ordinary: 0.035, Medisave: 0.105, Retirement: 0.095},
			{UpToAge: 70, Employee: 0.075, Employer: 0.09, Ordinary: 0.01, Medisave: 0.105, Retirement: 0.05},
			{Employee: 0.05, Employer: 0.075, Ordinary: 0.01, Medisave: 0.105, Retirement: 0.01},
		},
		Interest: InterestRates{
			Ordinary:   0.025,
			Special:    0.04,
			Medisave:   0.04,
			Retirement: 0.04,
		},
		Extra: ExtraInterest{
			Rate:        0.01,
			BalanceCap:  60000,
			OrdinaryCap: 20000,
			BelowAge:    constants.CPFConsolidationAge,
		},
		AnnualCeiling:    constants.CPFAnnualCeiling,
		ConsolidationAge: constants.CPFConsolidationAge,
		RetirementSums: RetirementSums{
			Basic:    106500,
			Full:     213000,
			Enhanced: 426000,
		},
		TopUpFromOrdinary: true,
	}
}

// LoadRateTable reads a YAML rate table. Fields the file omits keep their
// reference values; a bands list replaces the reference bands as a whole.
func LoadRateTable(path string) (RateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return RateTable{}, fmt.Errorf("failed to open rate table %s: %w", path, err)
	}
	defer f.Close()
	return DecodeRateTable(f)
}

// DecodeRateTable reads a YAML rate table from r on top of the reference
// values and validates the result.
func DecodeRateTable(r io.Reader) (RateTable, error) {
	table := DefaultRateTable()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil && !errors.Is(err, io.EOF) {
		return RateTable{}, fmt.Errorf("failed to parse rate table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return RateTable{}, err
	}
	return table, nil
}

// Export writes the table as YAML.
func (t RateTable) Export(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode rate table: %w", err)
	}
	return enc.Close()
}

// Validate checks that the bands are ordered, that the last band is open and
// that every band allocates exactly its total rate.
func (t RateTable) Validate() error {
	if len(t.Bands) == 0 {
		return errors.New("rate table has no age bands")
	}
	previous := 0.0
	for i, band := range t.Bands {
		last := i == len(t.Bands)-1
		switch {
		case last && band.UpToAge != 0:
			return fmt.Errorf("rate table band %d: last band must be open-ended (upToAge 0)", i)
		case !last && band.UpToAge <= previous:
			return fmt.Errorf("rate table band %d: upToAge %.1f must exceed %.1f", i, band.UpToAge, previous)
		}
		if !last {
			previous = band.UpToAge
		}
		for name, v := range map[string]float64{
			"employee": band.Employee, "employer": band.Employer, "ordinary": band.Ordinary,
			"special": band.Special, "medisave": band.Medisave, "retirement": band.Retirement,
		} {
			if v < 0 || v > 1 {
				return fmt.Errorf("rate table band %d: %s rate %.4f outside [0, 1]", i, name, v)
			}
		}
		if math.Abs(band.allocated()-band.Total()) > allocationTolerance {
			return fmt.Errorf("rate table band %d: allocations sum to %.4f but total rate is %.4f",
				i, band.allocated(), band.Total())
		}
	}
	if t.AnnualCeiling <= 0 {
		return fmt.Errorf("rate table annual ceiling must be positive, got %.2f", t.AnnualCeiling)
	}
	if t.ConsolidationAge <= 0 {
		return fmt.Errorf("rate table consolidation age must be positive, got %.1f", t.ConsolidationAge)
	}
	return nil
}

// BandFor returns the band covering age.
func (t RateTable) BandFor(age float64) Band {
	for _, band := range t.Bands {
		if band.UpToAge == 0 || age < band.UpToAge {
			return band
		}
	}
	return t.Bands[len(t.Bands)-1]
}

// TargetSum resolves the consolidation cap for target. An empty target
// selects the full retirement sum.
func (t RateTable) TargetSum(target model.RetirementSumTarget) (float64, error) {
	switch target {
	case model.RetirementSumBasic:
		return t.RetirementSums.Basic, nil
	case model.RetirementSumFull, "":
		return t.RetirementSums.Full, nil
	case model.RetirementSumEnhanced:
		return t.RetirementSums.Enhanced, nil
	default:
		return 0, fmt.Errorf("%w: %q", model.ErrUnknownRetirementTarget, target)
	}
}

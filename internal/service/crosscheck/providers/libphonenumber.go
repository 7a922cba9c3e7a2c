package providers

import (
	"context"
	"fmt"

	"github.com/nyaruka/phonenumbers"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
	"github.com/davidleathers/phonenumbers-na/internal/domain/crosscheck"
)

// RegionResolver returns the ISO region libphonenumber assigns to an NPA, or "".
type RegionResolver func(npa int) string

// LibPhoneNumberProvider derives the Canadian and country-or-territory sets
// from the libphonenumber metadata bundled with the binary.
type LibPhoneNumberProvider struct {
	resolve RegionResolver
}

// NewLibPhoneNumberProvider uses libphonenumber region metadata.
func NewLibPhoneNumberProvider() *LibPhoneNumberProvider {
	return &LibPhoneNumberProvider{resolve: RegionForNPA}
}

func (p *LibPhoneNumberProvider) Name() string { return "libphonenumber" }

// Fetch asks for the region of NPA-234-5678 for every NPA from 200 to 999.
func (p *LibPhoneNumberProvider) Fetch(ctx context.Context) ([]crosscheck.Report, error) {
	canadian := crosscheck.Report{Source: p.Name(), Set: areacode.SetCanadian}
	territory := crosscheck.Report{Source: p.Name(), Set: areacode.SetCountryOrTerritory}

	for npa := 200; npa <= 999; npa++ {
		if npa%100 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		region := p.resolve(npa)
		entry := crosscheck.Entry{Code: npa, Metadata: map[string]string{"region": region}}
		switch region {
		case "", "US", "001", "ZZ":
		case "CA":
			canadian.Entries = append(canadian.Entries, entry)
		default:
			territory.Entries = append(territory.Entries, entry)
		}
	}
	return []crosscheck.Report{canadian, territory}, nil
}

// RegionForNPA resolves the region of a representative number in npa.
func RegionForNPA(npa int) string {
	num, err := phonenumbers.Parse(fmt.Sprintf("+1%03d2345678", npa), "")
	if err != nil {
		return ""
	}
	return phonenumbers.GetRegionCodeForNumber(num)
}

// Package supplier derives who sells a product from its page URL.
package supplier

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"catalogsync/internal/model"
)

var ErrInvalidURL = errors.New("invalid product url")

// Entry is a known supplier keyed by its registrable domain.
type Entry struct {
	Domain string
	Info   model.SupplierInfo
}

// Marketplace is a host whose listings are credited to the brand that
// sells there instead of to the marketplace itself.
type Marketplace struct {
	HostFragment string
	Name         string
}

// Directory is the read-only lookup table used by Resolve.
type Directory struct {
	Entries      []Entry
	Marketplaces []Marketplace
}

func DefaultDirectory() Directory {
	known := func(domain, name, contact string) Entry {
		return Entry{Domain: domain, Info: model.SupplierInfo{Name: name, Website: "https://" + domain, ContactInfo: contact}}
	}
	return Directory{
		Entries: []Entry{
			known("amazon.com", "Amazon", "Amazon.com"),
			known("amazon.ca", "Amazon Canada", "Amazon.ca"),
			known("amazon.co.uk", "Amazon UK", "Amazon.co.uk"),
			known("amazon.de", "Amazon DE", "Amazon.de"),
			known("ebay.com", "eBay", "eBay.com"),
			known("alibaba.com", "Alibaba", "Alibaba.com"),
			known("aliexpress.com", "AliExpress", "AliExpress.com"),
			known("mcmaster.com", "McMaster-Carr", "McMaster-Carr"),
			known("digikey.com", "Digi-Key", "Digi-Key Electronics"),
			known("mouser.com", "Mouser Electronics", "Mouser Electronics"),
			known("grainger.com", "Grainger", "W.W. Grainger, Inc."),
		},
		Marketplaces: []Marketplace{
			{HostFragment: "amazon.", Name: "Amazon"},
		},
	}
}

// Resolve returns the supplier for rawURL. On a marketplace host a
// non-empty brand becomes the supplier. Unknown hosts resolve to a
// supplier named after the host.
func (d Directory) Resolve(rawURL, brand string) (model.SupplierInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return model.SupplierInfo{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	host := strings.ToLower(u.Hostname())

	if brand = strings.TrimSpace(brand); brand != "" {
		for _, m := range d.Marketplaces {
			if strings.Contains(host, m.HostFragment) {
				return model.SupplierInfo{
					Name:        brand,
					Website:     rawURL,
					ContactInfo: fmt.Sprintf("Available on %s (%s)", m.Name, host),
					Marketplace: m.Name,
				}, nil
			}
		}
	}

	for _, e := range d.Entries {
		if host == e.Domain || strings.HasSuffix(host, "."+e.Domain) {
			return e.Info, nil
		}
	}
	// regional sites of a known supplier, e.g. digikey.ca
	for _, e := range d.Entries {
		base, _, _ := strings.Cut(e.Domain, ".")
		if hasLabel(host, base) {
			return e.Info, nil
		}
	}

	return model.SupplierInfo{
		Name:        strings.TrimPrefix(host, "www."),
		Website:     u.Scheme + "://" + u.Host,
		ContactInfo: "Auto-detected from " + host,
	}, nil
}

func hasLabel(host, label string) bool {
	for _, part := range strings.Split(host, ".") {
		if part == label {
			return true
		}
	}
	return false
}

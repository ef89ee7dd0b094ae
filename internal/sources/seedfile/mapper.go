package seedfile

import (
	"github.com/SstealzZ/LinkStart/internal/domain"
)

// Mapper converts seed entries to domain.Service drafts.
type Mapper struct{}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapDrafts converts a SeedConfig into submit-ready drafts. Entries
// missing a name or either IP are skipped; the remote API would reject
// them anyway. defaultOwner fills entries without an explicit owner.
func (m *Mapper) MapDrafts(config SeedConfig, defaultOwner string) []domain.Service {
	var drafts []domain.Service

	for _, entry := range config.Services {
		if entry.Name == "" || entry.PublicIP == "" || entry.PrivateIP == "" {
			continue
		}

		owner := entry.Owner
		if owner == "" {
			owner = defaultOwner
		}

		drafts = append(drafts, domain.Service{
			Name:      entry.Name,
			PublicIP:  entry.PublicIP,
			PrivateIP: entry.PrivateIP,
			Owner:     owner,
		})
	}

	return drafts
}

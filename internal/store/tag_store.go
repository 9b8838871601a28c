package store

import (
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/remote"
)

type TagStore struct {
	*Store[model.Tag]
}

// NewTagStore keeps the tag collection sorted by name, so a rolled-back
// delete reappears in its alphabetical slot.
func NewTagStore(client remote.TagClient, opts ...Option) *TagStore {
	cfg := Config[model.Tag]{
		Name:   "tag",
		Client: client,
		Synthesize: func(input model.Tag, tempID string, now time.Time) model.Tag {
			input.ID = tempID
			input.Name = strings.TrimSpace(input.Name)
			input.CreatedAt = now
			input.UpdatedAt = now
			return input
		},
		Sort: func(items []model.Tag) {
			sort.SliceStable(items, func(i, j int) bool {
				return items[i].Name < items[j].Name
			})
		},
	}
	applyOptions(&cfg, opts)
	return &TagStore{New(cfg)}
}

package sitecms

import (
	"encoding/json"
	"sync"

	_ "embed"

	"github.com/kwarda-kaltara/sitecms/content"
)

// defaultData is the bundled default content: the dataset used to seed the
// remote store and to populate an empty local store.
//
//go:embed defaults.json
var defaultData []byte

var (
	defaultsOnce sync.Once
	defaults     content.Dataset
)

// DefaultDataset returns a deep copy of the bundled default dataset.
func DefaultDataset() content.Dataset {
	defaultsOnce.Do(func() {
		// The embedded file is part of the build; a parse failure is a
		// programming error, not a runtime condition.
		if err := json.Unmarshal(defaultData, &defaults); err != nil {
			panic("sitecms: invalid embedded defaults: " + err.Error())
		}
	})
	return defaults.Clone()
}

// Default credentials apply when no credential record has been stored.
var defaultCredentials = content.Credentials{
	Username: "admin",
	Password: "admin123",
}

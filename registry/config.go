package registry

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

type Configuration struct {
	Registry struct {
		Name         string `toml:"name"`
		OpenMutation bool   `toml:"open_mutation"`
		StrictURIs   bool   `toml:"strict_uris"`
	} `toml:"registry"`
	API struct {
		Listen string `toml:"listen"`
	} `toml:"api"`
	Feed struct {
		NATS    string `toml:"nats"`
		Subject string `toml:"subject"`
		Batch   int    `toml:"batch"`
	} `toml:"feed"`
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = toml.Unmarshal(f, &conf)
	if err != nil {
		return nil, err
	}
	if conf.Registry.Name == "" {
		return nil, fmt.Errorf("registry without a name in %s", path)
	}
	if conf.Feed.Batch <= 0 {
		conf.Feed.Batch = 100
	}
	return &conf, nil
}

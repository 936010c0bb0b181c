package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// KeyFile is a YAML document carrying a colon-hex RSA key triple:
//
//	n: |
//	  b3:ba:54:...
//	d: |
//	  58:93:8d:...
//	e: "01:00:01"
type KeyFile struct {
	N string `yaml:"n"`
	D string `yaml:"d"`
	E string `yaml:"e"`
}

// LoadKeyFile reads a key triple. All three entries are required.
func LoadKeyFile(path string) (KeyFile, error) {
	var kf KeyFile

	data, err := os.ReadFile(path)
	if err != nil {
		return kf, fmt.Errorf("reading key file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return kf, fmt.Errorf("parsing key file %s: %w", path, err)
	}
	if kf.N == "" || kf.D == "" || kf.E == "" {
		return kf, fmt.Errorf("key file %s: n, d and e are required", path)
	}
	return kf, nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dkeye/available/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type catalogDoc struct {
	Categories     []domain.KindCategory      `mapstructure:"categories"`
	MaxSelections  int                        `mapstructure:"maxselections"`
	ContactMethods []domain.ContactMethodType `mapstructure:"contactmethods"`
}

// LoadCatalog reads the availability catalog document. A missing file falls
// back to domain.DefaultCatalog; a malformed one is an error.
func LoadCatalog(path string) (*domain.Catalog, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("module", "config").Str("file", path).Msg("catalog not found, using built-in types")
		return domain.DefaultCatalog(), nil
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var doc catalogDoc
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("catalog %s: no categories", path)
	}

	c := domain.NewCatalog(doc.Categories, doc.MaxSelections, doc.ContactMethods)
	log.Info().Str("module", "config").Str("file", path).Int("max_selections", c.MaxSelections).Msg("loaded catalog")
	return c, nil
}

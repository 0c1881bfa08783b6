package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct-level constraints and the cross-field rules the
// tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}

	for _, name := range []string{TaskStatusRotation, TaskHousekeeping} {
		if _, ok := c.Scheduler.Tasks[name]; !ok {
			return fmt.Errorf("scheduler task %q is not configured", name)
		}
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns && c.Database.MaxOpenConns > 0 {
		return fmt.Errorf("database.max_idle_conns (%d) exceeds database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	return nil
}

// isMissingFile reports whether err comes from a config path that does not exist.
// viper only returns ConfigFileNotFoundError when searching config paths, not
// for an explicit SetConfigFile.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

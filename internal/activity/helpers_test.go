package activity_test

import "github.com/edgard/botkit/internal/config"

var sqliteMemory = config.DatabaseConfig{Provider: config.ProviderSqliteMemory}

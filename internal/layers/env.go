package layers

import (
	"os"
	"strconv"
	"strings"

	log "go.uber.org/zap"

	"github.com/yanet-platform/coalesce/pkg/coalesce"
)

// Env reads setting overrides from environment variables named
// <PREFIX>_<SETTING>, e.g. COALESCE_DELAY_LOOP. Variables are looked up
// lazily, only when no earlier source provides the setting. A variable that
// fails to parse is ignored.
type Env struct {
	prefix string
	logger *log.Logger
}

// NewEnv creates an overlay for prefix. An empty prefix disables the overlay.
func NewEnv(prefix string, logger *log.Logger) *Env {
	return &Env{
		prefix: strings.ToUpper(strings.TrimSuffix(prefix, "_")),
		logger: logger,
	}
}

// Key returns the name of the variable holding setting.
func (m *Env) Key(setting string) string {
	return m.prefix + "_" + strings.ToUpper(setting)
}

func (m *Env) Float(setting string) coalesce.Holder[float64] {
	return lookup(m, setting, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func (m *Env) Int(setting string) coalesce.Holder[int] {
	return lookup(m, setting, strconv.Atoi)
}

func (m *Env) String(setting string) coalesce.Holder[string] {
	return lookup(m, setting, func(s string) (string, error) {
		return s, nil
	})
}

func lookup[T any](env *Env, setting string, parse func(string) (T, error)) coalesce.Holder[T] {
	if env == nil || env.prefix == "" {
		return coalesce.Absent[T]()
	}

	key := env.Key(setting)
	return coalesce.Lazy(func() coalesce.Holder[T] {
		raw, ok := os.LookupEnv(key)
		if !ok {
			return nil
		}
		v, err := parse(raw)
		if err != nil {
			env.logger.Warn("ignoring malformed environment override",
				log.String("variable", key),
				log.Error(err),
			)
			return nil
		}
		return coalesce.Maybe(v, true)
	})
}

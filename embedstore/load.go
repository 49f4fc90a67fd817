package embedstore

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ic-timon/vecdump/embedstore/kv"
)

// Load opens the store Ingest wrote under prefix (the output path without
// extension) using the layout selected by cfg.Backend.
func Load(prefix string, cfg *Config) (Reader, error) {
	cfg = cfg.OrDefault()
	switch cfg.Backend {
	case BackendFiles:
		s, err := Open(prefix+".idx", prefix+".vec", cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		path := prefix + ".db"
		log := cfg.logger()
		s, err := kv.Open(path, log)
		if err != nil {
			return nil, ioError("open", path, err)
		}
		if n, err := s.Count(); err != nil {
			log.Warn("count stored vectors failed", zap.String("path", path), zap.Error(err))
		} else if n != s.Len() {
			log.Warn("declared vocabulary size differs from stored records",
				zap.String("path", path), zap.Int("declared", s.Len()), zap.Int("stored", n))
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

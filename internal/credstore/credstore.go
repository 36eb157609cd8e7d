// Package credstore persists exported credential bundles between runs.
// Blobs are stored in a local sqlite database, encrypted and authenticated
// at rest; the session cookie inside them grants full account access, so a
// plaintext file is not acceptable.
package credstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ojtool/internal/util/slogx"
)

type Options struct {
	Path          string        `toml:"path"`
	Debug         bool          `toml:"debug"`
	SlowThreshold time.Duration `toml:"slow-threshold"`
	BusyTimeout   time.Duration `toml:"busy-timeout"`
	UseWAL        bool          `toml:"use-wal"`
}

func (o *Options) FillDefaults() {
	if o.SlowThreshold == 0 {
		o.SlowThreshold = 200 * time.Millisecond
	}
	if o.BusyTimeout == 0 {
		o.BusyTimeout = 1 * time.Minute
	}
}

// cachedLogin is one stored credential bundle, keyed by judge registry ID.
type cachedLogin struct {
	Judge     string `gorm:"primaryKey"`
	Blob      string
	UpdatedAt time.Time
}

var models = []any{&cachedLogin{}}

type Store struct {
	db    *gorm.DB
	codec *securecookie.SecureCookie
	log   *slog.Logger
}

func buildPath(o Options) string {
	var params []string
	if o.UseWAL {
		params = append(params, "_journal_mode=WAL")
		params = append(params, "_synchronous=NORMAL")
	}
	params = append(params, fmt.Sprintf("_busy_timeout=%v", o.BusyTimeout.Milliseconds()))
	paramStr := strings.Join(params, "&")
	if paramStr == "" {
		return o.Path
	}
	return o.Path + "?" + paramStr
}

func New(log *slog.Logger, o Options, keys Keys) (*Store, error) {
	o.FillDefaults()
	if o.Path == "" {
		return nil, fmt.Errorf("credstore path not specified")
	}
	db, err := gorm.Open(sqlite.Open(buildPath(o)), &gorm.Config{
		Logger: Logger(log, o),
	})
	if err != nil {
		return nil, fmt.Errorf("open credstore: %w", err)
	}
	s := &Store{
		db:    db,
		codec: securecookie.New(keys.Hash, keys.Block),
		log:   log,
	}
	if err := db.AutoMigrate(models...); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate credstore: %w", err)
	}
	return s, nil
}

func (s *Store) Close() {
	db, err := s.db.DB()
	if err != nil {
		s.log.Error("could not get underlying db", slogx.Err(err))
		return
	}
	if err := db.Close(); err != nil {
		s.log.Error("could not close credstore", slogx.Err(err))
	}
}

// Put stores a serialized credential bundle for the given judge,
// overwriting any previous one.
func (s *Store) Put(ctx context.Context, judgeID, blob string) error {
	encoded, err := s.codec.Encode("auth/"+judgeID, blob)
	if err != nil {
		return fmt.Errorf("encode auth blob: %w", err)
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&cachedLogin{Judge: judgeID, Blob: encoded, UpdatedAt: time.Now()}).Error
	if err != nil {
		return fmt.Errorf("store auth blob: %w", err)
	}
	return nil
}

// Get loads the credential bundle stored for the judge. The second result
// is false when none is stored. A blob that fails authentication (wrong
// keys, tampering) is an error, not a miss.
func (s *Store) Get(ctx context.Context, judgeID string) (string, bool, error) {
	var rec cachedLogin
	err := s.db.WithContext(ctx).Where("judge = ?", judgeID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load auth blob: %w", err)
	}
	var blob string
	if err := s.codec.Decode("auth/"+judgeID, rec.Blob, &blob); err != nil {
		return "", false, fmt.Errorf("decode auth blob: %w", err)
	}
	return blob, true, nil
}

// Delete drops the stored bundle for the judge, if any.
func (s *Store) Delete(ctx context.Context, judgeID string) error {
	err := s.db.WithContext(ctx).Delete(&cachedLogin{}, "judge = ?", judgeID).Error
	if err != nil {
		return fmt.Errorf("delete auth blob: %w", err)
	}
	return nil
}

package cli

import (
	"crypto/rand"
	"database/sql"
	"fmt"

	"zone_heating/internal/config"
	"zone_heating/internal/engine"
	"zone_heating/internal/logger"
	"zone_heating/internal/repository"
	"zone_heating/internal/repository/db"
	"zone_heating/internal/service"
)

const generatedKeyBytes = 32

// app is the local runtime shared by commands that open the database.
type app struct {
	cfg   config.Config
	log   *logger.Logger
	conn  *sql.DB
	repos *repository.Repository
}

func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := logger.Get(cfg.Log.Level)

	conn, dialect, err := db.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DB.Driver, err)
	}
	return &app{
		cfg:   cfg,
		log:   log,
		conn:  conn,
		repos: repository.NewRepository(conn, dialect),
	}, nil
}

func (a *app) Close() {
	if err := a.conn.Close(); err != nil {
		a.log.Warnw("close database failed", "err", err)
	}
}

// serviceOptions maps configuration onto the service. Collaborators are left to the caller.
func (a *app) serviceOptions() (service.Options, error) {
	loc, err := a.cfg.Heating.Location()
	if err != nil {
		return service.Options{}, err
	}
	return service.Options{
		EcoTempC:   a.cfg.Heating.EcoTempC,
		Limits:     engine.Limits{MinC: a.cfg.Heating.MinTempC, MaxC: a.cfg.Heating.MaxTempC},
		Location:   loc,
		SigningKey: []byte(a.cfg.Auth.SigningKey),
		TokenTTL:   a.cfg.Auth.TokenTTL,
		Log:        a.log,
	}, nil
}

// randomKey is used when no signing key is configured. Tokens then do not survive a restart.
func randomKey() ([]byte, error) {
	key := make([]byte, generatedKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return key, nil
}

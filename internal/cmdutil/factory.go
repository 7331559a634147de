package cmdutil

import (
	"appgate/internal/apps"
	"appgate/internal/config"
	"appgate/internal/database"
	"appgate/internal/elevate"
	"appgate/internal/eventbus"
	"appgate/internal/firewall"
	"appgate/internal/process"
	"appgate/internal/service"
	"appgate/logger"
	"errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"os"
)

// ErrRelaunched is returned by Bootstrap once an elevated copy of the
// program has been started; the current process should exit quietly.
var ErrRelaunched = errors.New("relaunched with administrator rights")

// Factory carries what every command needs. It is filled by Bootstrap
// before any command runs.
type Factory struct {
	ConfigPath string
	Elevate    bool

	Config     config.Config
	Controller service.Controller

	db *gorm.DB
}

func (f *Factory) Bootstrap() error {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return err
	}
	f.Config = cfg

	if err := logger.InitLogger(cfg.LogMode, cfg.LogFile); err != nil {
		return err
	}
	log := logger.GetLogger()

	if f.Elevate && !elevate.IsAdmin() {
		if err := elevate.RunAsAdmin(os.Args[1:]); err != nil {
			return err
		}
		return ErrRelaunched
	}

	var audit database.AuditRepository
	if cfg.Audit.Enabled {
		db, err := database.Open(cfg.Audit.Database)
		if err != nil {
			log.Warn("audit journal unavailable", zap.Error(err))
		} else {
			f.db = db
			audit = database.NewAuditRepository(db)
		}
	}

	bus := eventbus.New()
	bus.Register(firewall.Topic, func(ev eventbus.Event) {
		PrintS(ev.Message)
	})

	f.Controller = service.NewController(service.Dependencies{
		Opener:    firewall.DefaultOpener,
		Bus:       bus,
		Processes: process.NewEnumerator(process.NewSystem(), log),
		Apps:      apps.NewEnumerator(log, apps.SourcesFromConfig(cfg.Scan)...),
		Audit:     audit,
		IsAdmin:   elevate.IsAdmin,
		Logger:    log,
	})
	return nil
}

// Close releases the firewall session and the journal. Safe to call when
// Bootstrap failed part way.
func (f *Factory) Close() {
	if f.Controller != nil {
		if err := f.Controller.Close(); err != nil {
			logger.Warn("failed to close firewall session", zap.Error(err))
		}
	}
	if f.db != nil {
		_ = database.Close(f.db)
	}
	logger.Sync()
}

package views

import (
	"go.uber.org/zap"

	"github.com/tgienger/zt/internal/db"
	"github.com/tgienger/zt/internal/notes"
	"github.com/tgienger/zt/internal/reminder"
	"github.com/tgienger/zt/internal/report"
)

// Env carries the services shared by the views
type Env struct {
	DB       *db.DB
	Log      *zap.SugaredLogger
	Checker  *reminder.Checker
	Exporter *report.Exporter
	Vault    *notes.Vault
	Watcher  *notes.Watcher // nil when watching is disabled

	ReportDir   string
	MondayFirst bool
}

package main

import (
	"fmt"

	"github.com/kalambet/deskhub/internal/automation"
	"github.com/kalambet/deskhub/internal/bundle"
	"github.com/kalambet/deskhub/internal/collection"
	"github.com/kalambet/deskhub/internal/config"
	"github.com/kalambet/deskhub/internal/files"
	"github.com/kalambet/deskhub/internal/insights"
	"github.com/kalambet/deskhub/internal/messages"
	"github.com/kalambet/deskhub/internal/notes"
	"github.com/kalambet/deskhub/internal/profile"
	"github.com/kalambet/deskhub/internal/storage"
	"github.com/kalambet/deskhub/internal/tasks"
)

// app wires every service over one opened database.
type app struct {
	cfg config.Config
	db  *storage.Store

	planner  *tasks.Planner
	vault    *files.Vault
	inbox    *messages.Inbox
	notes    *notes.Pad
	profile  *profile.Manager
	runner   *automation.Runner
	bundler  *bundle.Bundler
	insights insights.Source
}

func openApp(cfg config.Config) (*app, error) {
	db, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	ns := cfg.Namespace()
	ids := collection.UUIDs{}
	clock := collection.SystemClock{}

	taskStore := collection.NewStore[tasks.Task](db, ns.Key(collection.NameTasks))
	fileStore := collection.NewStore[files.FileItem](db, ns.Key(collection.NameFiles))
	msgStore := messages.NewStore(db, ns.Key(collection.NameMessages), clock)
	noteStore := collection.NewStore[notes.Note](db, ns.Key(collection.NameNotes))
	profileMgr := profile.NewManager(db, ns)

	scripts := automation.Builtin(automation.Targets{
		Tasks:            taskStore,
		Messages:         msgStore,
		Compactor:        db,
		Clock:            clock,
		ArchiveAfter:     cfg.ArchiveAfter(),
		MessageRetention: cfg.MessageRetention(),
	})

	bundler := bundle.New(db, ns, bundle.Sources{
		Tasks:    taskStore,
		Files:    fileStore,
		Messages: msgStore,
		Notes:    noteStore,
		Profile:  profileMgr,
	}, clock)

	return &app{
		cfg:      cfg,
		db:       db,
		planner:  tasks.NewPlanner(taskStore, ids, clock),
		vault:    files.NewVault(fileStore, ids, clock, int64(cfg.Files.InlineLimit)),
		inbox:    messages.NewInbox(msgStore, ids, clock),
		notes:    notes.NewPad(noteStore, ids, clock),
		profile:  profileMgr,
		runner:   automation.NewRunner(scripts, db, ids, clock, cfg.Automation.Delay),
		bundler:  bundler,
		insights: insights.Source{Tasks: taskStore, Files: fileStore, Messages: msgStore},
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

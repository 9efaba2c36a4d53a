// stepup-import seeds workout templates into the store from a YAML file:
//
//	templates:
//	  - name: Leg Day
//	    exercises:
//	      - name: Squat
//	        restTimeSeconds: 90
//	        sets:
//	          - reps: 10
//	            weight: 40
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meltforce/stepup/internal/config"
	"github.com/meltforce/stepup/internal/models"
	"github.com/meltforce/stepup/internal/service"
	"github.com/meltforce/stepup/internal/storage"
	"github.com/meltforce/stepup/internal/workout"
)

type templateFile struct {
	Templates []templateEntry `yaml:"templates"`
}

type templateEntry struct {
	Name      string          `yaml:"name"`
	Exercises []exerciseEntry `yaml:"exercises"`
}

type exerciseEntry struct {
	Name            string     `yaml:"name"`
	RestTimeSeconds int        `yaml:"restTimeSeconds"`
	Notes           string     `yaml:"notes"`
	Sets            []setEntry `yaml:"sets"`
}

type setEntry struct {
	Reps   int     `yaml:"reps"`
	Weight float64 `yaml:"weight"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to templates YAML file (required)")
	dryRun := flag.Bool("dry-run", false, "validate templates without writing to the store")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: stepup-import -config config.yaml -file templates.yaml [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Error("failed to read templates file", "path", *filePath, "error", err)
		os.Exit(1)
	}

	var tf templateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		log.Error("failed to parse templates file", "error", err)
		os.Exit(1)
	}
	if len(tf.Templates) == 0 {
		log.Error("templates file contains no templates")
		os.Exit(1)
	}

	if *dryRun {
		log.Info("DRY RUN mode — no templates will be written to the store")
		failed := 0
		for _, entry := range tf.Templates {
			exercises := toExercises(entry.Exercises)
			if verr := workout.ValidateTemplate(entry.Name, exercises); verr != nil {
				log.Error("invalid template", "name", entry.Name, "reason", verr.Error())
				failed++
				continue
			}
			log.Info("template ok", "name", entry.Name, "exercises", len(exercises))
		}
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := storage.RunMigrations(cfg.Storage.Path); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.Path, log)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tracker := service.New(store, log)
	ctx := context.Background()

	imported := 0
	for _, entry := range tf.Templates {
		w, err := tracker.CreateTemplate(ctx, entry.Name, toExercises(entry.Exercises))
		if err != nil {
			log.Error("failed to import template", "name", entry.Name, "error", err)
			os.Exit(1)
		}
		log.Info("template imported", "name", w.Name, "id", w.ID)
		imported++
	}
	log.Info("import complete", "templates", imported)
}

func toExercises(entries []exerciseEntry) []models.Exercise {
	exercises := make([]models.Exercise, 0, len(entries))
	for _, e := range entries {
		ex := models.Exercise{
			Name:            e.Name,
			RestTimeSeconds: e.RestTimeSeconds,
			Notes:           e.Notes,
		}
		for _, s := range e.Sets {
			ex.Sets = append(ex.Sets, models.Set{Reps: s.Reps, Weight: s.Weight})
		}
		exercises = append(exercises, ex)
	}
	return exercises
}

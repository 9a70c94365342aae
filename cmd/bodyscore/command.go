package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"code.cloudfoundry.org/clock"
	"github.com/goccy/go-yaml"

	"github.com/yusufkecer/body-score-backend/internal/acquisition"
	"github.com/yusufkecer/body-score-backend/internal/domain"
	"github.com/yusufkecer/body-score-backend/internal/scoring"
)

type BodyScoreCommand struct {
	Score   ScoreCommand   `command:"score"   description:"Score a batch of readings from a YAML or JSON file."`
	Presets PresetsCommand `command:"presets" description:"List the weight presets."`
}

func NewBodyScoreCommand(out io.Writer) *BodyScoreCommand {
	return &BodyScoreCommand{
		Score:   ScoreCommand{out: out, clock: clock.NewClock()},
		Presets: PresetsCommand{out: out},
	}
}

// Batch is the file format read by the score command. JSON files parse too.
type Batch struct {
	Profile  domain.Profile   `yaml:"profile"`
	Readings []domain.Reading `yaml:"readings"`
}

type ScoreCommand struct {
	File    string             `short:"f" long:"file"   required:"true" description:"Path to the batch file."`
	Preset  string             `short:"p" long:"preset" default:"default" description:"Weight preset to start from."`
	Weights map[string]float64 `short:"w" long:"weight" value-name:"CATEGORY:WEIGHT" description:"Override one category weight. Can be repeated."`
	Pretty  bool               `long:"pretty" description:"Indent the JSON output."`

	out   io.Writer
	clock clock.Clock
}

type scoreOutput struct {
	Profile  domain.Profile       `json:"profile"`
	Snapshot domain.ScoreSnapshot `json:"snapshot"`
	Skipped  []domain.Reading     `json:"skipped"`
}

func (cmd *ScoreCommand) Execute(args []string) error {
	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read batch: %w", err)
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return fmt.Errorf("failed to parse batch: %w", err)
	}

	prefs, err := cmd.preferences()
	if err != nil {
		return err
	}

	profile := domain.NewProfile(batch.Profile.Age, batch.Profile.Sex, batch.Profile.HeightMeters)

	readings := make([]domain.Reading, 0, len(batch.Readings))
	for _, r := range batch.Readings {
		readings = append(readings, r.WithDefaults())
	}

	engine := scoring.NewEngine(scoring.DefaultRegistry(), cmd.clock)
	snapshot, skipped := engine.Score(profile, acquisition.Derive(readings, profile), prefs)
	if skipped == nil {
		skipped = []domain.Reading{}
	}

	return cmd.write(scoreOutput{Profile: profile, Snapshot: snapshot, Skipped: skipped})
}

func (cmd *ScoreCommand) preferences() (domain.Preferences, error) {
	prefs, err := domain.DefaultPreferences().ApplyPreset(cmd.Preset)
	if err != nil {
		return domain.Preferences{}, err
	}

	categories := make([]string, 0, len(cmd.Weights))
	for c := range cmd.Weights {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, name := range categories {
		c, err := domain.ParseCategory(name)
		if err != nil {
			return domain.Preferences{}, err
		}
		prefs = prefs.UpdateWeight(c, cmd.Weights[name])
	}
	return prefs, nil
}

func (cmd *ScoreCommand) write(v interface{}) error {
	enc := json.NewEncoder(cmd.out)
	if cmd.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

type PresetsCommand struct {
	out io.Writer
}

func (cmd *PresetsCommand) Execute(args []string) error {
	for _, name := range domain.PresetNames() {
		weights, _ := domain.Preset(name)
		fmt.Fprintf(cmd.out, "%s:", name)
		for _, c := range domain.AllCategories {
			fmt.Fprintf(cmd.out, " %s=%.1f", c, weights.Weight(c))
		}
		fmt.Fprintln(cmd.out)
	}
	return nil
}
